package wordpress

// Config holds configuration for the WordPress REST API of the publishing site.
type Config struct {
	// BaseURL is the site root, e.g. https://www.example.com.au.
	BaseURL string `mapstructure:"base_url" default:"http://localhost"`
	// User is the application user for basic authentication.
	User string `mapstructure:"user" default:""`
	// Password is the application password for basic authentication.
	Password string `mapstructure:"password" default:""`
	// PageSize is the per_page used when listing properties.
	PageSize int `mapstructure:"page_size" default:"100"`
	// AuthorID is the WordPress user that owns synced posts.
	AuthorID int `mapstructure:"author_id" default:"12"`
	// Country is written to every listing's country field.
	Country string `mapstructure:"country" default:"AU"`
	// AgentMap pins CRM agent ids to site agent ids, as "crmID:siteID,crmID:siteID".
	AgentMap string `mapstructure:"agent_map" default:"816:6378,10326:6994,3603:2948,4911:3393,10228:7061,2345:158,3130:72,2415:150,2398:2018"`
	// RequestsPerSecond throttles calls to the API.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"5"`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"90"`
	// UserAgent is sent with every request; some hosts block the Go default.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (compatible; listing-sync/1.0)"`
}
