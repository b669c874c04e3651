package eagle

// Config holds configuration for the Eagle CRM API.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string `mapstructure:"base_url" default:"https://www.eagleagent.com.au/api/v2"`
	// Email is the login of the API user.
	Email string `mapstructure:"email" default:""`
	// Password is the password of the API user.
	Password string `mapstructure:"password" default:""`
	// PageSize is the page[limit] used when listing properties.
	PageSize int `mapstructure:"page_size" default:"60"`
	// RequestsPerSecond throttles calls to the API.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"5"`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"90"`
}
