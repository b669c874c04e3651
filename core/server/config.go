package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ReadTimeoutSeconds bounds reading a request.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"30"`
	// ShutdownTimeoutSeconds bounds graceful shutdown, including a running sync pass.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" default:"60"`
}

// IsProtected reports whether API routes require a key.
func (c Config) IsProtected() bool {
	return c.ApiKey != ""
}
