// Package config provides configuration management for listing-sync.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, timeouts)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - CRM: Eagle API credentials, paging and throttling
//   - Site: WordPress credentials, post defaults and the agent map
//   - Sync: dry run, abort policy, schedule and snapshot backend
//
// Every field has a default in its `default` struct tag. Environment keys are the
// section and field joined by an underscore, e.g. SITE_BASE_URL.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
