package config

import (
	"fmt"
	"reflect"
	"strings"

	"listing-sync/core/database"
	"listing-sync/core/eagle"
	"listing-sync/core/logger"
	"listing-sync/core/reconcile"
	"listing-sync/core/server"
	"listing-sync/core/storage"
	"listing-sync/core/wordpress"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// CRM holds configuration for the Eagle CRM API.
	CRM eagle.Config `mapstructure:"crm"`
	// Site holds configuration for the WordPress site.
	Site wordpress.Config `mapstructure:"site"`
	// Sync holds configuration for sync passes.
	Sync reconcile.Config `mapstructure:"sync"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. CRM_PAGE_SIZE -> crm.page_size)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings that cannot run a pass.
func (c *Config) Validate() error {
	if !c.Sync.IsValidSnapshotBackend() {
		return fmt.Errorf("invalid sync.snapshot_backend %q", c.Sync.SnapshotBackend)
	}
	if c.CRM.PageSize <= 0 {
		return fmt.Errorf("crm.page_size must be positive, got %d", c.CRM.PageSize)
	}
	if c.Site.PageSize <= 0 {
		return fmt.Errorf("site.page_size must be positive, got %d", c.Site.PageSize)
	}
	if _, err := wordpress.ParseAgentMap(c.Site.AgentMap); err != nil {
		return fmt.Errorf("invalid site.agent_map: %w", err)
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
