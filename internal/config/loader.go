// Package config provides configuration management for the resource tracker.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified YAML file and environment variables.
// Environment variables take precedence over file values.
// Environment variable format: TRACKER_<SECTION>_<KEY> (e.g., TRACKER_SERVER_LISTEN)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	// Configure environment variable binding
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.listen", ":5000")
	v.SetDefault("server.max_body_bytes", 1048576) // 1MB
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Storage defaults
	v.SetDefault("storage.base_dir", "./data")

	// Directory defaults
	v.SetDefault("directory.enabled", false)
	v.SetDefault("directory.path", "./directory.db")

	// Notify defaults
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.queue", "resource.alerts")

	// Report defaults
	v.SetDefault("report.output_dir", "./reports")
	v.SetDefault("report.formats", []string{"excel", "csv"})
	v.SetDefault("report.filename_template", "usage_report_{{.Date}}")
	v.SetDefault("report.timezone", "Asia/Shanghai")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// HTTP retry defaults
	v.SetDefault("http.retry.max_retries", 3)
	v.SetDefault("http.retry.base_delay", 1*time.Second)

	// Push defaults
	v.SetDefault("push.timeout", 30*time.Second)
	v.SetDefault("push.concurrency", 5)
}
