// Package config provides configuration management for the resource tracker.
package config

import "time"

// Config is the root configuration structure for the resource tracker.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Report    ReportConfig    `mapstructure:"report"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Push      PushConfig      `mapstructure:"push"`
}

// ServerConfig contains the ingestion server settings.
type ServerConfig struct {
	Listen          string        `mapstructure:"listen" validate:"required"` // 监听地址
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gte=1024"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig contains the file store settings.
type StorageConfig struct {
	BaseDir string `mapstructure:"base_dir" validate:"required"` // 数据根目录
}

// DirectoryConfig contains settings for the read-only device directory.
// The directory is an external collaborator: when it is unavailable the
// dashboard endpoints degrade to empty results.
type DirectoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // SQLite database path
}

// NotifyConfig contains settings for the optional alert publisher.
type NotifyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url" validate:"required_if=Enabled true"` // AMQP broker URL
	Queue   string `mapstructure:"queue"`
}

// ReportConfig contains configurations for report generation.
type ReportConfig struct {
	OutputDir        string   `mapstructure:"output_dir"`
	Formats          []string `mapstructure:"formats" validate:"dive,oneof=excel csv"`
	FilenameTemplate string   `mapstructure:"filename_template"`
	Timezone         string   `mapstructure:"timezone"`
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// HTTPConfig contains HTTP client configurations including retry settings.
type HTTPConfig struct {
	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig defines retry behavior for HTTP requests.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}

// PushConfig contains settings for the client-side payload uploader.
type PushConfig struct {
	Endpoint    string        `mapstructure:"endpoint" validate:"omitempty,url"` // 服务端地址
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency" validate:"gte=1,lte=100"`
}
