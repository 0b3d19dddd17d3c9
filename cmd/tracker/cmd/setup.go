// Package cmd provides CLI commands for the resource tracker.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"resource-tracker/internal/analytics"
	"resource-tracker/internal/config"
	"resource-tracker/internal/export"
	"resource-tracker/internal/ingest"
	"resource-tracker/internal/parser"
	"resource-tracker/internal/store"
)

// setupLogger creates the process logger from level and format settings.
func setupLogger(level string, format string) zerolog.Logger {
	// Set log level
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	// Load Asia/Shanghai timezone for log timestamps
	tz, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		tz = time.Local
	}

	// Set timezone for all timestamps
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(tz)
	}

	// Select output format based on configuration
	var output io.Writer
	if format == "json" {
		// JSON format - structured logging for log aggregation systems
		output = os.Stderr
	} else {
		// Console format - human-readable output for development
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// loadRuntime loads the configuration and builds the logger, exiting on
// failure. The command line --log-level overrides the config file setting.
func loadRuntime() (*config.Config, zerolog.Logger) {
	configPath := GetConfigFile()
	cfg, err := config.Load(configPath)
	if err != nil {
		tmpLogger := setupLogger("error", "console")
		tmpLogger.Error().Err(err).Str("path", configPath).Msg("failed to load config")
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Logging.Level
	if GetLogLevel() != "info" { // If explicitly set via command line
		level = GetLogLevel()
	}
	logger := setupLogger(level, cfg.Logging.Format)
	logger.Debug().
		Str("config_path", configPath).
		Str("log_level", level).
		Str("log_format", cfg.Logging.Format).
		Msg("configuration loaded successfully")

	return cfg, logger
}

// openPipeline opens the store and exporter and wires the ingestion service.
func openPipeline(cfg *config.Config, logger zerolog.Logger) (*store.Store, *export.Exporter, *ingest.Service, error) {
	st, err := store.Open(cfg.Storage.BaseDir, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	exporter, err := export.Open(filepath.Join(st.RecordDir(), export.DefaultFilename), logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open export table: %w", err)
	}

	svc := ingest.NewService(parser.NewResolver(), st, exporter, logger)
	return st, exporter, svc, nil
}

// buildAnalytics loads alert rules and builds the aggregator/engine pair.
// An empty rulesPath uses the built-in thresholds.
func buildAnalytics(rulesPath string, logger zerolog.Logger) (*analytics.Aggregator, *analytics.Engine, error) {
	rules, err := config.LoadAlertRules(rulesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load alert rules: %w", err)
	}
	return analytics.NewAggregator(logger), analytics.NewEngine(rules), nil
}

// reportTimezone resolves the configured report timezone.
func reportTimezone(cfg *config.Config) *time.Location {
	if cfg.Report.Timezone != "" {
		if tz, err := time.LoadLocation(cfg.Report.Timezone); err == nil {
			return tz
		}
	}
	tz, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.Local
	}
	return tz
}

// printBanner prints the tool banner.
func printBanner() {
	fmt.Printf("📡 设备资源追踪服务 %s\n", Version)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}
