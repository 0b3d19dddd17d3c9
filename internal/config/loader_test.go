// Package config provides configuration management for the resource tracker.
package config

import (
	"os"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad_Success(t *testing.T) {
	path := writeTempConfig(t, `
server:
  listen: ":8080"
storage:
  base_dir: "/var/lib/tracker"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify file values
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %v, want :8080", cfg.Server.Listen)
	}
	if cfg.Storage.BaseDir != "/var/lib/tracker" {
		t.Errorf("BaseDir = %v, want /var/lib/tracker", cfg.Storage.BaseDir)
	}

	// Verify defaults
	if cfg.Server.MaxBodyBytes != 1048576 {
		t.Errorf("MaxBodyBytes = %v, want 1048576", cfg.Server.MaxBodyBytes)
	}
	if cfg.HTTP.Retry.MaxRetries != 3 {
		t.Errorf("MaxRetries = %v, want 3", cfg.HTTP.Retry.MaxRetries)
	}
	if cfg.Report.Timezone != "Asia/Shanghai" {
		t.Errorf("Timezone = %v, want Asia/Shanghai", cfg.Report.Timezone)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Notify.Queue != "resource.alerts" {
		t.Errorf("Queue = %v, want resource.alerts", cfg.Notify.Queue)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Listen != ":5000" {
		t.Errorf("Listen = %v, want :5000", cfg.Server.Listen)
	}
	if cfg.Storage.BaseDir != "./data" {
		t.Errorf("BaseDir = %v, want ./data", cfg.Storage.BaseDir)
	}
	if cfg.Push.Concurrency != 5 {
		t.Errorf("Concurrency = %v, want 5", cfg.Push.Concurrency)
	}
	if len(cfg.Report.Formats) != 2 {
		t.Errorf("Formats = %v, want [excel csv]", cfg.Report.Formats)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	path := writeTempConfig(t, `
server:
  listen: ":8080"
`)

	os.Setenv("TRACKER_SERVER_LISTEN", ":9999")
	defer os.Unsetenv("TRACKER_SERVER_LISTEN")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Environment variable should override file value
	if cfg.Server.Listen != ":9999" {
		t.Errorf("Listen = %v, want :9999 (env override)", cfg.Server.Listen)
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := writeTempConfig(t, `
logging:
  level: "verbose"
`)

	_, err := Load(path)
	if err == nil {
		t.Error("Load() should return error for invalid log level")
	}
}
