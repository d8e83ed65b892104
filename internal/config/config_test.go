package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// envKeys are cleared before each test so the host environment cannot leak in.
var envKeys = []string{
	"PORT", "CORS_ORIGIN", "DATABASE_URL", "MEDIA_STORAGE", "MEDIA_PATH",
	"MEDIA_URL_PREFIX", "MAX_UPLOAD_BYTES", "S3_ENDPOINT", "S3_REGION",
	"S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_FORCE_PATH_STYLE",
	"S3_BUCKET", "S3_PUBLIC_URL", "LOG_LEVEL", "LOG_FORMAT",
	"METRICS_ENABLED", "SHUTDOWN_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 4000 {
		t.Errorf("Port: want 4000, got %d", cfg.Port)
	}
	if cfg.CORSOrigin != "http://localhost:5173" {
		t.Errorf("CORSOrigin: got %q", cfg.CORSOrigin)
	}
	if cfg.MediaStorage != "local" || cfg.MediaPath != "./media" || cfg.MediaURLPrefix != "/media" {
		t.Errorf("media: got %q %q %q", cfg.MediaStorage, cfg.MediaPath, cfg.MediaURLPrefix)
	}
	if cfg.MaxUploadBytes != 5*1024*1024 {
		t.Errorf("MaxUploadBytes: want 5 MiB, got %d", cfg.MaxUploadBytes)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("logging: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled: want true")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout: got %v", cfg.ShutdownTimeout)
	}
	if cfg.Addr() != ":4000" {
		t.Errorf("Addr: got %q", cfg.Addr())
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
port: 8088
cors_origin: https://shop.example.com
media_storage: s3
max_upload_bytes: 1048576
s3:
  endpoint: http://minio:9000
  bucket: catalog-images
  public_url: https://cdn.example.com
  force_path_style: false
log_format: text
metrics_enabled: false
shutdown_timeout: 3s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8088 {
		t.Errorf("Port: got %d", cfg.Port)
	}
	if cfg.CORSOrigin != "https://shop.example.com" {
		t.Errorf("CORSOrigin: got %q", cfg.CORSOrigin)
	}
	if cfg.MediaStorage != "s3" || cfg.S3.Bucket != "catalog-images" || cfg.S3.Endpoint != "http://minio:9000" {
		t.Errorf("s3: got %+v", cfg.S3)
	}
	if cfg.S3.ForcePathStyle {
		t.Error("ForcePathStyle: file should override default true")
	}
	if cfg.S3.Region != "us-east-1" {
		t.Errorf("Region: unset keys should keep defaults, got %q", cfg.S3.Region)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Errorf("MaxUploadBytes: got %d", cfg.MaxUploadBytes)
	}
	if cfg.LogFormat != "text" || cfg.LogLevel != "info" {
		t.Errorf("logging: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled: want false")
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout: got %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "port: 8088\nlog_level: warn\n")
	t.Setenv("PORT", "9099")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9099 {
		t.Errorf("Port: env should win, got %d", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: file value should survive, got %q", cfg.LogLevel)
	}
	if cfg.MaxUploadBytes != 2048 {
		t.Errorf("MaxUploadBytes: got %d", cfg.MaxUploadBytes)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled: want false from env")
	}
}

func TestLoad_MalformedEnvKeepsValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 4000 {
		t.Errorf("Port: want fallback 4000, got %d", cfg.Port)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout: want fallback, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "port: [1, 2\n")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "port zero", modify: func(c *Config) { c.Port = 0 }, wantErr: "PORT"},
		{name: "port too high", modify: func(c *Config) { c.Port = 70000 }, wantErr: "PORT"},
		{name: "no database", modify: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "zero upload limit", modify: func(c *Config) { c.MaxUploadBytes = 0 }, wantErr: "MAX_UPLOAD_BYTES"},
		{name: "unknown storage", modify: func(c *Config) { c.MediaStorage = "ftp" }, wantErr: "MEDIA_STORAGE"},
		{name: "s3 without bucket", modify: func(c *Config) { c.MediaStorage = "s3" }, wantErr: "S3_BUCKET"},
		{name: "s3 with bucket", modify: func(c *Config) { c.MediaStorage = "s3"; c.S3.Bucket = "b" }},
		{name: "relative url prefix", modify: func(c *Config) { c.MediaURLPrefix = "media" }, wantErr: "MEDIA_URL_PREFIX"},
		{name: "root url prefix", modify: func(c *Config) { c.MediaURLPrefix = "/" }, wantErr: "MEDIA_URL_PREFIX"},
		{name: "empty media path", modify: func(c *Config) { c.MediaPath = "" }, wantErr: "MEDIA_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	clearEnv(t)
	t.Setenv("MEDIA_STORAGE", "s3")

	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "S3_BUCKET") {
		t.Errorf("expected S3_BUCKET error, got %v", err)
	}
}
