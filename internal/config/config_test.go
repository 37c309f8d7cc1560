package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.APIBasePath != "/api" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.Sources.CallsInterval != 10*time.Second {
		t.Errorf("CallsInterval = %v", cfg.Sources.CallsInterval)
	}
	if cfg.Sources.OutboundInterval != 60*time.Second {
		t.Errorf("OutboundInterval = %v", cfg.Sources.OutboundInterval)
	}
	if !cfg.SeedDemoData {
		t.Error("SeedDemoData must default to true")
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.GinMode)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CALLS_POLL_INTERVAL", "5s")
	t.Setenv("OUTBOUND_WEBHOOK_URL", "https://hooks.example.com/outbound")
	t.Setenv("SEED_DEMO_DATA", "false")
	t.Setenv("API_BASE_PATH", "api/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Sources.CallsInterval != 5*time.Second {
		t.Errorf("CallsInterval = %v", cfg.Sources.CallsInterval)
	}
	if cfg.Sources.OutboundURL != "https://hooks.example.com/outbound" {
		t.Errorf("OutboundURL = %q", cfg.Sources.OutboundURL)
	}
	if cfg.SeedDemoData {
		t.Error("SeedDemoData = true, want false")
	}
	if cfg.APIBasePath != "/api" {
		t.Errorf("base path not normalized: %q", cfg.APIBasePath)
	}
}

func TestLoad_SourcesFileWinsOverEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	body := []byte(`
example_data_url: https://files.example.com/example-data.json
outbound_url: https://hooks.example.com/from-file
calls_interval: 30s
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SOURCES_FILE", path)
	t.Setenv("OUTBOUND_WEBHOOK_URL", "https://hooks.example.com/from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sources.ExampleDataURL != "https://files.example.com/example-data.json" {
		t.Errorf("ExampleDataURL = %q", cfg.Sources.ExampleDataURL)
	}
	if cfg.Sources.OutboundURL != "https://hooks.example.com/from-file" {
		t.Errorf("file must win over env, got %q", cfg.Sources.OutboundURL)
	}
	if cfg.Sources.CallsInterval != 30*time.Second {
		t.Errorf("CallsInterval = %v", cfg.Sources.CallsInterval)
	}
	if cfg.Sources.OutboundInterval != 60*time.Second {
		t.Errorf("unset file values must keep defaults, got %v", cfg.Sources.OutboundInterval)
	}
}

func TestLoad_MissingSourcesFile(t *testing.T) {
	t.Setenv("SOURCES_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing sources file")
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"LOG_LEVEL":        "loud",
		"RATE_BURST":       "0",
		"UPSTREAM_TIMEOUT": "-1s",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s must fail validation", key, val)
			}
		})
	}
}

func TestLoad_WarningAliasNormalized(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warning")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}
