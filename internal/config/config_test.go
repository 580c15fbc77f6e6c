package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"heatmap/internal/tabular"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

const validConfigYAML = `
server:
  addr: ":9090"
  gzip: false
  cors_origins: ["https://map.example.org"]
datasets:
  - name: "locations"
    route: "/api/locations"
    label: "location"
    kind: "facility"
    mode: "strict"
    file: "./static_data/usda_locations.csv"
    enabled: true
  - name: "aphis-reports"
    route: "/api/aphis-reports"
    kind: "registrant"
    mode: "lenient"
    url: "https://data.example.org/aphis.csv"
    backup_urls: ["https://mirror.example.org/aphis.csv"]
    enabled: true
  - name: "inspection-reports"
    route: "/api/inspection-reports"
    kind: "inspection"
    embedded: "inspection_reports.csv"
    enabled: false
retry:
  max_attempts: 4
  initial_delay_ms: 100
  max_delay_ms: 2000
  backoff_multiplier: 2.0
  timeout_sec: 15
logging:
  level: "debug"
  format: "json"
`

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" || cfg.Server.Gzip {
		t.Errorf("server section not applied: %+v", cfg.Server)
	}

	// Omitted timeouts keep their defaults.
	if cfg.Server.ReadTimeout() != 10*time.Second || cfg.Server.ShutdownTimeout() != 10*time.Second {
		t.Errorf("default timeouts lost: %+v", cfg.Server)
	}

	if len(cfg.Datasets) != 3 {
		t.Fatalf("Expected 3 datasets, got %d", len(cfg.Datasets))
	}

	aphis := cfg.Datasets[1]
	if mode, _ := aphis.DecodeMode(); mode != tabular.Lenient {
		t.Errorf("aphis mode = %v, want lenient", mode)
	}

	if aphis.DisplayLabel() != "aphis-reports" {
		t.Errorf("DisplayLabel fallback = %q", aphis.DisplayLabel())
	}

	if len(cfg.GetEnabledDatasets()) != 2 {
		t.Errorf("Expected 2 enabled datasets, got %d", len(cfg.GetEnabledDatasets()))
	}

	if cfg.Logging.Format != "json" || cfg.Retry.MaxAttempts != 4 {
		t.Errorf("unexpected config %s", cfg)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config is invalid: %v", err)
	}

	wantModes := map[string]tabular.Mode{
		"locations":          tabular.Strict,
		"aphis-reports":      tabular.Lenient,
		"inspection-reports": tabular.Strict,
	}

	for name, want := range wantModes {
		ds, err := cfg.Dataset(name)
		if err != nil {
			t.Fatalf("Dataset(%q): %v", name, err)
		}

		if mode, _ := ds.DecodeMode(); mode != want {
			t.Errorf("%s mode = %v, want %v", name, mode, want)
		}
	}
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"no datasets", func(c *Config) { c.Datasets = nil }, ErrNoDatasets},
		{"none enabled", func(c *Config) {
			for i := range c.Datasets {
				c.Datasets[i].Enabled = false
			}
		}, ErrNoEnabledDatasets},
		{"missing name", func(c *Config) { c.Datasets[0].Name = "" }, ErrDatasetMissingName},
		{"duplicate route", func(c *Config) { c.Datasets[1].Route = c.Datasets[0].Route }, ErrDuplicateDataset},
		{"bad kind", func(c *Config) { c.Datasets[0].Kind = "slaughterhouse" }, ErrInvalidDatasetKind},
		{"bad mode", func(c *Config) { c.Datasets[0].Mode = "skip" }, ErrInvalidDatasetMode},
		{"relative route", func(c *Config) { c.Datasets[0].Route = "api/locations" }, ErrInvalidDatasetRoute},
		{"no source", func(c *Config) { c.Datasets[0].Embedded = "" }, ErrDatasetSource},
		{"two sources", func(c *Config) { c.Datasets[0].File = "x.csv" }, ErrDatasetSource},
		{"bad url", func(c *Config) {
			c.Datasets[0].Embedded = ""
			c.Datasets[0].URL = "ftp://example.com/x.csv"
		}, ErrInvalidDatasetURL},
		{"bad backup url", func(c *Config) {
			c.Datasets[0].Embedded = ""
			c.Datasets[0].URL = "https://example.com/x.csv"
			c.Datasets[0].BackupURLs = []string{"mirror"}
		}, ErrInvalidDatasetURL},
		{"no addr", func(c *Config) { c.Server.Addr = "" }, ErrMissingServerAddr},
		{"zero timeout", func(c *Config) { c.Server.WriteTimeoutSec = 0 }, ErrInvalidServerTimeout},
		{"max attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"initial delay", func(c *Config) { c.Retry.InitialDelayMs = -1 }, ErrInvalidInitialDelay},
		{"backoff", func(c *Config) { c.Retry.BackoffMultiplier = 0.5 }, ErrInvalidBackoffMultiplier},
		{"retry timeout", func(c *Config) { c.Retry.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Dataset_Unknown(t *testing.T) {
	if _, err := Default().Dataset("slaughterhouses"); !errors.Is(err, ErrUnknownDataset) {
		t.Errorf("expected ErrUnknownDataset, got %v", err)
	}
}

func TestDatasetConfig_GetSource(t *testing.T) {
	tests := []struct {
		name     string
		ds       DatasetConfig
		expected string
	}{
		{"embedded", DatasetConfig{Embedded: "usda_locations.csv"}, "embedded:usda_locations.csv"},
		{"file", DatasetConfig{File: "/data/x.csv"}, "/data/x.csv"},
		{"url", DatasetConfig{URL: "https://example.com/x.csv"}, "https://example.com/x.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ds.GetSource(); got != tt.expected {
				t.Errorf("GetSource() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDatasetConfig_GetAllURLs(t *testing.T) {
	ds := DatasetConfig{
		URL:        "http://primary.com/x.csv",
		BackupURLs: []string{"http://backup1.com/x.csv", "http://backup2.com/x.csv"},
	}

	urls := ds.GetAllURLs()
	if len(urls) != 3 {
		t.Fatalf("Expected 3 URLs, got %d", len(urls))
	}

	if urls[0] != "http://primary.com/x.csv" {
		t.Errorf("Expected primary URL first, got %s", urls[0])
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv(EnvPort, "3000")
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvLogFormat, "json")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Server.Addr != ":3000" {
		t.Errorf("Addr = %q, want :3000", cfg.Server.Addr)
	}

	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoad_FromEnvConfigPath(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)
	t.Setenv(EnvConfig, configPath)
	t.Setenv(EnvPort, "7070")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":7070" {
		t.Errorf("PORT should override the file, got %q", cfg.Server.Addr)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("file settings lost: %+v", cfg.Logging)
	}
}

func TestLoadEnv_File(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envPath, []byte("HEATMAP_TEST_VALUE=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HEATMAP_TEST_VALUE", "")
	os.Unsetenv("HEATMAP_TEST_VALUE")

	if err := LoadEnv(envPath); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if got := os.Getenv("HEATMAP_TEST_VALUE"); got != "from-file" {
		t.Errorf("HEATMAP_TEST_VALUE = %q", got)
	}

	if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
}

func TestConfig_SaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	if err := Default().SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig of saved file failed: %v", err)
	}

	if len(cfg.Datasets) != 3 || cfg.Datasets[2].Embedded != "inspection_reports.csv" {
		t.Errorf("saved config lost datasets: %+v", cfg.Datasets)
	}
}

func TestRetryPolicy_GetRetryDelay(t *testing.T) {
	rp := RetryPolicy{
		InitialDelayMs:    100,
		MaxDelayMs:        1000,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 0},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, 1000 * time.Millisecond},
		{10, 1000 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := rp.GetRetryDelay(tt.attempt); got != tt.expected {
			t.Errorf("GetRetryDelay(%d) = %v, want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestRetryPolicy_GetTimeout(t *testing.T) {
	rp := RetryPolicy{TimeoutSec: 30}

	if got := rp.GetTimeout(); got != 30*time.Second {
		t.Errorf("GetTimeout() = %v, want 30s", got)
	}
}
