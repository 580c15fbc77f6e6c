// Package config provides configuration management for the dataset API.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"heatmap/internal/tabular"
	"heatmap/pkg/utils"
)

// Configuration validation errors.
var (
	ErrNoDatasets               = errors.New("at least one dataset is required")
	ErrNoEnabledDatasets        = errors.New("at least one dataset must be enabled")
	ErrDatasetMissingName       = errors.New("dataset name is required")
	ErrDuplicateDataset         = errors.New("dataset name and route must be unique")
	ErrInvalidDatasetKind       = errors.New("dataset kind must be one of: facility, registrant, inspection")
	ErrInvalidDatasetMode       = errors.New("dataset mode must be 'strict' or 'lenient'")
	ErrInvalidDatasetRoute      = errors.New("dataset route must start with '/'")
	ErrDatasetSource            = errors.New("exactly one of embedded, file or url is required")
	ErrInvalidDatasetURL        = errors.New("dataset url must be an absolute http(s) URL")
	ErrMissingServerAddr        = errors.New("server.addr is required")
	ErrInvalidServerTimeout     = errors.New("server timeouts must be at least 1 second")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
	ErrUnknownDataset           = errors.New("unknown dataset")
)

// Dataset kinds.
const (
	KindFacility   = "facility"
	KindRegistrant = "registrant"
	KindInspection = "inspection"
)

// Environment variables read by ApplyEnv and Load.
const (
	EnvPort      = "PORT"
	EnvConfig    = "HEATMAP_CONFIG"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// Config represents the complete service configuration.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Datasets []DatasetConfig `yaml:"datasets"`
	Retry    RetryPolicy     `yaml:"retry"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Addr               string   `yaml:"addr"`
	CORSOrigins        []string `yaml:"cors_origins"`
	ReadTimeoutSec     int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int      `yaml:"write_timeout_sec"`
	IdleTimeoutSec     int      `yaml:"idle_timeout_sec"`
	ShutdownTimeoutSec int      `yaml:"shutdown_timeout_sec"`
	Gzip               bool     `yaml:"gzip"`
}

// ReadTimeout returns the request read timeout.
func (s *ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

// WriteTimeout returns the response write timeout.
func (s *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

// IdleTimeout returns the keep-alive idle timeout.
func (s *ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSec) * time.Second
}

// ShutdownTimeout bounds graceful shutdown.
func (s *ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSec) * time.Second
}

// DatasetConfig describes one published dataset and where its bytes come from.
type DatasetConfig struct {
	Name       string   `yaml:"name"`
	Route      string   `yaml:"route"`
	Label      string   `yaml:"label"`
	Kind       string   `yaml:"kind"`
	Mode       string   `yaml:"mode"`
	Embedded   string   `yaml:"embedded"`
	File       string   `yaml:"file"`
	URL        string   `yaml:"url"`
	Checksum   string   `yaml:"checksum"`
	BackupURLs []string `yaml:"backup_urls"`
	Enabled    bool     `yaml:"enabled"`
}

// IsLocalFile returns true if this dataset is read from disk.
func (d *DatasetConfig) IsLocalFile() bool {
	return d.File != ""
}

// GetSource returns the embedded name, file path or URL, whichever is set.
func (d *DatasetConfig) GetSource() string {
	switch {
	case d.Embedded != "":
		return "embedded:" + d.Embedded
	case d.IsLocalFile():
		return d.File
	}

	return d.URL
}

// GetAllURLs returns the primary URL followed by its mirrors.
func (d *DatasetConfig) GetAllURLs() []string {
	urls := []string{d.URL}
	urls = append(urls, d.BackupURLs...)

	return urls
}

// DecodeMode returns the configured decode mode. An empty mode is strict.
func (d *DatasetConfig) DecodeMode() (tabular.Mode, error) {
	if d.Mode == "" {
		return tabular.Strict, nil
	}

	return tabular.ParseMode(d.Mode)
}

// DisplayLabel names the dataset in error messages.
func (d *DatasetConfig) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}

	return d.Name
}

// RetryPolicy defines retry behavior for URL datasets.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration serving the embedded datasets.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8000",
			CORSOrigins:        []string{"*"},
			ReadTimeoutSec:     10,
			WriteTimeoutSec:    30,
			IdleTimeoutSec:     60,
			ShutdownTimeoutSec: 10,
			Gzip:               true,
		},
		Datasets: []DatasetConfig{
			{
				Name:     "locations",
				Route:    "/api/locations",
				Label:    "location",
				Kind:     KindFacility,
				Mode:     "strict",
				Embedded: "usda_locations.csv",
				Enabled:  true,
			},
			{
				Name:     "aphis-reports",
				Route:    "/api/aphis-reports",
				Label:    "APHIS",
				Kind:     KindRegistrant,
				Mode:     "lenient",
				Embedded: "aphis_data_final.csv",
				Enabled:  true,
			},
			{
				Name:     "inspection-reports",
				Route:    "/api/inspection-reports",
				Label:    "inspection reports",
				Kind:     KindInspection,
				Mode:     "strict",
				Embedded: "inspection_reports.csv",
				Enabled:  true,
			},
		},
		Retry: RetryPolicy{
			MaxAttempts:       3,
			InitialDelayMs:    500,
			MaxDelayMs:        5000,
			BackoffMultiplier: 2.0,
			TimeoutSec:        30,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads configuration from YAML file. Sections the file omits
// keep their default values.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load resolves the configuration for a process: it reads a .env file if
// present, loads path (or $HEATMAP_CONFIG, or the defaults) and applies
// environment overrides.
func Load(path string) (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := Default()

	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadEnv loads variables from the given .env files, or ./.env, without
// overriding variables already set. A missing file is not an error.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	return nil
}

// ApplyEnv overrides listener and logging settings from the environment.
func (c *Config) ApplyEnv() {
	if port := strings.TrimSpace(os.Getenv(EnvPort)); port != "" {
		c.Server.Addr = ":" + port
	}

	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}

	if format := strings.TrimSpace(os.Getenv(EnvLogFormat)); format != "" {
		c.Logging.Format = strings.ToLower(format)
	}
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return ErrMissingServerAddr
	}

	if c.Server.ReadTimeoutSec < 1 || c.Server.WriteTimeoutSec < 1 ||
		c.Server.IdleTimeoutSec < 1 || c.Server.ShutdownTimeoutSec < 1 {
		return ErrInvalidServerTimeout
	}

	if err := c.validateDatasets(); err != nil {
		return err
	}

	if c.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "" && c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

func (c *Config) validateDatasets() error {
	if len(c.Datasets) == 0 {
		return ErrNoDatasets
	}

	helper := utils.NewHTTPHelper()
	names := make(map[string]bool)
	routes := make(map[string]bool)
	enabledCount := 0

	for i, ds := range c.Datasets {
		if ds.Name == "" {
			return fmt.Errorf("%w: datasets[%d]", ErrDatasetMissingName, i)
		}

		if names[ds.Name] || routes[ds.Route] {
			return fmt.Errorf("%w: %s", ErrDuplicateDataset, ds.Name)
		}

		names[ds.Name] = true
		routes[ds.Route] = true

		switch ds.Kind {
		case KindFacility, KindRegistrant, KindInspection:
		default:
			return fmt.Errorf("%w: %s has %q", ErrInvalidDatasetKind, ds.Name, ds.Kind)
		}

		if _, err := ds.DecodeMode(); err != nil {
			return fmt.Errorf("%w: %s has %q", ErrInvalidDatasetMode, ds.Name, ds.Mode)
		}

		if !strings.HasPrefix(ds.Route, "/") {
			return fmt.Errorf("%w: %s", ErrInvalidDatasetRoute, ds.Name)
		}

		sources := 0

		for _, s := range []string{ds.Embedded, ds.File, ds.URL} {
			if s != "" {
				sources++
			}
		}

		if sources != 1 {
			return fmt.Errorf("%w: %s", ErrDatasetSource, ds.Name)
		}

		if ds.URL != "" {
			for _, u := range ds.GetAllURLs() {
				if !helper.IsValidURL(u) {
					return fmt.Errorf("%w: %s has %q", ErrInvalidDatasetURL, ds.Name, u)
				}
			}
		}

		if ds.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledDatasets
	}

	return nil
}

// GetEnabledDatasets returns only enabled datasets.
func (c *Config) GetEnabledDatasets() []DatasetConfig {
	var enabled []DatasetConfig

	for _, ds := range c.Datasets {
		if ds.Enabled {
			enabled = append(enabled, ds)
		}
	}

	return enabled
}

// Dataset returns the dataset with the given name.
func (c *Config) Dataset(name string) (DatasetConfig, error) {
	for _, ds := range c.Datasets {
		if ds.Name == name {
			return ds, nil
		}
	}

	return DatasetConfig{}, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the per-request timeout.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Addr: %s, Datasets: %d, MaxAttempts: %d, LogLevel: %s}",
		c.Server.Addr,
		len(c.GetEnabledDatasets()),
		c.Retry.MaxAttempts,
		c.Logging.Level,
	)
}
