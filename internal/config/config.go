// Package config provides configuration types, defaults, and persistence for starmap.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/starmap/internal/log"
	"github.com/zjrosen/starmap/internal/tracing"
)

// Source names for fetcher backends.
const (
	SourceESI = "esi"
	SourceSDE = "sde"
)

// Config holds all configuration options for starmap.
type Config struct {
	// Source selects the fetcher backend: "esi" (network) or "sde" (local sqlite).
	Source    string          `mapstructure:"source"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	ESI       ESIConfig       `mapstructure:"esi"`
	SDE       SDEConfig       `mapstructure:"sde"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Tracing   tracing.Config  `mapstructure:"tracing"`
}

// SchedulerConfig controls the fetch dispatcher.
type SchedulerConfig struct {
	MaxWorkers   int           `mapstructure:"max_workers"`   // concurrent in-flight fetches
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"` // per-fetch deadline, 0 = none
	FailFast     bool          `mapstructure:"fail_fast"`     // skip undispatched names after first failure
}

// ESIConfig controls the network fetcher.
type ESIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SDEConfig controls the local sqlite fetcher.
type SDEConfig struct {
	Path string `mapstructure:"path"` // path to the Static Data Export database
}

// CacheConfig controls the read-through fetch cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Source: SourceESI,
		Scheduler: SchedulerConfig{
			MaxWorkers:   4,
			FetchTimeout: 30 * time.Second,
			FailFast:     false,
		},
		ESI: ESIConfig{
			BaseURL:   "https://esi.evetech.net/latest",
			UserAgent: "",
			Timeout:   30 * time.Second,
		},
		SDE: SDEConfig{
			Path: "",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate checks the configuration for inconsistencies.
func Validate(cfg Config) error {
	switch cfg.Source {
	case SourceESI, SourceSDE:
	default:
		return fmt.Errorf("source must be %q or %q, got %q", SourceESI, SourceSDE, cfg.Source)
	}
	if cfg.Scheduler.MaxWorkers < 1 {
		return fmt.Errorf("scheduler.max_workers must be at least 1, got %d", cfg.Scheduler.MaxWorkers)
	}
	if cfg.Scheduler.FetchTimeout < 0 {
		return fmt.Errorf("scheduler.fetch_timeout cannot be negative, got %v", cfg.Scheduler.FetchTimeout)
	}
	if cfg.Source == SourceSDE && cfg.SDE.Path == "" {
		return fmt.Errorf("sde.path is required when source is %q", SourceSDE)
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl cannot be negative, got %v", cfg.Cache.TTL)
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateTracing checks the tracing section.
func ValidateTracing(cfg tracing.Config) error {
	// Validate SampleRate is in range [0.0, 1.0]
	if cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", cfg.SampleRate)
	}

	// Validate Exporter is a valid option
	if cfg.Exporter != "" {
		switch cfg.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", cfg.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if cfg.Enabled {
		if cfg.Exporter == "file" && cfg.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if cfg.Exporter == "otlp" && cfg.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the commented YAML written on first run.
func DefaultConfigTemplate() string {
	return `# starmap configuration
#
# source selects where systems are fetched from:
#   esi - the public ESI API (network)
#   sde - a local Static Data Export sqlite database
source: esi

scheduler:
  # Number of concurrent in-flight fetches. Independent of batch size.
  max_workers: 4
  # Deadline for each individual fetch. 0 disables the per-fetch deadline.
  fetch_timeout: 30s
  # When true, a failed fetch skips every name not yet dispatched.
  # The default collects every outcome instead.
  fail_fast: false

esi:
  base_url: https://esi.evetech.net/latest
  # ESI asks clients to identify themselves; set this to something that
  # includes a way to contact you.
  # user_agent: "my-tool/1.0 (me@example.com)"
  timeout: 30s

# sde:
#   path: ~/sde/universe.db

cache:
  enabled: true
  ttl: 10m

# tracing:
#   enabled: true
#   exporter: file
#   file_path: ~/.config/starmap/traces/traces.jsonl
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
