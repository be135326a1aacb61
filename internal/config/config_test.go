package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/starmap/internal/tracing"
)

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestValidate_Source(t *testing.T) {
	cfg := Defaults()
	cfg.Source = "carrier-pigeon"

	err := Validate(cfg)

	require.ErrorContains(t, err, "source must be")
}

func TestValidate_MaxWorkers(t *testing.T) {
	cfg := Defaults()
	cfg.Scheduler.MaxWorkers = 0

	err := Validate(cfg)

	require.ErrorContains(t, err, "max_workers")
}

func TestValidate_NegativeFetchTimeout(t *testing.T) {
	cfg := Defaults()
	cfg.Scheduler.FetchTimeout = -time.Second

	err := Validate(cfg)

	require.ErrorContains(t, err, "fetch_timeout")
}

func TestValidate_SDERequiresPath(t *testing.T) {
	cfg := Defaults()
	cfg.Source = SourceSDE
	cfg.SDE.Path = ""

	err := Validate(cfg)

	require.ErrorContains(t, err, "sde.path")

	cfg.SDE.Path = "/data/sde.db"
	require.NoError(t, Validate(cfg))
}

func TestValidate_NegativeCacheTTL(t *testing.T) {
	cfg := Defaults()
	cfg.Cache.Enabled = true
	cfg.Cache.TTL = -time.Minute

	err := Validate(cfg)

	require.ErrorContains(t, err, "cache.ttl")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*tracing.Config)
		wantErr string
	}{
		{
			name:   "defaults valid",
			mutate: func(*tracing.Config) {},
		},
		{
			name:    "sample rate out of range",
			mutate:  func(c *tracing.Config) { c.SampleRate = 1.5 },
			wantErr: "sample_rate",
		},
		{
			name:    "unknown exporter",
			mutate:  func(c *tracing.Config) { c.Exporter = "carrier-pigeon" },
			wantErr: "tracing.exporter",
		},
		{
			name: "file exporter requires path",
			mutate: func(c *tracing.Config) {
				c.Enabled = true
				c.Exporter = "file"
				c.FilePath = ""
			},
			wantErr: "file_path",
		},
		{
			name: "otlp exporter requires endpoint",
			mutate: func(c *tracing.Config) {
				c.Enabled = true
				c.Exporter = "otlp"
				c.OTLPEndpoint = ""
			},
			wantErr: "otlp_endpoint",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tracing.DefaultConfig()
			tt.mutate(&cfg)

			err := ValidateTracing(cfg)

			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfigTemplate_IsValidYAML(t *testing.T) {
	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &parsed))
	require.Equal(t, SourceESI, parsed["source"])

	scheduler, ok := parsed["scheduler"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 4, scheduler["max_workers"])
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestSaveSource_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveSource(path, SourceSDE))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "source: sde")
	require.Contains(t, content, "# Number of concurrent in-flight fetches",
		"comments in untouched sections survive the rewrite")

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Equal(t, SourceSDE, parsed["source"])
}

func TestSaveSource_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveSource(path, SourceESI))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "source: esi"))
}

func TestSaveSource_AppendsMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  enabled: true\n"), 0o600))

	require.NoError(t, SaveSource(path, SourceSDE))

	var parsed map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Equal(t, SourceSDE, parsed["source"])
	cache, ok := parsed["cache"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, cache["enabled"])
}
