package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/starmap/internal/config"
	"github.com/zjrosen/starmap/internal/log"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "starmap",
	Short: "Assemble an immutable universe of solar systems",
	Long: `starmap fetches named solar systems concurrently from ESI or a local
Static Data Export database and assembles them into an immutable,
name-indexed universe.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/starmap/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write debug logs to .starmap/debug.log")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("source", defaults.Source)
	viper.SetDefault("scheduler.max_workers", defaults.Scheduler.MaxWorkers)
	viper.SetDefault("scheduler.fetch_timeout", defaults.Scheduler.FetchTimeout)
	viper.SetDefault("scheduler.fail_fast", defaults.Scheduler.FailFast)
	viper.SetDefault("esi.base_url", defaults.ESI.BaseURL)
	viper.SetDefault("esi.user_agent", defaults.ESI.UserAgent)
	viper.SetDefault("esi.timeout", defaults.ESI.Timeout)
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .starmap/config.yaml (current directory)
		// 2. ~/.config/starmap/config.yaml (user config)
		if _, err := os.Stat(".starmap/config.yaml"); err == nil {
			viper.SetConfigFile(".starmap/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "starmap"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .starmap/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".starmap/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)

	debug = viper.GetBool("debug") || os.Getenv("STARMAP_DEBUG") != ""
	if debug {
		if err := os.MkdirAll(".starmap", 0o750); err == nil {
			_, _ = log.Init(".starmap/debug.log")
		}
	}
}

// configFilePath returns the config file in use, defaulting to the
// project-local path when none was loaded.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return ".starmap/config.yaml"
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
