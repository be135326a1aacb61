package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/starmap/internal/config"
	"github.com/zjrosen/starmap/internal/esi"
	"github.com/zjrosen/starmap/internal/sde"
)

var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "List all systems known to the configured source",
	Long: `List every system the configured source knows about, as JSON.

With source=esi this prints the system ids from /universe/systems/.
With source=sde this prints the system names from the local database.

Examples:
  starmap systems
  starmap systems | jq length`,
	Args: cobra.NoArgs,
	RunE: runSystems,
}

func init() {
	rootCmd.AddCommand(systemsCmd)
	systemsCmd.Flags().StringVar(&fetchSource, "source", "",
		"fetcher backend: esi or sde (default from config)")
}

func runSystems(cmd *cobra.Command, args []string) error {
	if fetchSource != "" {
		cfg.Source = fetchSource
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	var listing any
	switch cfg.Source {
	case config.SourceSDE:
		reader, err := sde.Open(cfg.SDE.Path)
		if err != nil {
			return fmt.Errorf("opening SDE database: %w", err)
		}
		defer func() { _ = reader.Close() }()
		names, err := reader.SystemNames(cmd.Context())
		if err != nil {
			return err
		}
		listing = names
	default:
		client := esi.NewClient(esi.Config{
			BaseURL:   cfg.ESI.BaseURL,
			UserAgent: cfg.ESI.UserAgent,
			Timeout:   cfg.ESI.Timeout,
		})
		ids, err := client.FetchSystemIDs(cmd.Context())
		if err != nil {
			return err
		}
		listing = ids
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(listing)
}
