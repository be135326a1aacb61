package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/starmap/internal/config"
)

var sourceCmd = &cobra.Command{
	Use:   "source [esi|sde]",
	Short: "Show or persist the fetcher backend",
	Long: `Show the configured fetcher backend, or persist a new one to the
config file. Comments and other sections of the file are preserved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSource,
}

func init() {
	rootCmd.AddCommand(sourceCmd)
}

func runSource(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Source)
		return nil
	}

	source := args[0]
	if source != config.SourceESI && source != config.SourceSDE {
		return fmt.Errorf("source must be %q or %q, got %q",
			config.SourceESI, config.SourceSDE, source)
	}

	path := configFilePath()
	if err := config.SaveSource(path, source); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "source set to %s in %s\n", source, path)
	return nil
}
