package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/starmap/internal/cachemanager"
	"github.com/zjrosen/starmap/internal/config"
	"github.com/zjrosen/starmap/internal/esi"
	"github.com/zjrosen/starmap/internal/pubsub"
	"github.com/zjrosen/starmap/internal/scheduler"
	"github.com/zjrosen/starmap/internal/sde"
	"github.com/zjrosen/starmap/internal/tracing"
	"github.com/zjrosen/starmap/internal/universe"
)

var (
	fetchWorkers  int
	fetchTimeout  time.Duration
	fetchFailFast bool
	fetchSource   string
	fetchNoCache  bool
	fetchQuiet    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch NAME...",
	Short: "Fetch systems concurrently and assemble a universe",
	Long: `Fetch one or more systems by name with bounded parallelism and
assemble the successes into a universe. Every requested name is accounted
for: the command prints which systems were assembled, which fetches failed
and why, and which names were duplicates.

Examples:
  # Fetch two systems from ESI
  starmap fetch Jita Amarr

  # Use a local Static Data Export database
  starmap fetch --source sde Jita Amarr

  # Widen the worker pool and abort remaining names on first failure
  starmap fetch -w 16 --fail-fast Jita Amarr Rens Hek`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().IntVarP(&fetchWorkers, "workers", "w", 0,
		"concurrent in-flight fetches (default from config)")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 0,
		"per-fetch deadline (default from config)")
	fetchCmd.Flags().BoolVar(&fetchFailFast, "fail-fast", false,
		"skip names not yet dispatched after the first failure")
	fetchCmd.Flags().StringVar(&fetchSource, "source", "",
		"fetcher backend: esi or sde (default from config)")
	fetchCmd.Flags().BoolVar(&fetchNoCache, "no-cache", false,
		"bypass the read-through fetch cache")
	fetchCmd.Flags().BoolVarP(&fetchQuiet, "quiet", "q", false,
		"suppress per-fetch progress output")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fetchWorkers > 0 {
		cfg.Scheduler.MaxWorkers = fetchWorkers
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Scheduler.FetchTimeout = fetchTimeout
	}
	if cmd.Flags().Changed("fail-fast") {
		cfg.Scheduler.FailFast = fetchFailFast
	}
	if fetchSource != "" {
		cfg.Source = fetchSource
	}
	if fetchNoCache {
		cfg.Cache.Enabled = false
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	fetcher, cleanup, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	batch := scheduler.New(scheduler.Config{
		MaxWorkers:   cfg.Scheduler.MaxWorkers,
		FetchTimeout: cfg.Scheduler.FetchTimeout,
		FailFast:     cfg.Scheduler.FailFast,
	})
	defer batch.Close()

	if !fetchQuiet {
		go printProgress(ctx, cmd, batch.Broker())
	}

	builder := universe.NewBuilder()
	report, err := builder.FetchAndAddAll(ctx, args, fetcher, batch)
	if err != nil {
		return err
	}
	u, err := builder.Build()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "assembled %d of %d systems\n", u.Len(), len(args))
	for _, name := range u.Names() {
		fmt.Fprintf(out, "  %s\n", name)
	}
	for _, failure := range report.Failures {
		fmt.Fprintf(out, "failed: %v\n", failure)
	}
	for _, dup := range report.Duplicates {
		fmt.Fprintf(out, "duplicate: %v\n", dup)
	}

	if !report.OK() {
		return fmt.Errorf("%d of %d names could not be assembled",
			len(report.Failures)+len(report.Duplicates), len(args))
	}
	return nil
}

// buildFetcher assembles the configured fetcher chain. The returned cleanup
// closes whatever the chain holds open.
func buildFetcher(cfg config.Config) (universe.Fetcher, func(), error) {
	var fetcher universe.Fetcher
	cleanup := func() {}

	switch cfg.Source {
	case config.SourceSDE:
		reader, err := sde.Open(cfg.SDE.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening SDE database: %w", err)
		}
		fetcher = reader
		cleanup = func() { _ = reader.Close() }
	default:
		fetcher = esi.NewClient(esi.Config{
			BaseURL:   cfg.ESI.BaseURL,
			UserAgent: cfg.ESI.UserAgent,
			Timeout:   cfg.ESI.Timeout,
		})
	}

	if cfg.Cache.Enabled {
		fetcher = cachemanager.NewCachingFetcher(fetcher, cfg.Cache.TTL)
	}
	return fetcher, cleanup, nil
}

// printProgress drains fetch events until the context ends.
func printProgress(ctx context.Context, cmd *cobra.Command, broker *pubsub.Broker[scheduler.FetchEvent]) {
	listener := pubsub.NewContinuousListener(ctx, broker)
	for {
		event, ok := listener.Next()
		if !ok {
			return
		}
		fe := event.Payload
		switch fe.Phase {
		case scheduler.PhaseSucceeded:
			fmt.Fprintf(cmd.ErrOrStderr(), "fetched %s\n", fe.Name)
		case scheduler.PhaseFailed, scheduler.PhaseSkipped:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s\n", fe.Phase, fe.Name, fe.Error)
		}
	}
}
