package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/starmap/internal/log"
	"github.com/zjrosen/starmap/internal/pubsub"
	"github.com/zjrosen/starmap/internal/tracing"
	"github.com/zjrosen/starmap/internal/universe"
)

// DefaultMaxWorkers is the default number of concurrent in-flight fetches.
const DefaultMaxWorkers = 4

// ErrBatchAborted is the cause recorded for names whose fetch never started
// because the batch was cancelled or aborted by the fail-fast policy.
var ErrBatchAborted = errors.New("batch aborted before fetch started")

// Config holds configuration for a fetch batch.
type Config struct {
	// MaxWorkers bounds the number of concurrent in-flight fetches,
	// decoupled from batch size (default: 4).
	MaxWorkers int

	// FetchTimeout bounds each individual fetch. Zero means no per-fetch
	// deadline beyond whatever the caller's context carries.
	FetchTimeout time.Duration

	// FailFast skips names not yet dispatched once any fetch fails.
	// In-flight fetches still run to completion. Default is false:
	// collect all, abort none.
	FailFast bool
}

// Batch dispatches fetch operations across a fixed pool of workers and
// collects the complete set of outcomes. It implements universe.Scheduler.
type Batch struct {
	maxWorkers   int
	fetchTimeout time.Duration
	failFast     bool
	broker       *pubsub.Broker[FetchEvent]
	tracer       trace.Tracer
}

// Compile-time check that Batch satisfies the domain's scheduler contract.
var _ universe.Scheduler = (*Batch)(nil)

// New creates a Batch with the given configuration.
func New(cfg Config) *Batch {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = DefaultMaxWorkers
	}
	return &Batch{
		maxWorkers:   cfg.MaxWorkers,
		fetchTimeout: cfg.FetchTimeout,
		failFast:     cfg.FailFast,
		broker:       pubsub.NewBroker[FetchEvent](),
		tracer:       otel.Tracer("starmap/scheduler"),
	}
}

// Broker returns the pub/sub broker for fetch lifecycle events.
// Subscribers can use this to render progress while a batch runs.
func (b *Batch) Broker() *pubsub.Broker[FetchEvent] {
	return b.broker
}

// Close shuts down the event broker. A closed Batch can still Run; events
// are simply dropped.
func (b *Batch) Close() {
	b.broker.Close()
}

// MaxWorkers returns the configured concurrency limit.
func (b *Batch) MaxWorkers() int {
	return b.maxWorkers
}

// Run fetches every name with bounded parallelism and returns one outcome
// per name once all dispatched fetches have completed. Completion order is
// unspecified and unrelated to submission order. Duplicates in names are
// dispatched as given; uniqueness is the builder's concern, not the
// scheduler's.
//
// Cancelling ctx skips names whose fetch has not started (reported as
// transport failures caused by ctx.Err()); in-flight fetches run to
// completion of their own context.
func (b *Batch) Run(ctx context.Context, names []string, fetcher universe.Fetcher) ([]universe.Outcome, error) {
	if fetcher == nil {
		return nil, universe.ErrNilFetcher
	}
	if len(names) == 0 {
		return nil, nil
	}

	batchID := uuid.NewString()
	workers := b.maxWorkers
	if workers > len(names) {
		workers = len(names)
	}

	ctx, span := b.tracer.Start(ctx, "batch.run", trace.WithAttributes(
		attribute.String(tracing.AttrBatchID, batchID),
		attribute.Int(tracing.AttrBatchSize, len(names)),
		attribute.Int(tracing.AttrBatchWorkers, workers),
	))
	defer span.End()

	log.Debug(log.CatSched, "Dispatching batch",
		"batchID", batchID, "names", len(names), "workers", workers)

	// Buffered to batch size so workers never block on either channel and
	// every name is guaranteed exactly one outcome.
	jobs := make(chan string, len(names))
	for _, name := range names {
		jobs <- name
	}
	close(jobs)
	results := make(chan universe.Outcome, len(names))

	var aborted atomic.Bool
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				results <- b.fetchOne(ctx, batchID, name, fetcher, &aborted)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single collection loop: the only goroutine that assembles the result
	// set, so no further synchronization is needed around it.
	failed := 0
	outcomes := make([]universe.Outcome, 0, len(names))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
		if !outcome.OK() {
			failed++
			if b.failFast {
				aborted.Store(true)
			}
		}
	}

	span.SetAttributes(attribute.Int(tracing.AttrBatchFailed, failed))
	if failed > 0 {
		span.SetStatus(codes.Error, "batch completed with failures")
	}
	log.Info(log.CatSched, "Batch complete",
		"batchID", batchID, "names", len(names), "failed", failed)

	return outcomes, nil
}

// fetchOne runs a single fetch, classifying any failure into a FetchError.
func (b *Batch) fetchOne(ctx context.Context, batchID, name string, fetcher universe.Fetcher, aborted *atomic.Bool) universe.Outcome {
	if aborted.Load() {
		b.publish(batchID, name, PhaseSkipped, ErrBatchAborted.Error())
		return universe.Failed(universe.NewTransport(name, ErrBatchAborted))
	}
	if err := ctx.Err(); err != nil {
		b.publish(batchID, name, PhaseSkipped, err.Error())
		return universe.Failed(universe.NewTransport(name, err))
	}

	b.publish(batchID, name, PhaseDispatched, "")

	fetchCtx := ctx
	if b.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, b.fetchTimeout)
		defer cancel()
	}

	fetchCtx, span := b.tracer.Start(fetchCtx, "batch.fetch", trace.WithAttributes(
		attribute.String(tracing.AttrBatchID, batchID),
		attribute.String(tracing.AttrSystemName, name),
	))
	defer span.End()

	sys, err := fetcher.Fetch(fetchCtx, name)
	if err != nil {
		ferr := classify(name, err)
		span.RecordError(ferr)
		span.SetAttributes(attribute.String(tracing.AttrErrorKind, ferr.Kind.String()))
		span.SetStatus(codes.Error, ferr.Kind.String())
		log.Warn(log.CatSched, "Fetch failed",
			"batchID", batchID, "name", name, "kind", ferr.Kind, "error", ferr)
		b.publish(batchID, name, PhaseFailed, ferr.Error())
		return universe.Failed(ferr)
	}

	if sys.Name() != name {
		// Fetcher contract violation; surfacing it as a transport failure
		// keeps the outcome set aligned with the requested names.
		ferr := universe.NewTransport(name, errors.New("fetcher returned system "+sys.Name()))
		span.RecordError(ferr)
		span.SetStatus(codes.Error, "name mismatch")
		b.publish(batchID, name, PhaseFailed, ferr.Error())
		return universe.Failed(ferr)
	}

	b.publish(batchID, name, PhaseSucceeded, "")
	return universe.Succeeded(sys)
}

func (b *Batch) publish(batchID, name string, phase FetchPhase, errMsg string) {
	b.broker.Publish(pubsub.UpdatedEvent, FetchEvent{
		BatchID: batchID,
		Name:    name,
		Phase:   phase,
		Error:   errMsg,
	})
}

// classify maps an arbitrary fetch error onto the domain's error kinds.
// Fetchers that already return *universe.FetchError pass through untouched.
func classify(name string, err error) *universe.FetchError {
	var ferr *universe.FetchError
	if errors.As(err, &ferr) {
		return ferr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return universe.NewTimeout(name)
	}
	return universe.NewTransport(name, err)
}
