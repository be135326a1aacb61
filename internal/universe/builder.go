package universe

import (
	"context"
	"errors"
	"sync"
)

// Builder accumulates Systems while enforcing name uniqueness, independent
// of how they were obtained (manual AddSystem or a scheduled bulk fetch).
//
// A Builder is single-use: Build consumes it, and every later operation
// returns ErrBuilderConsumed. Insertions are serialized internally, so
// outcomes arriving from concurrent workers are safe to fold in.
type Builder struct {
	mu       sync.Mutex
	pending  map[string]System
	consumed bool
}

// NewBuilder creates an empty universe builder.
func NewBuilder() *Builder {
	return &Builder{
		pending: make(map[string]System),
	}
}

// AddSystem inserts sys keyed by its name. The insert is atomic: on any
// failure the builder is left unchanged.
func (b *Builder) AddSystem(sys System) error {
	if sys.Name() == "" {
		return ErrEmptySystemName
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed {
		return ErrBuilderConsumed
	}
	if _, exists := b.pending[sys.Name()]; exists {
		return &DuplicateSystemError{Name: sys.Name()}
	}

	b.pending[sys.Name()] = sys
	return nil
}

// Len returns the number of Systems accumulated so far.
// Returns 0 after the builder has been consumed.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// BatchReport is the complete accounting of one FetchAndAddAll call: which
// names were added, which fetches failed and why, and which successfully
// fetched names collided with an existing entry.
type BatchReport struct {
	Added      []string
	Failures   []*FetchError
	Duplicates []*DuplicateSystemError
}

// OK reports whether every requested name was fetched and added.
func (r *BatchReport) OK() bool {
	return len(r.Failures) == 0 && len(r.Duplicates) == 0
}

// FetchAndAddAll dispatches one fetch per name through the scheduler and
// folds successful outcomes into the builder under AddSystem semantics.
// A fetch failure or a duplicate among the successes is recorded in the
// report without aborting the rest of the batch; the returned error is
// non-nil only when the batch itself could not run (consumed builder, nil
// collaborators, scheduler misconfiguration).
func (b *Builder) FetchAndAddAll(ctx context.Context, names []string, fetcher Fetcher, scheduler Scheduler) (*BatchReport, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	if scheduler == nil {
		return nil, ErrNilScheduler
	}

	b.mu.Lock()
	if b.consumed {
		b.mu.Unlock()
		return nil, ErrBuilderConsumed
	}
	b.mu.Unlock()

	outcomes, err := scheduler.Run(ctx, names, fetcher)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{}
	for _, outcome := range outcomes {
		if !outcome.OK() {
			report.Failures = append(report.Failures, outcome.Err())
			continue
		}
		addErr := b.AddSystem(outcome.System())
		switch {
		case addErr == nil:
			report.Added = append(report.Added, outcome.Name())
		default:
			var dup *DuplicateSystemError
			if errors.As(addErr, &dup) {
				report.Duplicates = append(report.Duplicates, dup)
				continue
			}
			// Consumed mid-batch or an empty name from a misbehaving
			// fetcher; both invalidate the whole report.
			return nil, addErr
		}
	}
	return report, nil
}

// Build consumes the builder and returns the immutable Universe containing
// exactly the accumulated Systems. All later builder operations fail with
// ErrBuilderConsumed.
func (b *Builder) Build() (*Universe, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	b.consumed = true

	systems := b.pending
	b.pending = nil
	return &Universe{systems: systems}, nil
}
