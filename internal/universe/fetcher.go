package universe

import "context"

// Fetcher retrieves one System's data by name. It is the sole external
// boundary the domain depends on; implementations are supplied by the
// embedding application (HTTP client, sqlite reader, mock for tests).
//
// The scheduler invokes Fetch from several workers at once, so
// implementations must be safe for concurrent use.
type Fetcher interface {
	// Fetch returns the System for name, or an error. Implementations
	// should return a *FetchError so failures classify cleanly; any other
	// error is treated as a transport failure.
	Fetch(ctx context.Context, name string) (System, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, name string) (System, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, name string) (System, error) {
	return f(ctx, name)
}

// Scheduler dispatches a batch of fetches with bounded parallelism and
// returns one Outcome per requested name once all fetches have completed.
// Completion order is unspecified.
type Scheduler interface {
	Run(ctx context.Context, names []string, fetcher Fetcher) ([]Outcome, error)
}
