// Package testutil provides test fetchers and database setup helpers.
package testutil

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/zjrosen/starmap/internal/universe"
)

// FakeFetcher is a programmable in-memory universe.Fetcher. Tests configure
// per-name payloads, failures, and artificial latency, and can inspect call
// counts and the peak number of concurrent fetches afterwards.
type FakeFetcher struct {
	mu          sync.Mutex
	systems     map[string][]byte
	failures    map[string]error
	delay       time.Duration
	jitter      time.Duration // additional random latency up to this much
	calls       map[string]int
	inFlight    int
	maxInFlight int
}

// Compile-time check against the capability contract.
var _ universe.Fetcher = (*FakeFetcher)(nil)

// NewFakeFetcher creates an empty fetcher; every name is NotFound until
// configured.
func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{
		systems:  make(map[string][]byte),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// WithSystem makes name fetchable with the given payload.
func (f *FakeFetcher) WithSystem(name string, data []byte) *FakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.systems[name] = data
	return f
}

// WithFailure makes every fetch of name return err.
func (f *FakeFetcher) WithFailure(name string, err error) *FakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[name] = err
	return f
}

// WithDelay adds fixed latency to every fetch.
func (f *FakeFetcher) WithDelay(d time.Duration) *FakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
	return f
}

// WithJitter adds up to max of random extra latency per fetch, for
// order-independence tests.
func (f *FakeFetcher) WithJitter(max time.Duration) *FakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jitter = max
	return f
}

// Fetch implements universe.Fetcher.
func (f *FakeFetcher) Fetch(ctx context.Context, name string) (universe.System, error) {
	f.mu.Lock()
	f.calls[name]++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	wait := f.delay
	if f.jitter > 0 {
		wait += time.Duration(rand.Int63n(int64(f.jitter))) //nolint:gosec // test jitter, not crypto
	}
	failure := f.failures[name]
	data, ok := f.systems[name]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return universe.System{}, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return universe.System{}, err
	}

	if failure != nil {
		return universe.System{}, failure
	}
	if !ok {
		return universe.System{}, universe.NewNotFound(name)
	}
	return universe.NewSystem(name, data), nil
}

// Calls returns how many times name was fetched.
func (f *FakeFetcher) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// TotalCalls returns the total number of fetches across all names.
func (f *FakeFetcher) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// MaxInFlight returns the peak number of concurrent fetches observed.
func (f *FakeFetcher) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}
