package cachemanager

import (
	"context"
	"time"

	"github.com/zjrosen/starmap/internal/universe"
)

// DefaultFetchTTL is how long a fetched System stays cached.
const DefaultFetchTTL = 10 * time.Minute

// CachingFetcher wraps a universe.Fetcher with TTL'd read-through caching.
// Only successful fetches are cached; failures always go back to the source.
// The underlying cache is safe for concurrent use, so the wrapper satisfies
// the Fetcher contract for concurrent scheduler workers.
type CachingFetcher struct {
	cache *ReadThroughCache[string, universe.System, string]
	ttl   time.Duration
}

// Compile-time check that CachingFetcher can stand in for any fetcher.
var _ universe.Fetcher = (*CachingFetcher)(nil)

// NewCachingFetcher wraps inner with an in-memory cache. A non-positive ttl
// falls back to DefaultFetchTTL.
func NewCachingFetcher(inner universe.Fetcher, ttl time.Duration) *CachingFetcher {
	if ttl <= 0 {
		ttl = DefaultFetchTTL
	}
	manager := NewInMemoryCacheManager[string, universe.System]("fetch", ttl, DefaultCleanupInterval)
	cache := NewReadThroughCache[string, universe.System, string](
		manager,
		func(ctx context.Context, name string) (universe.System, error) {
			return inner.Fetch(ctx, name)
		},
		false,
	)
	return &CachingFetcher{cache: cache, ttl: ttl}
}

// Fetch returns the cached System for name, fetching and caching it on miss.
func (c *CachingFetcher) Fetch(ctx context.Context, name string) (universe.System, error) {
	return c.cache.Get(ctx, name, name, c.ttl)
}
