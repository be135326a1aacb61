package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type wrappedInput struct {
	Id int
}

// fakeManager is a scriptable CacheManager for exercising the read-through
// paths without a real backing cache.
type fakeManager[K comparable, V any] struct {
	values   map[K]V
	sets     int
	gets     int
	refreshs int
}

func newFakeManager[K comparable, V any]() *fakeManager[K, V] {
	return &fakeManager[K, V]{values: make(map[K]V)}
}

func (f *fakeManager[K, V]) Get(_ context.Context, key K) (V, bool) {
	f.gets++
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeManager[K, V]) GetMultiple(_ context.Context, keys []K) (map[K]V, bool) {
	out := make(map[K]V)
	for _, key := range keys {
		if v, ok := f.values[key]; ok {
			out[key] = v
		}
	}
	return out, len(out) > 0
}

func (f *fakeManager[K, V]) GetWithRefresh(_ context.Context, key K, _ time.Duration) (V, bool) {
	f.refreshs++
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeManager[K, V]) Set(_ context.Context, key K, value V, _ time.Duration) {
	f.sets++
	f.values[key] = value
}

func (f *fakeManager[K, V]) Delete(_ context.Context, keys ...K) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeManager[K, V]) Flush(_ context.Context) error {
	f.values = make(map[K]V)
	return nil
}

func TestReadThroughCache_Get_WithCacheDisabled(t *testing.T) {
	manager := newFakeManager[string, []*ExampleStruct]()

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return []*ExampleStruct{{ID: input.Id}}, nil
		},
		true,
	)

	examples, err := readThroughCache.Get(
		context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1}}, examples)
	require.Zero(t, manager.gets, "disabled cache must never be consulted")
	require.Zero(t, manager.sets)
}

func TestReadThroughCache_Get_WithValueInCache(t *testing.T) {
	manager := newFakeManager[string, []*ExampleStruct]()
	manager.values["key"] = []*ExampleStruct{{ID: 1, Name: "Example"}}

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			t.Fatal("loader must not run on a cache hit")
			return nil, nil
		},
		false,
	)

	examples, err := readThroughCache.Get(
		context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1, Name: "Example"}}, examples)
}

func TestReadThroughCache_Get_EmptyCache(t *testing.T) {
	manager := newFakeManager[string, []*ExampleStruct]()

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return []*ExampleStruct{{ID: input.Id}}, nil
		},
		false,
	)

	examples, err := readThroughCache.Get(
		context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1}}, examples)
	require.Equal(t, 1, manager.sets, "miss must populate the cache")
	require.Equal(t, []*ExampleStruct{{ID: 1}}, manager.values["key"])
}

func TestReadThroughCache_Get_LoaderError(t *testing.T) {
	manager := newFakeManager[string, []*ExampleStruct]()

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return nil, errors.New("failed to get data")
		},
		false,
	)

	_, err := readThroughCache.Get(
		context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.Error(t, err)
	require.Zero(t, manager.sets, "errors must not be cached")
}

func TestReadThroughCache_GetWithRefresh_WithValueInCache(t *testing.T) {
	manager := newFakeManager[string, []*ExampleStruct]()
	manager.values["key"] = []*ExampleStruct{{ID: 1, Name: "Example"}}

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			t.Fatal("loader must not run on a cache hit")
			return nil, nil
		},
		false,
	)

	examples, err := readThroughCache.GetWithRefresh(
		context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1, Name: "Example"}}, examples)
	require.Equal(t, 1, manager.refreshs)
}

func TestReadThroughCache_GetWithRefresh_EmptyCache(t *testing.T) {
	manager := newFakeManager[string, []*ExampleStruct]()

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return []*ExampleStruct{{ID: input.Id}}, nil
		},
		false,
	)

	examples, err := readThroughCache.GetWithRefresh(
		context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1}}, examples)
	require.Equal(t, 1, manager.sets)
}

func TestReadThroughCache_GetWithRefresh_LoaderError(t *testing.T) {
	manager := newFakeManager[string, []*ExampleStruct]()

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return nil, errors.New("failed to get data")
		},
		false,
	)

	_, err := readThroughCache.GetWithRefresh(
		context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.Error(t, err)
	require.Zero(t, manager.sets)
}
