package pubsub

import "context"

// ContinuousListener wraps a broker subscription with a blocking receive.
// It is used by consumers that drain events in their own goroutine (the CLI
// progress printer, log subscribers) rather than selecting on the raw channel.
type ContinuousListener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewContinuousListener creates a new listener that subscribes to the broker.
// The subscription is automatically cleaned up when the context is cancelled.
func NewContinuousListener[T any](ctx context.Context, broker *Broker[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx: ctx,
		ch:  broker.Subscribe(ctx),
	}
}

// Next blocks until the next event arrives. The second return is false when
// the listener's context is cancelled or the broker is closed.
func (l *ContinuousListener[T]) Next() (Event[T], bool) {
	select {
	case <-l.ctx.Done():
		var zero Event[T]
		return zero, false
	case event, ok := <-l.ch:
		if !ok {
			var zero Event[T]
			return zero, false
		}
		return event, true
	}
}

// Chan exposes the underlying subscription channel for callers that need to
// select across several sources.
func (l *ContinuousListener[T]) Chan() <-chan Event[T] {
	return l.ch
}
