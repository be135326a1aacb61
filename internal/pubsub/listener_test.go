package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestContinuousListener_Next(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewContinuousListener(ctx, broker)

	broker.Publish(UpdatedEvent, "hello")

	done := make(chan struct{})
	go func() {
		defer close(done)
		event, ok := listener.Next()
		require.True(t, ok)
		require.Equal(t, "hello", event.Payload)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Next")
	}
}

func TestContinuousListener_NextAfterCancel(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	listener := NewContinuousListener(ctx, broker)
	cancel()

	_, ok := listener.Next()
	require.False(t, ok)
}

func TestContinuousListener_NextAfterBrokerClose(t *testing.T) {
	broker := NewBroker[string]()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewContinuousListener(ctx, broker)
	broker.Close()

	_, ok := listener.Next()
	require.False(t, ok)
}
