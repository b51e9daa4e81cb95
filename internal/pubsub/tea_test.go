package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListenCmd_ReceivesEvent(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)
	broker.Publish(RefreshEvent, "work")

	msg := ListenCmd(ctx, ch)()

	event, ok := msg.(Event[string])
	require.True(t, ok, "msg should be Event[string]")
	require.Equal(t, "work", event.Payload)
	require.Equal(t, RefreshEvent, event.Type)
}

func TestListenCmd_ContextCancelled(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cancel()

	require.Nil(t, ListenCmd(ctx, ch)())
}

func TestListenCmd_ChannelClosed(t *testing.T) {
	broker := NewBroker[string]()
	ch := broker.Subscribe(context.Background())
	broker.Close()

	require.Nil(t, ListenCmd(context.Background(), ch)())
}

func TestContinuousListener_ListenAndObserve(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewContinuousListener(ctx, broker)
	broker.Publish(UpdatedEvent, 1)
	broker.Publish(UpdatedEvent, 2)

	first, ok := listener.Listen()().(Event[int])
	require.True(t, ok)
	require.True(t, listener.Observe(first))

	second, ok := listener.Listen()().(Event[int])
	require.True(t, ok)
	require.True(t, listener.Observe(second))

	require.False(t, listener.Observe(first), "older events are reported as stale")
}
