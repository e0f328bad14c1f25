package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emaillist/event"
)

func TestHub_PublishAndReceive(t *testing.T) {
	t.Parallel()

	hub := event.NewHub(4)
	defer hub.Close()

	sub := hub.Subscribe(context.Background())
	defer sub.Close()

	hub.Publish(event.Event{
		Type:     event.SubscriptionConfirmed,
		Email:    "a@example.com",
		ListName: "news",
	})

	select {
	case got := <-sub.Events():
		assert.Equal(t, event.SubscriptionConfirmed, got.Type)
		assert.Equal(t, "a@example.com", got.Email)
		assert.Equal(t, "news", got.ListName)
		assert.False(t, got.OccurredAt.IsZero(), "OccurredAt is stamped on publish")
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestHub_MultipleSubscribers(t *testing.T) {
	t.Parallel()

	hub := event.NewHub(4)
	defer hub.Close()

	first := hub.Subscribe(context.Background())
	second := hub.Subscribe(context.Background())

	hub.Publish(event.Event{Type: event.UnsubscriptionConfirmed, Email: "a@example.com"})

	for _, sub := range []*event.Subscriber{first, second} {
		select {
		case got := <-sub.Events():
			assert.Equal(t, event.UnsubscriptionConfirmed, got.Type)
		case <-time.After(time.Second):
			t.Fatal("every subscriber receives the event")
		}
	}
}

func TestHub_ContextCancelDetaches(t *testing.T) {
	t.Parallel()

	hub := event.NewHub(1)
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := hub.Subscribe(ctx)
	cancel()

	// The subscriber channel is eventually closed by the cleanup goroutine.
	select {
	case _, open := <-sub.Events():
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected channel to close after context cancellation")
	}
}

func TestHub_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	hub := event.NewHub(1)
	sub := hub.Subscribe(context.Background())

	hub.Close()
	hub.Close()

	_, open := <-sub.Events()
	require.False(t, open)

	// Publishing and subscribing after Close are harmless.
	hub.Publish(event.Event{Type: event.SubscriptionConfirmed})
	late := hub.Subscribe(context.Background())
	_, open = <-late.Events()
	assert.False(t, open)
}
