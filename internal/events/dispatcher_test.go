package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitFor(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler")
		return Event{}
	}
}

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())
	received := make(chan Event, 2)

	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		received <- event
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		received <- event
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{ID: "evt-1", Type: EventTicketCreated}))

	first := waitFor(t, received)
	second := waitFor(t, received)
	assert.Equal(t, "evt-1", first.ID)
	assert.Equal(t, "evt-1", second.ID)
}

func TestDispatcherIgnoresOtherEventTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())
	received := make(chan Event, 1)

	dispatcher.Subscribe(EventTicketUpdated, func(_ context.Context, event Event) error {
		received <- event
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{ID: "evt-1", Type: EventTicketCreated}))

	select {
	case <-received:
		t.Fatal("handler for another event type must not fire")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatcherSurvivesFailingAndPanickingHandlers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())
	received := make(chan Event, 1)

	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, _ Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, _ Event) error {
		panic("handler panicked")
	})
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		received <- event
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{ID: "evt-1", Type: EventTicketCreated}))
	assert.Equal(t, "evt-1", waitFor(t, received).ID)
}
