package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishFansOut(t *testing.T) {
	bus := NewBus()

	first, stopFirst := bus.Subscribe()
	second, stopSecond := bus.Subscribe()
	defer stopFirst()
	defer stopSecond()

	bus.Publish(Event{ID: "e1", Type: TypeMessageCreated})

	require.Equal(t, "e1", (<-first).ID)
	require.Equal(t, "e1", (<-second).ID)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()

	ch, stop := bus.Subscribe()
	stop()

	_, open := <-ch
	require.False(t, open)

	// A second call is a no-op.
	stop()

	// Publishing after unsubscribe must not panic on the closed channel.
	bus.Publish(Event{ID: "e2", Type: TypeChatUpdated})
}

func TestPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	bus := NewBus()

	ch, stop := bus.Subscribe()
	defer stop()

	for i := 0; i < 200; i++ {
		bus.Publish(Event{Type: TypeMessageCreated})
	}

	// The buffer holds 100 events; the rest were dropped, not queued.
	require.Len(t, ch, 100)
}
