package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receiveOne(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.C:
		require.True(t, ok, "subscription channel closed unexpectedly")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHub_PublishReachesRoomSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	first := hub.Subscribe("1")
	second := hub.Subscribe("1")
	defer first.Cancel()
	defer second.Cancel()

	hub.Publish("1", "new_order", map[string]interface{}{"order_id": int64(42)})

	for _, sub := range []*Subscription{first, second} {
		ev := receiveOne(t, sub)
		require.Equal(t, "new_order", ev.Type)
		require.NotZero(t, ev.Timestamp)
	}
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	tenantOne := hub.Subscribe("1")
	tenantTwo := hub.Subscribe("2")
	defer tenantOne.Cancel()
	defer tenantTwo.Cancel()

	hub.Publish("1", "new_order", nil)

	ev := receiveOne(t, tenantOne)
	require.Equal(t, "new_order", ev.Type)

	select {
	case ev := <-tenantTwo.C:
		t.Fatalf("event leaked across rooms: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	// Must not panic or block.
	hub.Publish("nobody-home", "new_order", nil)
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sub := hub.Subscribe("1")
	defer sub.Cancel()

	// Overflow the buffer without draining. Publish must return every time.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			hub.Publish("1", "new_order", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber buffer")
	}

	// Only the buffered events survive.
	received := 0
	for {
		select {
		case <-sub.C:
			received++
		default:
			require.Equal(t, subscriberBuffer, received)
			return
		}
	}
}

func TestHub_CancelClosesChannelAndIsIdempotent(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sub := hub.Subscribe("1")
	sub.Cancel()
	sub.Cancel()

	_, ok := <-sub.C
	require.False(t, ok)

	// Publishing after cancellation must not panic on the closed channel.
	hub.Publish("1", "new_order", nil)
}

func TestHub_CloseShutsDownSubscribers(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("1")

	hub.Close()

	_, ok := <-sub.C
	require.False(t, ok)

	require.Nil(t, hub.Subscribe("1"))
	hub.Publish("1", "new_order", nil)
	hub.Close()

	// Cancel after Close must not panic or double-close.
	sub.Cancel()
}
