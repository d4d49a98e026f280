package notifier

import (
	"sync"
	"time"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber that
// falls this far behind starts losing events; delivery is at-most-once.
const subscriberBuffer = 16

// Event is a single realtime notification scoped to one room.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Subscription is a live feed of events for one room. Callers must Cancel
// when done or the hub keeps the channel registered forever.
type Subscription struct {
	C      <-chan Event
	cancel func()
}

// Cancel detaches the subscription from its room and closes C.
func (s *Subscription) Cancel() {
	s.cancel()
}

// Hub fans events out to subscribers grouped into rooms. Each restaurant gets
// its own room keyed by its id, so events never cross tenants. Publishing
// never blocks: slow subscribers drop events rather than stalling the
// pipeline that emitted them.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[chan Event]struct{}
	closed bool
}

// NewHub creates an empty hub ready for subscriptions.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a new listener on the given room. Returns nil after
// Close.
func (h *Hub) Subscribe(room string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	ch := make(chan Event, subscriberBuffer)
	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.rooms[room] = subs
	}
	subs[ch] = struct{}{}

	var once sync.Once
	return &Subscription{
		C: ch,
		cancel: func() {
			once.Do(func() {
				h.unsubscribe(room, ch)
			})
		},
	}
}

func (h *Hub) unsubscribe(room string, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.rooms[room]; ok {
		if _, present := subs[ch]; present {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Publish delivers an event to every current subscriber of the room. Rooms
// with no subscribers discard the event. Subscribers whose buffer is full
// miss this event.
func (h *Hub) Publish(room, eventType string, payload interface{}) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for ch := range h.rooms[room] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close shuts the hub down. All subscriber channels are closed and further
// Subscribe/Publish calls become no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for room, subs := range h.rooms {
		for ch := range subs {
			close(ch)
		}
		delete(h.rooms, room)
	}
}
