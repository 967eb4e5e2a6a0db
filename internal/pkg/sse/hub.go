package sse

import (
	"sync"
)

const subscriberBuffer = 10

// Hub fans events out to the open streams of each user. A user may hold
// several streams at once, one per browser tab.
type Hub struct {
	mu      sync.RWMutex
	streams map[string]map[chan Event]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{streams: make(map[string]map[chan Event]struct{})}
}

// Subscribe opens a stream for userID. The returned cleanup is idempotent and
// safe to call after Close.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return ch, func() {}
	}

	if h.streams[userID] == nil {
		h.streams[userID] = make(map[chan Event]struct{})
	}
	h.streams[userID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.unsubscribe(userID, ch) })
	}
}

func (h *Hub) unsubscribe(userID string, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	streams := h.streams[userID]
	if _, ok := streams[ch]; !ok {
		return
	}
	delete(streams, ch)
	close(ch)
	if len(streams) == 0 {
		delete(h.streams, userID)
	}
}

// Publish delivers ev to every stream of userID. A stream whose buffer is
// full misses the event; Publish never blocks.
func (h *Hub) Publish(userID string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.streams[userID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount returns the number of open streams for userID.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[userID])
}

// Close ends every open stream. Later subscriptions receive a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, streams := range h.streams {
		for ch := range streams {
			close(ch)
		}
		delete(h.streams, userID)
	}
	h.closed = true
}
