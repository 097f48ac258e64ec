package services

import (
	"faceboobs/server/internal/events"
	"sync"
)

// Hub fans realtime events out to per-wallet subscriber channels. Publishing
// never blocks: a subscriber that cannot keep up has the event dropped.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan events.Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[chan events.Event]struct{})}
}

// Subscribe registers a stream for the wallet and returns the channel plus an
// unsubscribe function. The caller owns draining the channel.
func (h *Hub) Subscribe(wallet string) (chan events.Event, func()) {
	ch := make(chan events.Event, 16)

	h.mu.Lock()
	if h.subscribers[wallet] == nil {
		h.subscribers[wallet] = make(map[chan events.Event]struct{})
	}
	h.subscribers[wallet][ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		if set, ok := h.subscribers[wallet]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subscribers, wallet)
			}
		}
		h.mu.Unlock()
		close(ch)
	}
}

// Publish delivers the event to every stream subscribed to its recipient.
func (h *Hub) Publish(event events.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers[event.Recipient] {
		select {
		case ch <- event:
		default:
			// Slow consumer: drop rather than stall the publisher.
		}
	}
}
