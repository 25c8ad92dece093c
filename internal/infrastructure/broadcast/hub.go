// Package broadcast fans admin announcements out to connected stream clients.
package broadcast

import (
	"context"
	"sync"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
)

// Hub is the in-process subscriber registry. Delivery never blocks: a subscriber
// whose buffer is full misses the message.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan entity.BroadcastMessage
	next   uint64
	buffer int
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{subs: map[uint64]chan entity.BroadcastMessage{}, buffer: buffer}
}

// Subscribe registers a new subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan entity.BroadcastMessage, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan entity.BroadcastMessage, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

// Deliver hands m to every local subscriber and reports how many received it.
func (h *Hub) Deliver(m entity.BroadcastMessage) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, ch := range h.subs {
		select {
		case ch <- m:
			n++
		default:
		}
	}
	return n
}

// Publish delivers locally; used when no cross-instance relay is configured.
func (h *Hub) Publish(_ context.Context, m entity.BroadcastMessage) error {
	h.Deliver(m)
	return nil
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close disconnects every subscriber. Later subscriptions receive a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
