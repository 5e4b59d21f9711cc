// Package events fans export events out to live subscribers.
package events

import (
	"context"
	"sync"

	t "codebundle/internal/types"
)

const subscriberBuffer = 16

// Hub is a non-blocking broadcaster. A slow subscriber loses its oldest
// pending event rather than stalling publishers.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]chan t.ExportEvent
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan t.ExportEvent)}
}

// Subscribe registers a subscriber until ctx is done; the channel is then closed.
func (h *Hub) Subscribe(ctx context.Context) <-chan t.ExportEvent {
	ch := make(chan t.ExportEvent, subscriberBuffer)
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		close(ch)
		h.mu.Unlock()
	}()
	return ch
}

func (h *Hub) Publish(evt t.ExportEvent) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		push(ch, evt)
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func push(ch chan t.ExportEvent, evt t.ExportEvent) {
	select {
	case ch <- evt:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- evt:
	default:
	}
}
