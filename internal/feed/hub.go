// Package feed streams ledger activity to WebSocket subscribers.
package feed

import (
	"sync"
	"time"
)

// Event types pushed on the activity feed.
const (
	EventDecisionLog = "decision_log"
	EventTransaction = "transaction"
)

// Event is one activity feed entry.
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans out ledger events to all active subscriber channels.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel receiving future events.
// The caller must call Unsubscribe when done.
func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 64) // Buffer to avoid blocking publishers.
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel and closes it.
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	delete(h.subscribers, ch)
	h.mu.Unlock()
	close(ch)
}

// Publish sends an event to all subscribers. Subscribers with a full
// buffer are skipped so one slow client cannot block the request path.
func (h *Hub) Publish(eventType string, data any) {
	event := Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount reports the number of attached subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
