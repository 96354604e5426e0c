package feed

import (
	"testing"
	"time"
)

func TestHubFansOutToAllSubscribers(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	a := hub.Subscribe()
	b := hub.Subscribe()
	defer hub.Unsubscribe(a)
	defer hub.Unsubscribe(b)

	hub.Publish(EventDecisionLog, "payload")

	for name, ch := range map[string]chan Event{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.Type != EventDecisionLog {
				t.Errorf("Subscriber %s: expected %s, got %s", name, EventDecisionLog, ev.Type)
			}
			if ev.Data != "payload" {
				t.Errorf("Subscriber %s: unexpected data %v", name, ev.Data)
			}
			if ev.Timestamp.IsZero() {
				t.Errorf("Subscriber %s: zero timestamp", name)
			}
		case <-time.After(time.Second):
			t.Fatalf("Subscriber %s: no event received", name)
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	ch := hub.Subscribe()
	if hub.SubscriberCount() != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", hub.SubscriberCount())
	}

	hub.Unsubscribe(ch)
	if hub.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", hub.SubscriberCount())
	}
	if _, open := <-ch; open {
		t.Error("Expected channel closed after Unsubscribe")
	}

	// Publishing with no subscribers is a no-op.
	hub.Publish(EventTransaction, nil)
}

func TestPublishSkipsFullSubscriber(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	slow := hub.Subscribe()
	defer hub.Unsubscribe(slow)

	// Overrun the subscriber buffer; Publish must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.Publish(EventTransaction, i)
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}
