package notifications

import (
	"testing"
	"time"
)

// TestHubPublishSubscribe проверяет доставку событий подписчику.
func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	owner := "traveler@example.com"

	ch, unsubscribe := hub.Subscribe(owner)
	defer unsubscribe()

	hub.Publish(owner, Event{Type: EventTripSaved})

	select {
	case event := <-ch:
		if event.Type != EventTripSaved {
			t.Fatalf("expected event type %s, got %s", EventTripSaved, event.Type)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event to be delivered")
	}
}

// TestHubIsolatesOwners проверяет, что события не попадают другим владельцам.
func TestHubIsolatesOwners(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe("a@example.com")
	defer unsubscribe()

	hub.Publish("b@example.com", Event{Type: EventTripDeleted})

	select {
	case event := <-ch:
		t.Fatalf("unexpected event %s", event.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

// TestHubUnsubscribe проверяет закрытие канала после отписки.
func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe("")
	unsubscribe()
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}
	if hub.Subscribers("") != 0 {
		t.Fatalf("expected no subscribers, got %d", hub.Subscribers(""))
	}
}

// TestHubPublishDoesNotBlock проверяет, что переполненный канал не блокирует Publish.
func TestHubPublishDoesNotBlock(t *testing.T) {
	hub := NewHub()

	_, unsubscribe := hub.Subscribe("")
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			hub.Publish("", Event{Type: EventTripSaved})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
