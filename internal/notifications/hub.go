package notifications

import (
	"sync"
	"time"
)

const (
	EventConnected   = "connected"
	EventTripSaved   = "trip_saved"
	EventTripDeleted = "trip_deleted"
)

const subscriberBuffer = 10

type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub рассылает события подписчикам, сгруппированным по владельцу.
// Пустой ключ владельца используется в режиме без проверки токенов.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe подписывает владельца на события и возвращает канал и функцию отписки.
func (h *Hub) Subscribe(owner string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	ownerSubs, ok := h.subscribers[owner]
	if !ok {
		ownerSubs = make(map[chan Event]struct{})
		h.subscribers[owner] = ownerSubs
	}
	ownerSubs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if subs, exists := h.subscribers[owner]; exists {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subscribers, owner)
				}
			}
			close(ch)
		})
	}
}

// Publish отправляет событие всем подписчикам владельца без блокировки.
func (h *Hub) Publish(owner string, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[owner] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers возвращает число активных подписок владельца.
func (h *Hub) Subscribers(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[owner])
}
