package events

import (
	"sync"
	"time"
)

// NotificationCreated is emitted after a notification row has been persisted.
// Adapters (the websocket hub, in tests a plain channel) subscribe to it; the
// dispatcher never knows which transports are listening.
type NotificationCreated struct {
	NotificationID int64     `json:"notification_id"`
	UserID         int64     `json:"user_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

// Bus is a small in-process fan-out for domain events.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan NotificationCreated
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan NotificationCreated)}
}

// Subscribe returns a receive channel and a cancel function. The channel is
// closed on cancel.
func (b *Bus) Subscribe(buffer int) (<-chan NotificationCreated, func()) {
	if buffer <= 0 {
		buffer = 16
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan NotificationCreated, buffer)
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if existing, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(existing)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking. A
// subscriber with a full buffer misses the event; live updates are best-effort
// and the store stays the source of truth.
func (b *Bus) Publish(e NotificationCreated) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
