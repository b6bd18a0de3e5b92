package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	a, cancelA := bus.Subscribe(4)
	b, cancelB := bus.Subscribe(4)
	defer cancelA()
	defer cancelB()

	e := NotificationCreated{NotificationID: 1, UserID: 7, Type: "friend_request", CreatedAt: time.Now()}
	bus.Publish(e)

	assert.Equal(t, e, <-a)
	assert.Equal(t, e, <-b)
}

func TestBus_PublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	bus := NewBus()

	full, cancelFull := bus.Subscribe(1)
	defer cancelFull()
	healthy, cancelHealthy := bus.Subscribe(4)
	defer cancelHealthy()

	bus.Publish(NotificationCreated{NotificationID: 1})
	// the full subscriber drops this one; the healthy one still gets it
	bus.Publish(NotificationCreated{NotificationID: 2})

	assert.Equal(t, int64(1), (<-full).NotificationID)
	assert.Equal(t, int64(1), (<-healthy).NotificationID)
	assert.Equal(t, int64(2), (<-healthy).NotificationID)

	select {
	case e := <-full:
		t.Fatalf("unexpected event %d on full subscriber", e.NotificationID)
	default:
	}
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe(1)
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// publishing after cancel must not panic
	bus.Publish(NotificationCreated{NotificationID: 3})

	// double cancel is safe
	cancel()
}
