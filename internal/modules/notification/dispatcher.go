package notification

import (
	"context"
	"log"
	"sync"
	"time"

	"flavorfeed/internal/events"
)

const (
	DefaultBatchSize   = 100
	DefaultBatchPacing = 1 * time.Second
)

// EventPublisher receives a domain event after a notification is persisted.
type EventPublisher interface {
	Publish(e events.NotificationCreated)
}

// Dispatcher builds, persists and routes notifications. The persisted row is
// the durability guarantee; channel delivery is best-effort and transport
// failures are logged, never returned to callers.
type Dispatcher struct {
	repo      Repository
	registry  *Registry
	transport Transport
	bus       EventPublisher

	pacing time.Duration
	now    func() time.Time
	sleep  func(time.Duration)
}

func NewDispatcher(repo Repository, registry *Registry, transport Transport, bus EventPublisher) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		registry:  registry,
		transport: transport,
		bus:       bus,
		pacing:    DefaultBatchPacing,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// Send renders and persists one notification and fans it out to the user's
// effective channels. A user whose preferences disallow the type is a no-op,
// not an error. Returns ErrUnknownTemplateType for unregistered types.
func (d *Dispatcher) Send(ctx context.Context, userID int64, notifType string, vars map[string]string, customData map[string]any) error {
	return d.deliver(ctx, userID, notifType, vars, customData, nil)
}

// Schedule persists a notification with scheduled_for set and sent_at unset.
// The dispatch worker picks it up at that time; no transport is invoked now.
func (d *Dispatcher) Schedule(ctx context.Context, userID int64, notifType string, scheduledFor time.Time, vars map[string]string) error {
	if !scheduledFor.After(d.now()) {
		return ErrInvalidScheduleTime
	}
	return d.deliver(ctx, userID, notifType, vars, nil, &scheduledFor)
}

func (d *Dispatcher) deliver(ctx context.Context, userID int64, notifType string, vars map[string]string, customData map[string]any, scheduledFor *time.Time) error {
	tmpl, err := d.registry.Resolve(notifType)
	if err != nil {
		return err
	}

	prefs, err := d.repo.GetPreferences(ctx, userID)
	if err != nil {
		// Missing or unreadable settings must never suppress delivery.
		log.Printf("notification preferences user=%d err=%v, using defaults", userID, err)
		prefs = DefaultPreferences(userID)
	}
	if !prefs.AllowsType(notifType) {
		return nil
	}

	title, body := tmpl.Render(vars)
	now := d.now()

	channels := make(ChannelList, 0, len(tmpl.DefaultChannels))
	for _, ch := range tmpl.DefaultChannels {
		if prefs.AllowsChannel(ch, tmpl.Priority, now) {
			channels = append(channels, ch)
		}
	}

	n := &Notification{
		UserID:       userID,
		Type:         notifType,
		Title:        title,
		Message:      body,
		Channels:     channels,
		Priority:     tmpl.Priority,
		Read:         false,
		ScheduledFor: scheduledFor,
	}
	if scheduledFor == nil {
		n.SentAt = &now
	}

	data := make(map[string]any, len(vars)+len(customData))
	for k, v := range vars {
		data[k] = v
	}
	for k, v := range customData {
		data[k] = v
	}
	if err := n.SetData(data); err != nil {
		return err
	}

	if err := d.repo.CreateNotification(ctx, n); err != nil {
		return err
	}

	if d.bus != nil {
		d.bus.Publish(events.NotificationCreated{
			NotificationID: n.ID,
			UserID:         n.UserID,
			Type:           n.Type,
			Title:          n.Title,
			Message:        n.Message,
			CreatedAt:      now,
		})
	}

	if scheduledFor != nil {
		return nil
	}

	d.fanOut(ctx, n)
	return nil
}

// fanOut invokes the transport once per effective channel. Failures never
// roll back the persisted row.
func (d *Dispatcher) fanOut(ctx context.Context, n *Notification) {
	for _, ch := range n.Channels {
		if err := d.transport.Deliver(ctx, n.UserID, ch, n.Title, n.Message, n.Type); err != nil {
			log.Printf("notification transport channel=%s user=%d type=%s err=%v", ch, n.UserID, n.Type, err)
		}
	}
}

// DispatchDue sends the transport fan-out for scheduled notifications whose
// time has come and stamps sent_at. Called by the dispatch worker.
func (d *Dispatcher) DispatchDue(ctx context.Context, limit int) (int, error) {
	now := d.now()
	due, err := d.repo.DueScheduled(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	for i := range due {
		n := &due[i]
		d.fanOut(ctx, n)
		if err := d.repo.MarkSent(ctx, n.ID, now); err != nil {
			log.Printf("mark sent id=%d err=%v", n.ID, err)
		}
	}
	return len(due), nil
}

// SendBulk fans a notification out to many users. Users are partitioned into
// chunks of batchSize; sends within a chunk run concurrently and settle
// before the next chunk begins; a pacing delay between chunks bounds burst
// load on the transport. Individual failures are logged and never abort the
// batch.
func (d *Dispatcher) SendBulk(ctx context.Context, userIDs []int64, notifType string, vars map[string]string, batchSize int) error {
	if _, err := d.registry.Resolve(notifType); err != nil {
		return err
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for start := 0; start < len(userIDs); start += batchSize {
		end := start + batchSize
		if end > len(userIDs) {
			end = len(userIDs)
		}

		var wg sync.WaitGroup
		for _, userID := range userIDs[start:end] {
			wg.Add(1)
			go func(uid int64) {
				defer wg.Done()
				if err := d.Send(ctx, uid, notifType, vars, nil); err != nil {
					log.Printf("bulk send user=%d type=%s err=%v", uid, notifType, err)
				}
			}(userID)
		}
		wg.Wait()

		if end < len(userIDs) {
			d.sleep(d.pacing)
		}
	}
	return nil
}
