package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"flavorfeed/internal/events"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateNotification(ctx context.Context, n *Notification) error {
	args := m.Called(ctx, n)
	if n != nil {
		n.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]Notification, error) {
	args := m.Called(ctx, userID, limit, offset, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, notificationID, userID int64) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockRepository) MarkAllRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRepository) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Preferences), args.Error(1)
}

func (m *MockRepository) SavePreferences(ctx context.Context, p *Preferences) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) SaveDeviceToken(ctx context.Context, t *DeviceToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockRepository) DeactivateDeviceToken(ctx context.Context, tokenID, userID int64) error {
	args := m.Called(ctx, tokenID, userID)
	return args.Error(0)
}

func (m *MockRepository) ActiveDeviceTokens(ctx context.Context, userID int64) ([]DeviceToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DeviceToken), args.Error(1)
}

func (m *MockRepository) DueScheduled(ctx context.Context, now time.Time, limit int) ([]Notification, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockRepository) MarkSent(ctx context.Context, notificationID int64, sentAt time.Time) error {
	args := m.Called(ctx, notificationID, sentAt)
	return args.Error(0)
}

func (m *MockRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Deliver(ctx context.Context, userID int64, channel Channel, title, body, notifType string) error {
	args := m.Called(ctx, userID, channel, title, body, notifType)
	return args.Error(0)
}

func newTestDispatcher(repo Repository, transport Transport, bus EventPublisher) *Dispatcher {
	d := NewDispatcher(repo, NewRegistry(), transport, bus)
	d.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	d.sleep = func(time.Duration) {}
	return d
}

func TestDispatcher_Send_PersistsAndFansOut(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	bus := events.NewBus()
	stream, cancel := bus.Subscribe(1)
	defer cancel()

	d := newTestDispatcher(repo, transport, bus)

	repo.On("GetPreferences", mock.Anything, int64(7)).Return(DefaultPreferences(7), nil)
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)
	transport.On("Deliver", mock.Anything, int64(7), ChannelPush, "👋 New friend request", "Sam wants to connect with you", "friend_request").Return(nil)
	transport.On("Deliver", mock.Anything, int64(7), ChannelInApp, "👋 New friend request", "Sam wants to connect with you", "friend_request").Return(nil)

	err := d.Send(context.Background(), 7, "friend_request", map[string]string{"username": "Sam"}, map[string]any{"requester_id": 3})
	assert.NoError(t, err)

	repo.AssertNumberOfCalls(t, "CreateNotification", 1)
	transport.AssertNumberOfCalls(t, "Deliver", 2)

	created := repo.Calls[1].Arguments.Get(1).(*Notification)
	assert.Equal(t, "friend_request", created.Type)
	assert.Equal(t, ChannelList{ChannelPush, ChannelInApp}, created.Channels)
	assert.NotNil(t, created.SentAt)
	assert.Nil(t, created.ScheduledFor)
	assert.False(t, created.Read)

	data := created.GetData()
	assert.Equal(t, "Sam", data["username"])
	assert.Equal(t, float64(3), data["requester_id"])

	select {
	case e := <-stream:
		assert.Equal(t, int64(7), e.UserID)
		assert.Equal(t, "friend_request", e.Type)
	default:
		t.Fatal("expected event on bus")
	}
}

func TestDispatcher_Send_UnknownType(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	err := d.Send(context.Background(), 7, "price_drop", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownTemplateType)

	repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestDispatcher_Send_DisabledPreferencesIsNoop(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	prefs := DefaultPreferences(7)
	prefs.Enabled = false
	repo.On("GetPreferences", mock.Anything, int64(7)).Return(prefs, nil)

	err := d.Send(context.Background(), 7, "friend_request", map[string]string{"username": "Sam"}, nil)
	assert.NoError(t, err)

	repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	transport.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_Send_TypeOptedOutIsNoop(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	prefs := DefaultPreferences(7)
	prefs.Types = StringList{"friend_request"}
	repo.On("GetPreferences", mock.Anything, int64(7)).Return(prefs, nil)

	err := d.Send(context.Background(), 7, "post_like", map[string]string{"username": "Sam", "restaurant": "Noma"}, nil)
	assert.NoError(t, err)

	repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestDispatcher_Send_PreferencesErrorFallsBackToDefaults(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	repo.On("GetPreferences", mock.Anything, int64(7)).Return(nil, errors.New("db down"))
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)
	transport.On("Deliver", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := d.Send(context.Background(), 7, "friend_request", map[string]string{"username": "Sam"}, nil)
	assert.NoError(t, err)

	repo.AssertNumberOfCalls(t, "CreateNotification", 1)
}

func TestDispatcher_Send_ChannelsFilteredByPreferences(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	prefs := DefaultPreferences(7)
	prefs.Channels = StringList{"in_app"}
	repo.On("GetPreferences", mock.Anything, int64(7)).Return(prefs, nil)
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)
	transport.On("Deliver", mock.Anything, int64(7), ChannelInApp, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := d.Send(context.Background(), 7, "friend_request", map[string]string{"username": "Sam"}, nil)
	assert.NoError(t, err)

	created := repo.Calls[1].Arguments.Get(1).(*Notification)
	assert.Equal(t, ChannelList{ChannelInApp}, created.Channels)
	transport.AssertNumberOfCalls(t, "Deliver", 1)
}

func TestDispatcher_Send_QuietHoursSuppressAllChannels(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)
	d.now = func() time.Time { return time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC) }

	prefs := DefaultPreferences(7)
	prefs.QuietStart = "22:00"
	prefs.QuietEnd = "07:00"
	repo.On("GetPreferences", mock.Anything, int64(7)).Return(prefs, nil)
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)

	err := d.Send(context.Background(), 7, "friend_request", map[string]string{"username": "Sam"}, nil)
	assert.NoError(t, err)

	// The row is still persisted for the in-app list; nothing is pushed.
	created := repo.Calls[1].Arguments.Get(1).(*Notification)
	assert.Empty(t, created.Channels)
	transport.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_Send_TransportFailureIsSwallowed(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	repo.On("GetPreferences", mock.Anything, int64(7)).Return(DefaultPreferences(7), nil)
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)
	transport.On("Deliver", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("push gateway 503"))

	err := d.Send(context.Background(), 7, "friend_request", map[string]string{"username": "Sam"}, nil)
	assert.NoError(t, err)

	repo.AssertNumberOfCalls(t, "CreateNotification", 1)
}

func TestDispatcher_Send_PersistFailureIsReturned(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	repo.On("GetPreferences", mock.Anything, int64(7)).Return(DefaultPreferences(7), nil)
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	err := d.Send(context.Background(), 7, "friend_request", map[string]string{"username": "Sam"}, nil)
	assert.Error(t, err)

	transport.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_Schedule_FutureTime(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	repo.On("GetPreferences", mock.Anything, int64(7)).Return(DefaultPreferences(7), nil)
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)

	when := d.now().Add(2 * time.Hour)
	err := d.Schedule(context.Background(), 7, "reservation_reminder", when, map[string]string{"restaurant": "Noma", "time": "2 hours"})
	assert.NoError(t, err)

	created := repo.Calls[1].Arguments.Get(1).(*Notification)
	assert.NotNil(t, created.ScheduledFor)
	assert.True(t, created.ScheduledFor.Equal(when))
	assert.Nil(t, created.SentAt)
	assert.Equal(t, "Your reservation at Noma is in 2 hours", created.Message)

	// No delivery until the worker picks it up.
	transport.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_Schedule_PastTimeRejected(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	err := d.Schedule(context.Background(), 7, "reservation_reminder", d.now().Add(-time.Minute), nil)
	assert.ErrorIs(t, err, ErrInvalidScheduleTime)

	repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestDispatcher_DispatchDue(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	due := []Notification{
		{ID: 1, UserID: 7, Type: "reservation_reminder", Title: "t", Message: "m", Channels: ChannelList{ChannelPush}},
		{ID: 2, UserID: 8, Type: "reservation_reminder", Title: "t", Message: "m", Channels: ChannelList{ChannelPush}},
	}
	repo.On("DueScheduled", mock.Anything, d.now(), 50).Return(due, nil)
	repo.On("MarkSent", mock.Anything, mock.Anything, d.now()).Return(nil)
	transport.On("Deliver", mock.Anything, mock.Anything, ChannelPush, "t", "m", "reservation_reminder").Return(nil)

	n, err := d.DispatchDue(context.Background(), 50)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	repo.AssertNumberOfCalls(t, "MarkSent", 2)
	transport.AssertNumberOfCalls(t, "Deliver", 2)
}

func TestDispatcher_SendBulk_ChunksAndPaces(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	var mu sync.Mutex
	sleeps := 0
	d.sleep = func(pause time.Duration) {
		mu.Lock()
		sleeps++
		mu.Unlock()
		assert.Equal(t, DefaultBatchPacing, pause)
	}

	repo.On("GetPreferences", mock.Anything, mock.Anything).Return(DefaultPreferences(0), nil)
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)
	transport.On("Deliver", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	userIDs := make([]int64, 250)
	for i := range userIDs {
		userIDs[i] = int64(i + 1)
	}

	err := d.SendBulk(context.Background(), userIDs, "insider_event", map[string]string{"restaurant": "Noma", "event_name": "Truffle night"}, 100)
	assert.NoError(t, err)

	// 250 users in chunks of 100: pacing after the first two chunks only.
	assert.Equal(t, 2, sleeps)
	repo.AssertNumberOfCalls(t, "CreateNotification", 250)
}

func TestDispatcher_SendBulk_UnknownTypeFailsFast(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	d := newTestDispatcher(repo, transport, nil)

	err := d.SendBulk(context.Background(), []int64{1, 2, 3}, "price_drop", nil, 100)
	assert.ErrorIs(t, err, ErrUnknownTemplateType)

	repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}
