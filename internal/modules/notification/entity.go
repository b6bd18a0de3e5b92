package notification

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Channel is a delivery medium for a notification.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelInApp Channel = "in_app"
)

// Priority orders notifications for transports and gates quiet hours.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Notification is a persisted user notification. Rows are created by the
// Dispatcher and only mutated by the read-state operations; expiry is handled
// by the cleanup worker, never in request paths.
type Notification struct {
	ID           int64           `gorm:"column:id;primaryKey" json:"id"`
	UserID       int64           `gorm:"column:user_id;index:idx_notifications_user_unread" json:"user_id"`
	Type         string          `gorm:"column:type" json:"type"`
	Title        string          `gorm:"column:title" json:"title"`
	Message      string          `gorm:"column:message" json:"message"`
	Data         json.RawMessage `gorm:"column:data;type:jsonb" json:"data,omitempty"`
	Channels     ChannelList     `gorm:"column:channels;type:jsonb" json:"channels"`
	Priority     Priority        `gorm:"column:priority" json:"priority"`
	Read         bool            `gorm:"column:read;index:idx_notifications_user_unread" json:"read"`
	ReadAt       *time.Time      `gorm:"column:read_at" json:"read_at,omitempty"`
	ScheduledFor *time.Time      `gorm:"column:scheduled_for" json:"scheduled_for,omitempty"`
	SentAt       *time.Time      `gorm:"column:sent_at" json:"sent_at,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ExpiresAt    *time.Time      `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

// TableName specifies table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// SetData encodes the data payload to JSON.
func (n *Notification) SetData(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	n.Data = b
	return nil
}

// GetData decodes the data payload. Returns an empty map on absent data.
func (n *Notification) GetData() map[string]any {
	out := make(map[string]any)
	if len(n.Data) > 0 {
		_ = json.Unmarshal(n.Data, &out)
	}
	return out
}

// ChannelList is stored as a JSON array.
type ChannelList []Channel

// Value implements driver.Valuer interface
func (l ChannelList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (l *ChannelList) Scan(value interface{}) error {
	if value == nil {
		*l = ChannelList{}
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported channel list column type")
	}

	var result ChannelList
	if err := json.Unmarshal(b, &result); err != nil {
		return err
	}

	*l = result
	return nil
}

// Contains reports whether ch is in the list.
func (l ChannelList) Contains(ch Channel) bool {
	for _, c := range l {
		if c == ch {
			return true
		}
	}
	return false
}

// DeviceToken represents a push notification device token.
type DeviceToken struct {
	ID         int64     `gorm:"primaryKey;column:id" json:"id"`
	UserID     int64     `gorm:"column:user_id;index:idx_device_tokens_user" json:"user_id"`
	Token      string    `gorm:"column:token;uniqueIndex" json:"token"`
	Platform   string    `gorm:"column:platform" json:"platform"` // web, android, ios
	DeviceName string    `gorm:"column:device_name" json:"device_name,omitempty"`
	IsActive   bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastUsedAt time.Time `gorm:"column:last_used_at" json:"last_used_at"`
}

// TableName specifies table name for GORM
func (DeviceToken) TableName() string {
	return "device_tokens"
}
