package notification

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Preferences holds a user's notification settings. One row per user; absence
// of a row resolves to DefaultPreferences so missing configuration never
// suppresses notifications.
type Preferences struct {
	ID         int64      `gorm:"primaryKey;column:id" json:"id"`
	UserID     int64      `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	Enabled    bool       `gorm:"column:enabled;default:true" json:"enabled"`
	Channels   StringList `gorm:"column:channels;type:jsonb" json:"channels"`
	Types      StringList `gorm:"column:types;type:jsonb" json:"types"` // empty = all types
	QuietStart string     `gorm:"column:quiet_start" json:"quiet_start,omitempty"` // "HH:MM", empty = no quiet hours
	QuietEnd   string     `gorm:"column:quiet_end" json:"quiet_end,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies table name for GORM
func (Preferences) TableName() string {
	return "notification_preferences"
}

// DefaultPreferences returns the safe defaults used when a user has never
// stored settings: enabled, push + in-app, all types.
func DefaultPreferences(userID int64) *Preferences {
	return &Preferences{
		UserID:   userID,
		Enabled:  true,
		Channels: StringList{string(ChannelPush), string(ChannelInApp)},
		Types:    StringList{},
	}
}

// AllowsType reports whether the user receives this notification type at all.
func (p *Preferences) AllowsType(notifType string) bool {
	if !p.Enabled {
		return false
	}
	if len(p.Types) == 0 {
		return true
	}
	return p.Types.Contains(notifType)
}

// AllowsChannel reports whether a channel is enabled for the user and not
// suppressed by quiet hours. Urgent priority always bypasses quiet hours.
func (p *Preferences) AllowsChannel(ch Channel, priority Priority, nowLocal time.Time) bool {
	if !p.Enabled {
		return false
	}
	if !p.Channels.Contains(string(ch)) {
		return false
	}
	if priority != PriorityUrgent && p.inQuietHours(nowLocal) {
		return false
	}
	return true
}

func (p *Preferences) inQuietHours(now time.Time) bool {
	if p.QuietStart == "" || p.QuietEnd == "" {
		return false
	}
	start, okStart := parseClock(p.QuietStart)
	end, okEnd := parseClock(p.QuietEnd)
	if !okStart || !okEnd || start == end {
		return false
	}

	minute := now.Hour()*60 + now.Minute()
	if start < end {
		return minute >= start && minute < end
	}
	// window crosses midnight, e.g. 22:00-07:00
	return minute >= start || minute < end
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// StringList is stored as a JSON array.
type StringList []string

// Value implements driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
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
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported string list column type")
	}

	var result StringList
	if err := json.Unmarshal(b, &result); err != nil {
		return err
	}

	*l = result
	return nil
}

// Contains reports whether s is in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
