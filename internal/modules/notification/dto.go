package notification

import "time"

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type SendRequest struct {
	UserID    int64             `json:"user_id" binding:"required"`
	Type      string            `json:"type" binding:"required"`
	Variables map[string]string `json:"variables"`
	Data      map[string]any    `json:"data"`
}

type ScheduleRequest struct {
	UserID       int64             `json:"user_id" binding:"required"`
	Type         string            `json:"type" binding:"required"`
	ScheduledFor time.Time         `json:"scheduled_for" binding:"required"`
	Variables    map[string]string `json:"variables"`
}

type BulkSendRequest struct {
	UserIDs   []int64           `json:"user_ids" binding:"required,min=1"`
	Type      string            `json:"type" binding:"required"`
	Variables map[string]string `json:"variables"`
	BatchSize int               `json:"batch_size"`
}

type QuietHours struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type UpdatePreferencesRequest struct {
	Enabled    *bool       `json:"enabled,omitempty"`
	Channels   []string    `json:"channels,omitempty"`
	Types      []string    `json:"types,omitempty"`
	QuietHours *QuietHours `json:"quiet_hours,omitempty"`
}

type RegisterDeviceTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	Platform   string `json:"platform" binding:"required,oneof=web android ios"`
	DeviceName string `json:"device_name"`
}
