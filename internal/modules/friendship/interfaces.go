package friendship

import "context"

// NotificationSender delivers friend-lifecycle notifications. Satisfied by
// the notification dispatcher; failures are best-effort and never fail the
// friendship operation.
type NotificationSender interface {
	Send(ctx context.Context, userID int64, notifType string, vars map[string]string, customData map[string]any) error
}

// UserProfile is the projection of a user shown in friend lists.
type UserProfile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// UserDirectory resolves user profiles for friend lists and notification
// variables.
type UserDirectory interface {
	ProfilesByID(ctx context.Context, ids []int64) (map[int64]UserProfile, error)
}
