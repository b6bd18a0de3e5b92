package post

import "context"

// NotificationSender delivers like/comment notifications to post authors.
// Satisfied by the notification dispatcher.
type NotificationSender interface {
	Send(ctx context.Context, userID int64, notifType string, vars map[string]string, customData map[string]any) error
}

// UserDirectory resolves display names for notification variables.
type UserDirectory interface {
	UsernameByID(ctx context.Context, id int64) (string, error)
}

// RestaurantDirectory resolves restaurant names for notification variables.
type RestaurantDirectory interface {
	RestaurantName(ctx context.Context, id string) (string, error)
}
