package notification

import "errors"

var (
	ErrUnknownTemplateType  = errors.New("unknown notification type")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrDeviceTokenNotFound  = errors.New("device token not found")
	ErrInvalidScheduleTime  = errors.New("scheduled time must be in the future")
)
