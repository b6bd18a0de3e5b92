package notification

import (
	"context"
)

// Service covers the user-facing notification operations: listing, unread
// counts, read state, preferences and device tokens. Sending lives on the
// Dispatcher.
type Service struct {
	repo     Repository
	registry *Registry
}

func NewService(repo Repository, registry *Registry) *Service {
	return &Service{repo: repo, registry: registry}
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	list, err := s.repo.ListByUser(ctx, userID, limit, offset, unreadOnly)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return list, unread, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead is idempotent; marking an already-read notification is a no-op.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// GetPreferences resolves stored settings, falling back to the safe defaults.
func (s *Service) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	return s.repo.GetPreferences(ctx, userID)
}

func (s *Service) UpdatePreferences(ctx context.Context, userID int64, req UpdatePreferencesRequest) (*Preferences, error) {
	p, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.UserID = userID

	if req.Enabled != nil {
		p.Enabled = *req.Enabled
	}
	if req.Channels != nil {
		p.Channels = StringList(req.Channels)
	}
	if req.Types != nil {
		types := make(StringList, 0, len(req.Types))
		for _, t := range req.Types {
			if _, err := s.registry.Resolve(t); err != nil {
				return nil, err
			}
			types = append(types, t)
		}
		p.Types = types
	}
	if req.QuietHours != nil {
		p.QuietStart = req.QuietHours.Start
		p.QuietEnd = req.QuietHours.End
	}

	if err := s.repo.SavePreferences(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) RegisterDeviceToken(ctx context.Context, userID int64, token, platform, deviceName string) (*DeviceToken, error) {
	t := &DeviceToken{
		UserID:     userID,
		Token:      token,
		Platform:   platform,
		DeviceName: deviceName,
	}
	if err := s.repo.SaveDeviceToken(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeactivateDeviceToken(ctx context.Context, tokenID, userID int64) error {
	return s.repo.DeactivateDeviceToken(ctx, tokenID, userID)
}
