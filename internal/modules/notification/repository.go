package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the store boundary for notifications, preferences and device
// tokens. The core assumes per-row atomicity only.
type Repository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, notificationID, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error

	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	SavePreferences(ctx context.Context, p *Preferences) error

	SaveDeviceToken(ctx context.Context, t *DeviceToken) error
	DeactivateDeviceToken(ctx context.Context, tokenID, userID int64) error
	ActiveDeviceTokens(ctx context.Context, userID int64) ([]DeviceToken, error)

	DueScheduled(ctx context.Context, now time.Time, limit int) ([]Notification, error)
	MarkSent(ctx context.Context, notificationID int64, sentAt time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateNotification(ctx context.Context, n *Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]Notification, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var list []Notification
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

func (r *repository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// MarkRead is idempotent: re-marking an already-read owned row is a no-op.
// An id the user does not own surfaces ErrNotificationNotFound.
func (r *repository) MarkRead(ctx context.Context, notificationID, userID int64) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ? AND read = ?", notificationID, userID, false).
		Updates(map[string]any{"read": true, "read_at": now})
	if res.Error != nil {
		return fmt.Errorf("mark read: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return nil // already read
}

func (r *repository) MarkAllRead(ctx context.Context, userID int64) error {
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]any{"read": true, "read_at": now}).Error
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

func (r *repository) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	var p Preferences
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultPreferences(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return &p, nil
}

func (r *repository) SavePreferences(ctx context.Context, p *Preferences) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(p).Error
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (r *repository) SaveDeviceToken(ctx context.Context, t *DeviceToken) error {
	t.IsActive = true
	t.LastUsedAt = time.Now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			UpdateAll: true,
		}).
		Create(t).Error
	if err != nil {
		return fmt.Errorf("save device token: %w", err)
	}
	return nil
}

func (r *repository) DeactivateDeviceToken(ctx context.Context, tokenID, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&DeviceToken{}).
		Where("id = ? AND user_id = ?", tokenID, userID).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate device token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDeviceTokenNotFound
	}
	return nil
}

func (r *repository) ActiveDeviceTokens(ctx context.Context, userID int64) ([]DeviceToken, error) {
	var tokens []DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&tokens).Error
	if err != nil {
		return nil, fmt.Errorf("active device tokens: %w", err)
	}
	return tokens, nil
}

func (r *repository) DueScheduled(ctx context.Context, now time.Time, limit int) ([]Notification, error) {
	q := r.db.WithContext(ctx).
		Where("scheduled_for IS NOT NULL AND scheduled_for <= ? AND sent_at IS NULL", now).
		Order("scheduled_for ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var list []Notification
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("due scheduled: %w", err)
	}
	return list, nil
}

func (r *repository) MarkSent(ctx context.Context, notificationID int64, sentAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND sent_at IS NULL", notificationID).
		Update("sent_at", sentAt).Error
	if err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	return nil
}

func (r *repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired: %w", res.Error)
	}
	return res.RowsAffected, nil
}
