package friendship

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository handles persistence for friendships.
type Repository interface {
	Create(ctx context.Context, f *Friendship) error
	GetByID(ctx context.Context, id string) (*Friendship, error)
	FindByPair(ctx context.Context, a, b int64) (*Friendship, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	SetCloseFriend(ctx context.Context, id string, userID int64, close bool) error
	AcceptedFor(ctx context.Context, userID int64) ([]Friendship, error)
	PendingIncoming(ctx context.Context, userID int64) ([]Friendship, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Friendship) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	f.UserLo, f.UserHi = canonicalPair(f.RequesterID, f.AddresseeID)

	err := r.db.WithContext(ctx).Create(f).Error
	if err != nil && isUniqueViolation(err) {
		// Another request for the same pair won the race; the pair index is
		// the authoritative duplicate guard.
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create friendship: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Friendship, error) {
	var f Friendship
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get friendship: %w", err)
	}
	return &f, nil
}

func (r *repository) FindByPair(ctx context.Context, a, b int64) (*Friendship, error) {
	lo, hi := canonicalPair(a, b)

	var f Friendship
	err := r.db.WithContext(ctx).
		Where("user_lo = ? AND user_hi = ?", lo, hi).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find friendship pair: %w", err)
	}
	return &f, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res := r.db.WithContext(ctx).
		Model(&Friendship{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("update friendship status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetCloseFriend(ctx context.Context, id string, userID int64, close bool) error {
	res := r.db.WithContext(ctx).
		Model(&Friendship{}).
		Where("id = ? AND status = ? AND (requester_id = ? OR addressee_id = ?)",
			id, StatusAccepted, userID, userID).
		Update("close_friend", close)
	if res.Error != nil {
		return fmt.Errorf("set close friend: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) AcceptedFor(ctx context.Context, userID int64) ([]Friendship, error) {
	var list []Friendship
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?",
			userID, userID, StatusAccepted).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("accepted friendships: %w", err)
	}
	return list, nil
}

func (r *repository) PendingIncoming(ctx context.Context, userID int64) ([]Friendship, error) {
	var list []Friendship
	err := r.db.WithContext(ctx).
		Where("addressee_id = ? AND status = ?", userID, StatusPending).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("pending friend requests: %w", err)
	}
	return list, nil
}

// isUniqueViolation recognizes a unique constraint failure from postgres
// (23505) or sqlite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}
