package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles persistence for posts, likes and comments.
type Repository interface {
	CreatePost(ctx context.Context, p *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	GetUserPosts(ctx context.Context, userID int64, limit, offset int) ([]Post, error)

	FindLike(ctx context.Context, userID int64, postID string) (*PostLike, error)
	CreateLike(ctx context.Context, l *PostLike) error
	DeleteLike(ctx context.Context, userID int64, postID string) error

	CreateComment(ctx context.Context, c *PostComment) error
	GetComment(ctx context.Context, id string) (*PostComment, error)
	ListComments(ctx context.Context, postID string, limit int) ([]PostComment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePost(ctx context.Context, p *Post) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *repository) GetPost(ctx context.Context, id string) (*Post, error) {
	var p Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &p, nil
}

func (r *repository) GetUserPosts(ctx context.Context, userID int64, limit, offset int) ([]Post, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var posts []Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("user posts: %w", err)
	}
	return posts, nil
}

func (r *repository) FindLike(ctx context.Context, userID int64, postID string) (*PostLike, error) {
	var l PostLike
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find like: %w", err)
	}
	return &l, nil
}

func (r *repository) CreateLike(ctx context.Context, l *PostLike) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("create like: %w", err)
	}
	return nil
}

func (r *repository) DeleteLike(ctx context.Context, userID int64, postID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&PostLike{}).Error
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

func (r *repository) CreateComment(ctx context.Context, c *PostComment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *repository) GetComment(ctx context.Context, id string) (*PostComment, error) {
	var c PostComment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (r *repository) ListComments(ctx context.Context, postID string, limit int) ([]PostComment, error) {
	q := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var comments []PostComment
	if err := q.Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
