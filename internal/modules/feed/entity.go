package feed

import (
	"time"

	"flavorfeed/internal/modules/post"
)

// Kind tags one unit of the aggregated activity feed.
type Kind string

const (
	KindPost            Kind = "post"
	KindLike            Kind = "like"
	KindComment         Kind = "comment"
	KindCheckin         Kind = "checkin"
	KindReservationPlan Kind = "reservation_plan"
)

// ActivityItem is one feed entry. Items are produced per request from the
// underlying rows and never stored.
type ActivityItem struct {
	ID           string          `json:"id"`
	Kind         Kind            `json:"kind"`
	ActorID      int64           `json:"actor_id"`
	Timestamp    time.Time       `json:"timestamp"`
	Visibility   post.Visibility `json:"visibility"`
	RestaurantID string          `json:"restaurant_id,omitempty"`

	Post    *post.Post       `json:"post,omitempty"`
	Like    *LikeActivity    `json:"like,omitempty"`
	Comment *CommentActivity `json:"comment,omitempty"`
	Checkin *Checkin         `json:"checkin,omitempty"`
	Plan    *ReservationPlan `json:"reservation_plan,omitempty"`
}

// LikeActivity is a like joined with the liked post's feed-relevant fields.
type LikeActivity struct {
	ID             string          `gorm:"column:id" json:"id"`
	UserID         int64           `gorm:"column:user_id" json:"user_id"`
	PostID         string          `gorm:"column:post_id" json:"post_id"`
	PostAuthorID   int64           `gorm:"column:post_author_id" json:"post_author_id"`
	PostVisibility post.Visibility `gorm:"column:post_visibility" json:"-"`
	RestaurantID   string          `gorm:"column:restaurant_id" json:"restaurant_id,omitempty"`
	CreatedAt      time.Time       `gorm:"column:created_at" json:"created_at"`
}

// CommentActivity is a comment joined with the commented post's fields.
type CommentActivity struct {
	ID             string          `gorm:"column:id" json:"id"`
	UserID         int64           `gorm:"column:user_id" json:"user_id"`
	PostID         string          `gorm:"column:post_id" json:"post_id"`
	Content        string          `gorm:"column:content" json:"content"`
	PostAuthorID   int64           `gorm:"column:post_author_id" json:"post_author_id"`
	PostVisibility post.Visibility `gorm:"column:post_visibility" json:"-"`
	RestaurantID   string          `gorm:"column:restaurant_id" json:"restaurant_id,omitempty"`
	CreatedAt      time.Time       `gorm:"column:created_at" json:"created_at"`
}

// Checkin is a visit announcement at a restaurant.
type Checkin struct {
	ID           string          `gorm:"column:id;primaryKey" json:"id"`
	UserID       int64           `gorm:"column:user_id;index" json:"user_id"`
	RestaurantID string          `gorm:"column:restaurant_id;index" json:"restaurant_id"`
	Note         string          `gorm:"column:note" json:"note,omitempty"`
	Visibility   post.Visibility `gorm:"column:visibility;default:'public'" json:"visibility"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Checkin) TableName() string { return "checkins" }

// ReservationPlan is a group dining plan shared to the feed.
type ReservationPlan struct {
	ID           string          `gorm:"column:id;primaryKey" json:"id"`
	HostID       int64           `gorm:"column:host_id;index" json:"host_id"`
	RestaurantID string          `gorm:"column:restaurant_id;index" json:"restaurant_id"`
	Title        string          `gorm:"column:title" json:"title"`
	PlannedFor   time.Time       `gorm:"column:planned_for" json:"planned_for"`
	PartySize    int             `gorm:"column:party_size" json:"party_size,omitempty"`
	Visibility   post.Visibility `gorm:"column:visibility;default:'friends'" json:"visibility"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ReservationPlan) TableName() string { return "reservation_plans" }
