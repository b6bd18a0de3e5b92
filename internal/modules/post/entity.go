package post

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Visibility controls who can see a post in feeds.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

// Post is one restaurant review/story in the social feed.
type Post struct {
	ID               string      `gorm:"column:id;primaryKey" json:"id"`
	UserID           int64       `gorm:"column:user_id;index" json:"user_id"`
	Content          string      `gorm:"column:content" json:"content,omitempty"`
	Images           StringArray `gorm:"column:images;type:jsonb" json:"images,omitempty"`
	VideoURL         string      `gorm:"column:video_url" json:"video_url,omitempty"`
	RestaurantID     string      `gorm:"column:restaurant_id;index" json:"restaurant_id,omitempty"`
	DishID           string      `gorm:"column:dish_id" json:"dish_id,omitempty"`
	OverallRating    *float64    `gorm:"column:overall_rating" json:"overall_rating,omitempty"`
	DishRating       *float64    `gorm:"column:dish_rating" json:"dish_rating,omitempty"`
	ServiceRating    *float64    `gorm:"column:service_rating" json:"service_rating,omitempty"`
	AtmosphereRating *float64    `gorm:"column:atmosphere_rating" json:"atmosphere_rating,omitempty"`
	ValueRating      *float64    `gorm:"column:value_rating" json:"value_rating,omitempty"`
	VisitDate        *time.Time  `gorm:"column:visit_date" json:"visit_date,omitempty"`
	MealType         string      `gorm:"column:meal_type" json:"meal_type,omitempty"`
	Occasion         string      `gorm:"column:occasion" json:"occasion,omitempty"`
	PartySize        *int        `gorm:"column:party_size" json:"party_size,omitempty"`
	Tags             StringArray `gorm:"column:tags;type:jsonb" json:"tags,omitempty"`
	Hashtags         StringArray `gorm:"column:hashtags;type:jsonb" json:"hashtags,omitempty"`
	Visibility       Visibility  `gorm:"column:visibility;default:'public'" json:"visibility"`
	CreatedAt        time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Post) TableName() string { return "posts" }

// PostLike is one user's like on a post; one row per (user, post).
type PostLike struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex:idx_post_likes_user_post" json:"user_id"`
	PostID    string    `gorm:"column:post_id;uniqueIndex:idx_post_likes_user_post;index" json:"post_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PostLike) TableName() string { return "post_likes" }

// PostComment is a comment on a post, optionally threaded under a parent.
type PostComment struct {
	ID              string    `gorm:"column:id;primaryKey" json:"id"`
	UserID          int64     `gorm:"column:user_id;index" json:"user_id"`
	PostID          string    `gorm:"column:post_id;index" json:"post_id"`
	Content         string    `gorm:"column:content" json:"content"`
	ParentCommentID string    `gorm:"column:parent_comment_id" json:"parent_comment_id,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PostComment) TableName() string { return "post_comments" }

// StringArray is stored as a JSON array.
type StringArray []string

// Value implements driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported string array column type")
	}

	var result StringArray
	if err := json.Unmarshal(b, &result); err != nil {
		return err
	}

	*a = result
	return nil
}
