package feed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"flavorfeed/internal/modules/post"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// visibleTo applies the visibility rule for one (owner, visibility) column
// pair: own rows, public rows, or friends-only rows from an accepted friend.
func visibleTo(q *gorm.DB, ownerCol, visCol string, scope Scope) *gorm.DB {
	return q.Where(
		fmt.Sprintf("%s = ? OR %s = ? OR (%s = ? AND %s IN ?)", ownerCol, visCol, visCol, ownerCol),
		scope.ViewerID, post.VisibilityPublic, post.VisibilityFriends, scope.friendList(),
	)
}

func (r *repository) RecentPosts(ctx context.Context, scope Scope, fetch int) ([]post.Post, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if scope.ActorIDs != nil {
		q = q.Where("user_id IN ?", scope.ActorIDs)
	}
	q = visibleTo(q, "user_id", "visibility", scope)
	if fetch > 0 {
		q = q.Limit(fetch)
	}

	var posts []post.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("feed posts: %w", err)
	}
	return posts, nil
}

func (r *repository) RecentLikes(ctx context.Context, scope Scope, fetch int) ([]LikeActivity, error) {
	q := r.db.WithContext(ctx).
		Table("post_likes").
		Select("post_likes.id, post_likes.user_id, post_likes.post_id, post_likes.created_at, " +
			"posts.user_id AS post_author_id, posts.visibility AS post_visibility, posts.restaurant_id").
		Joins("JOIN posts ON posts.id = post_likes.post_id").
		Order("post_likes.created_at DESC")
	if scope.ActorIDs != nil {
		q = q.Where("post_likes.user_id IN ?", scope.ActorIDs)
	}
	// both the actor and the liked post must be visible to the viewer
	q = visibleTo(q, "post_likes.user_id", "posts.visibility", scope)
	q = visibleTo(q, "posts.user_id", "posts.visibility", scope)
	if fetch > 0 {
		q = q.Limit(fetch)
	}

	var likes []LikeActivity
	if err := q.Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("feed likes: %w", err)
	}
	return likes, nil
}

func (r *repository) RecentComments(ctx context.Context, scope Scope, fetch int) ([]CommentActivity, error) {
	q := r.db.WithContext(ctx).
		Table("post_comments").
		Select("post_comments.id, post_comments.user_id, post_comments.post_id, post_comments.content, "+
			"post_comments.created_at, posts.user_id AS post_author_id, posts.visibility AS post_visibility, "+
			"posts.restaurant_id").
		Joins("JOIN posts ON posts.id = post_comments.post_id").
		Order("post_comments.created_at DESC")
	if scope.ActorIDs != nil {
		q = q.Where("post_comments.user_id IN ?", scope.ActorIDs)
	}
	q = visibleTo(q, "post_comments.user_id", "posts.visibility", scope)
	q = visibleTo(q, "posts.user_id", "posts.visibility", scope)
	if fetch > 0 {
		q = q.Limit(fetch)
	}

	var comments []CommentActivity
	if err := q.Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("feed comments: %w", err)
	}
	return comments, nil
}

func (r *repository) RecentCheckins(ctx context.Context, scope Scope, fetch int) ([]Checkin, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if scope.ActorIDs != nil {
		q = q.Where("user_id IN ?", scope.ActorIDs)
	}
	q = visibleTo(q, "user_id", "visibility", scope)
	if fetch > 0 {
		q = q.Limit(fetch)
	}

	var checkins []Checkin
	if err := q.Find(&checkins).Error; err != nil {
		return nil, fmt.Errorf("feed checkins: %w", err)
	}
	return checkins, nil
}

func (r *repository) RecentPlans(ctx context.Context, scope Scope, fetch int) ([]ReservationPlan, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if scope.ActorIDs != nil {
		q = q.Where("host_id IN ?", scope.ActorIDs)
	}
	q = visibleTo(q, "host_id", "visibility", scope)
	if fetch > 0 {
		q = q.Limit(fetch)
	}

	var plans []ReservationPlan
	if err := q.Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("feed plans: %w", err)
	}
	return plans, nil
}
