package feed

import (
	"context"

	"flavorfeed/internal/modules/post"
)

// Scope bounds a feed query to rows the viewer is allowed to see. The
// visibility predicate runs in the store so fetch caps count eligible rows,
// never rows the viewer cannot see.
type Scope struct {
	ViewerID  int64
	FriendIDs []int64
	ActorIDs  []int64 // nil = no author restriction
}

// friendList never returns nil so IN clauses stay well-formed.
func (s Scope) friendList() []int64 {
	if s.FriendIDs == nil {
		return []int64{}
	}
	return s.FriendIDs
}

// Repository reads feed source rows already filtered to the scope's
// visibility; fetch bounds how many recent eligible rows each source
// contributes.
type Repository interface {
	RecentPosts(ctx context.Context, scope Scope, fetch int) ([]post.Post, error)
	RecentLikes(ctx context.Context, scope Scope, fetch int) ([]LikeActivity, error)
	RecentComments(ctx context.Context, scope Scope, fetch int) ([]CommentActivity, error)
	RecentCheckins(ctx context.Context, scope Scope, fetch int) ([]Checkin, error)
	RecentPlans(ctx context.Context, scope Scope, fetch int) ([]ReservationPlan, error)
}

// FriendSource resolves a user's accepted friends. Satisfied by the
// friendship service.
type FriendSource interface {
	FriendIDs(ctx context.Context, userID int64) ([]int64, error)
}
