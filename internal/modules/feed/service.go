package feed

import (
	"context"
	"sort"

	"flavorfeed/internal/modules/post"
)

// Filters narrow the feed. All set filters compose conjunctively.
type Filters struct {
	FollowingOnly bool
	RestaurantID  string
	MinRating     float64
	HasImages     bool
}

// Page is one feed page. HasMore is an approximation: true whenever a full
// page was returned, even if no further items exist.
type Page struct {
	Items   []ActivityItem `json:"items"`
	HasMore bool           `json:"has_more"`
}

// Service composes the ranked, paginated activity feed. Every call is a
// fresh, consistent-as-of-call-time read; nothing is cached across calls.
type Service struct {
	repo    Repository
	friends FriendSource
}

func NewService(repo Repository, friends FriendSource) *Service {
	return &Service{repo: repo, friends: friends}
}

// GetFeed returns activity visible to the viewer, newest first, ties broken
// by item id ascending for a stable order across calls.
func (s *Service) GetFeed(ctx context.Context, viewerID int64, filters Filters, limit, offset int) (*Page, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	friendIDs, err := s.friends.FriendIDs(ctx, viewerID)
	if err != nil {
		return &Page{Items: []ActivityItem{}}, err
	}
	friendSet := make(map[int64]bool, len(friendIDs))
	for _, id := range friendIDs {
		friendSet[id] = true
	}

	// With followingOnly the allowed author set is friends plus the viewer;
	// nil means no author restriction.
	var actors []int64
	if filters.FollowingOnly {
		actors = append(append([]int64{}, friendIDs...), viewerID)
	}

	// The store applies the visibility predicate, so the per-source fetch cap
	// counts eligible rows and filtering stays ahead of pagination.
	scope := Scope{ViewerID: viewerID, FriendIDs: friendIDs, ActorIDs: actors}

	items, err := s.collect(ctx, scope, offset+limit)
	if err != nil {
		return &Page{Items: []ActivityItem{}}, err
	}

	eligible := items[:0]
	for _, item := range items {
		if !s.visible(&item, viewerID, friendSet) {
			continue
		}
		if !matches(&item, filters) {
			continue
		}
		eligible = append(eligible, item)
	}

	sortItems(eligible)
	page := paginate(eligible, offset, limit)

	return &Page{Items: page, HasMore: len(page) == limit}, nil
}

// GetUserActivity returns one user's recent activity as seen by the viewer.
func (s *Service) GetUserActivity(ctx context.Context, viewerID, actorID int64, limit int) ([]ActivityItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	friendIDs, err := s.friends.FriendIDs(ctx, viewerID)
	if err != nil {
		return []ActivityItem{}, err
	}
	friendSet := make(map[int64]bool, len(friendIDs))
	for _, id := range friendIDs {
		friendSet[id] = true
	}

	scope := Scope{ViewerID: viewerID, FriendIDs: friendIDs, ActorIDs: []int64{actorID}}

	items, err := s.collect(ctx, scope, limit)
	if err != nil {
		return []ActivityItem{}, err
	}

	visible := items[:0]
	for _, item := range items {
		if s.visible(&item, viewerID, friendSet) {
			visible = append(visible, item)
		}
	}

	sortItems(visible)
	if len(visible) > limit {
		visible = visible[:limit]
	}
	return visible, nil
}

// collect fetches up to fetch recent eligible rows from every source and
// converts them to activity items.
func (s *Service) collect(ctx context.Context, scope Scope, fetch int) ([]ActivityItem, error) {
	posts, err := s.repo.RecentPosts(ctx, scope, fetch)
	if err != nil {
		return nil, err
	}
	likes, err := s.repo.RecentLikes(ctx, scope, fetch)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.RecentComments(ctx, scope, fetch)
	if err != nil {
		return nil, err
	}
	checkins, err := s.repo.RecentCheckins(ctx, scope, fetch)
	if err != nil {
		return nil, err
	}
	plans, err := s.repo.RecentPlans(ctx, scope, fetch)
	if err != nil {
		return nil, err
	}

	items := make([]ActivityItem, 0, len(posts)+len(likes)+len(comments)+len(checkins)+len(plans))
	for i := range posts {
		p := posts[i]
		items = append(items, ActivityItem{
			ID:           p.ID,
			Kind:         KindPost,
			ActorID:      p.UserID,
			Timestamp:    p.CreatedAt,
			Visibility:   p.Visibility,
			RestaurantID: p.RestaurantID,
			Post:         &p,
		})
	}
	for i := range likes {
		l := likes[i]
		items = append(items, ActivityItem{
			ID:           l.ID,
			Kind:         KindLike,
			ActorID:      l.UserID,
			Timestamp:    l.CreatedAt,
			Visibility:   l.PostVisibility,
			RestaurantID: l.RestaurantID,
			Like:         &l,
		})
	}
	for i := range comments {
		c := comments[i]
		items = append(items, ActivityItem{
			ID:           c.ID,
			Kind:         KindComment,
			ActorID:      c.UserID,
			Timestamp:    c.CreatedAt,
			Visibility:   c.PostVisibility,
			RestaurantID: c.RestaurantID,
			Comment:      &c,
		})
	}
	for i := range checkins {
		ch := checkins[i]
		items = append(items, ActivityItem{
			ID:           ch.ID,
			Kind:         KindCheckin,
			ActorID:      ch.UserID,
			Timestamp:    ch.CreatedAt,
			Visibility:   ch.Visibility,
			RestaurantID: ch.RestaurantID,
			Checkin:      &ch,
		})
	}
	for i := range plans {
		pl := plans[i]
		items = append(items, ActivityItem{
			ID:           pl.ID,
			Kind:         KindReservationPlan,
			ActorID:      pl.HostID,
			Timestamp:    pl.CreatedAt,
			Visibility:   pl.Visibility,
			RestaurantID: pl.RestaurantID,
			Plan:         &pl,
		})
	}
	return items, nil
}

// visible applies the visibility rule: public, own, or friends-only from an
// accepted friend. Private items are visible only to their author. Likes and
// comments additionally require the underlying post to be visible so a
// restricted post never leaks through activity about it.
func (s *Service) visible(item *ActivityItem, viewerID int64, friendSet map[int64]bool) bool {
	if !allowed(item.Visibility, item.ActorID, viewerID, friendSet) {
		return false
	}

	switch item.Kind {
	case KindLike:
		return allowed(item.Like.PostVisibility, item.Like.PostAuthorID, viewerID, friendSet)
	case KindComment:
		return allowed(item.Comment.PostVisibility, item.Comment.PostAuthorID, viewerID, friendSet)
	}
	return true
}

func allowed(v post.Visibility, ownerID, viewerID int64, friendSet map[int64]bool) bool {
	if ownerID == viewerID {
		return true
	}
	switch v {
	case post.VisibilityPublic:
		return true
	case post.VisibilityFriends:
		return friendSet[ownerID]
	}
	return false
}

// matches applies the remaining filters conjunctively. Rating and image
// filters are post attributes; items of other kinds cannot satisfy them.
func matches(item *ActivityItem, f Filters) bool {
	if f.RestaurantID != "" && item.RestaurantID != f.RestaurantID {
		return false
	}
	if f.MinRating > 0 {
		if item.Kind != KindPost || item.Post.OverallRating == nil || *item.Post.OverallRating < f.MinRating {
			return false
		}
	}
	if f.HasImages {
		if item.Kind != KindPost || len(item.Post.Images) == 0 {
			return false
		}
	}
	return true
}

func sortItems(items []ActivityItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].Timestamp.After(items[j].Timestamp)
		}
		return items[i].ID < items[j].ID
	})
}

func paginate(items []ActivityItem, offset, limit int) []ActivityItem {
	if offset >= len(items) {
		return []ActivityItem{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
