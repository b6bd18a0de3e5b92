package post

import (
	"context"
	"log"
)

type Service struct {
	repo        Repository
	users       UserDirectory
	restaurants RestaurantDirectory
	notifs      NotificationSender
}

func NewService(repo Repository, users UserDirectory, restaurants RestaurantDirectory, notifs NotificationSender) *Service {
	return &Service{
		repo:        repo,
		users:       users,
		restaurants: restaurants,
		notifs:      notifs,
	}
}

func (s *Service) CreatePost(ctx context.Context, userID int64, req CreatePostRequest) (*Post, error) {
	if req.Content == "" && len(req.Images) == 0 && req.VideoURL == "" {
		return nil, ErrEmptyPost
	}

	visibility := Visibility(req.Visibility)
	if req.Visibility == "" {
		visibility = VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, ErrInvalidVisibility
	}

	p := &Post{
		UserID:           userID,
		Content:          req.Content,
		Images:           StringArray(req.Images),
		VideoURL:         req.VideoURL,
		RestaurantID:     req.RestaurantID,
		DishID:           req.DishID,
		OverallRating:    req.OverallRating,
		DishRating:       req.DishRating,
		ServiceRating:    req.ServiceRating,
		AtmosphereRating: req.AtmosphereRating,
		ValueRating:      req.ValueRating,
		VisitDate:        req.VisitDate,
		MealType:         req.MealType,
		Occasion:         req.Occasion,
		PartySize:        req.PartySize,
		Tags:             StringArray(req.Tags),
		Hashtags:         StringArray(req.Hashtags),
		Visibility:       visibility,
	}

	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetUserPosts(ctx context.Context, userID int64, limit, offset int) ([]Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetUserPosts(ctx, userID, limit, offset)
}

// ToggleLike likes an unliked post and unlikes a liked one. Returns the
// resulting liked state. Liking someone else's post notifies its author.
func (s *Service) ToggleLike(ctx context.Context, userID int64, postID string) (bool, error) {
	p, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return false, err
	}

	existing, err := s.repo.FindLike(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := s.repo.DeleteLike(ctx, userID, postID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.repo.CreateLike(ctx, &PostLike{UserID: userID, PostID: postID}); err != nil {
		return false, err
	}

	if p.UserID != userID {
		s.notifyAuthor(ctx, p, userID, "post_like")
	}
	return true, nil
}

// AddComment adds a comment, optionally threaded under a parent comment of
// the same post. Commenting someone else's post notifies its author.
func (s *Service) AddComment(ctx context.Context, userID int64, postID, content, parentCommentID string) (*PostComment, error) {
	p, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if parentCommentID != "" {
		parent, err := s.repo.GetComment(ctx, parentCommentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != postID {
			return nil, ErrInvalidParent
		}
	}

	c := &PostComment{
		UserID:          userID,
		PostID:          postID,
		Content:         content,
		ParentCommentID: parentCommentID,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	if p.UserID != userID {
		s.notifyAuthor(ctx, p, userID, "post_comment")
	}
	return c, nil
}

func (s *Service) ListComments(ctx context.Context, postID string, limit int) ([]PostComment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListComments(ctx, postID, limit)
}

// notifyAuthor sends the post_like/post_comment notification. Lookups are
// best-effort; a missing name leaves the template placeholder visible rather
// than blocking the notification.
func (s *Service) notifyAuthor(ctx context.Context, p *Post, actorID int64, notifType string) {
	if s.notifs == nil {
		return
	}

	vars := map[string]string{}
	if username, err := s.users.UsernameByID(ctx, actorID); err == nil {
		vars["username"] = username
	}
	if p.RestaurantID != "" {
		if name, err := s.restaurants.RestaurantName(ctx, p.RestaurantID); err == nil {
			vars["restaurant"] = name
		}
	}

	err := s.notifs.Send(ctx, p.UserID, notifType, vars,
		map[string]any{"post_id": p.ID, "user_id": actorID})
	if err != nil {
		log.Printf("post notify type=%s post=%s err=%v", notifType, p.ID, err)
	}
}
