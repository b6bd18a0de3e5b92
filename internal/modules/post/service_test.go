package post

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreatePost(ctx context.Context, p *Post) error {
	args := m.Called(ctx, p)
	if p != nil && p.ID == "" {
		p.ID = "p-1"
	}
	return args.Error(0)
}

func (m *MockRepository) GetPost(ctx context.Context, id string) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockRepository) GetUserPosts(ctx context.Context, userID int64, limit, offset int) ([]Post, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Post), args.Error(1)
}

func (m *MockRepository) FindLike(ctx context.Context, userID int64, postID string) (*PostLike, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PostLike), args.Error(1)
}

func (m *MockRepository) CreateLike(ctx context.Context, l *PostLike) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockRepository) DeleteLike(ctx context.Context, userID int64, postID string) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockRepository) CreateComment(ctx context.Context, c *PostComment) error {
	args := m.Called(ctx, c)
	if c != nil && c.ID == "" {
		c.ID = "c-1"
	}
	return args.Error(0)
}

func (m *MockRepository) GetComment(ctx context.Context, id string) (*PostComment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PostComment), args.Error(1)
}

func (m *MockRepository) ListComments(ctx context.Context, postID string, limit int) ([]PostComment, error) {
	args := m.Called(ctx, postID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PostComment), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) UsernameByID(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockRestaurantDirectory struct {
	mock.Mock
}

func (m *MockRestaurantDirectory) RestaurantName(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, userID int64, notifType string, vars map[string]string, customData map[string]any) error {
	args := m.Called(ctx, userID, notifType, vars, customData)
	return args.Error(0)
}

func newTestService() (*Service, *MockRepository, *MockUserDirectory, *MockRestaurantDirectory, *MockSender) {
	repo := new(MockRepository)
	users := new(MockUserDirectory)
	restaurants := new(MockRestaurantDirectory)
	sender := new(MockSender)
	return NewService(repo, users, restaurants, sender), repo, users, restaurants, sender
}

func TestService_CreatePost_DefaultsToPublic(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	repo.On("CreatePost", mock.Anything, mock.Anything).Return(nil)

	p, err := svc.CreatePost(context.Background(), 1, CreatePostRequest{Content: "great tacos"})
	assert.NoError(t, err)
	assert.Equal(t, VisibilityPublic, p.Visibility)
	assert.Equal(t, int64(1), p.UserID)
}

func TestService_CreatePost_Empty(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.CreatePost(context.Background(), 1, CreatePostRequest{})
	assert.ErrorIs(t, err, ErrEmptyPost)
}

func TestService_CreatePost_ImagesOnlyIsValid(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	repo.On("CreatePost", mock.Anything, mock.Anything).Return(nil)

	p, err := svc.CreatePost(context.Background(), 1, CreatePostRequest{Images: []string{"a.jpg"}})
	assert.NoError(t, err)
	assert.Len(t, p.Images, 1)
}

func TestService_CreatePost_InvalidVisibility(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.CreatePost(context.Background(), 1, CreatePostRequest{Content: "x", Visibility: "everyone"})
	assert.ErrorIs(t, err, ErrInvalidVisibility)
}

func TestService_ToggleLike_LikeThenUnlike(t *testing.T) {
	svc, repo, users, restaurants, sender := newTestService()

	p := &Post{ID: "p-1", UserID: 2, RestaurantID: "r-1"}
	repo.On("GetPost", mock.Anything, "p-1").Return(p, nil)
	repo.On("FindLike", mock.Anything, int64(1), "p-1").Return(nil, nil).Once()
	repo.On("CreateLike", mock.Anything, mock.Anything).Return(nil)
	users.On("UsernameByID", mock.Anything, int64(1)).Return("sam", nil)
	restaurants.On("RestaurantName", mock.Anything, "r-1").Return("Noma", nil)
	sender.On("Send", mock.Anything, int64(2), "post_like",
		map[string]string{"username": "sam", "restaurant": "Noma"}, mock.Anything).Return(nil)

	liked, err := svc.ToggleLike(context.Background(), 1, "p-1")
	assert.NoError(t, err)
	assert.True(t, liked)
	sender.AssertNumberOfCalls(t, "Send", 1)

	repo.On("FindLike", mock.Anything, int64(1), "p-1").Return(&PostLike{ID: "l-1", UserID: 1, PostID: "p-1"}, nil).Once()
	repo.On("DeleteLike", mock.Anything, int64(1), "p-1").Return(nil)

	liked, err = svc.ToggleLike(context.Background(), 1, "p-1")
	assert.NoError(t, err)
	assert.False(t, liked)

	// unliking does not notify again
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestService_ToggleLike_OwnPostDoesNotNotify(t *testing.T) {
	svc, repo, _, _, sender := newTestService()

	p := &Post{ID: "p-1", UserID: 1}
	repo.On("GetPost", mock.Anything, "p-1").Return(p, nil)
	repo.On("FindLike", mock.Anything, int64(1), "p-1").Return(nil, nil)
	repo.On("CreateLike", mock.Anything, mock.Anything).Return(nil)

	liked, err := svc.ToggleLike(context.Background(), 1, "p-1")
	assert.NoError(t, err)
	assert.True(t, liked)

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ToggleLike_MissingNamesLeavePlaceholders(t *testing.T) {
	svc, repo, users, restaurants, sender := newTestService()

	p := &Post{ID: "p-1", UserID: 2, RestaurantID: "r-1"}
	repo.On("GetPost", mock.Anything, "p-1").Return(p, nil)
	repo.On("FindLike", mock.Anything, int64(1), "p-1").Return(nil, nil)
	repo.On("CreateLike", mock.Anything, mock.Anything).Return(nil)
	users.On("UsernameByID", mock.Anything, int64(1)).Return("", assert.AnError)
	restaurants.On("RestaurantName", mock.Anything, "r-1").Return("", assert.AnError)
	sender.On("Send", mock.Anything, int64(2), "post_like",
		map[string]string{}, mock.Anything).Return(nil)

	liked, err := svc.ToggleLike(context.Background(), 1, "p-1")
	assert.NoError(t, err)
	assert.True(t, liked)

	// notification still goes out with no vars resolved
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestService_ToggleLike_PostNotFound(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	repo.On("GetPost", mock.Anything, "missing").Return(nil, ErrPostNotFound)

	_, err := svc.ToggleLike(context.Background(), 1, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestService_AddComment_NotifiesAuthor(t *testing.T) {
	svc, repo, users, restaurants, sender := newTestService()

	p := &Post{ID: "p-1", UserID: 2, RestaurantID: "r-1"}
	repo.On("GetPost", mock.Anything, "p-1").Return(p, nil)
	repo.On("CreateComment", mock.Anything, mock.Anything).Return(nil)
	users.On("UsernameByID", mock.Anything, int64(1)).Return("sam", nil)
	restaurants.On("RestaurantName", mock.Anything, "r-1").Return("Noma", nil)
	sender.On("Send", mock.Anything, int64(2), "post_comment", mock.Anything, mock.Anything).Return(nil)

	c, err := svc.AddComment(context.Background(), 1, "p-1", "looks amazing", "")
	assert.NoError(t, err)
	assert.Equal(t, "looks amazing", c.Content)
	assert.Empty(t, c.ParentCommentID)

	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestService_AddComment_ThreadedUnderParent(t *testing.T) {
	svc, repo, users, restaurants, sender := newTestService()

	p := &Post{ID: "p-1", UserID: 2}
	repo.On("GetPost", mock.Anything, "p-1").Return(p, nil)
	repo.On("GetComment", mock.Anything, "c-parent").Return(&PostComment{ID: "c-parent", PostID: "p-1"}, nil)
	repo.On("CreateComment", mock.Anything, mock.Anything).Return(nil)
	users.On("UsernameByID", mock.Anything, mock.Anything).Return("sam", nil)
	restaurants.On("RestaurantName", mock.Anything, mock.Anything).Return("Noma", nil)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	c, err := svc.AddComment(context.Background(), 1, "p-1", "same!", "c-parent")
	assert.NoError(t, err)
	assert.Equal(t, "c-parent", c.ParentCommentID)
}

func TestService_AddComment_ParentFromOtherPost(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	p := &Post{ID: "p-1", UserID: 2}
	repo.On("GetPost", mock.Anything, "p-1").Return(p, nil)
	repo.On("GetComment", mock.Anything, "c-other").Return(&PostComment{ID: "c-other", PostID: "p-9"}, nil)

	_, err := svc.AddComment(context.Background(), 1, "p-1", "hi", "c-other")
	assert.ErrorIs(t, err, ErrInvalidParent)

	repo.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
}

func TestService_AddComment_MissingParent(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	p := &Post{ID: "p-1", UserID: 2}
	repo.On("GetPost", mock.Anything, "p-1").Return(p, nil)
	repo.On("GetComment", mock.Anything, "c-missing").Return(nil, nil)

	_, err := svc.AddComment(context.Background(), 1, "p-1", "hi", "c-missing")
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestService_AddComment_OwnPostDoesNotNotify(t *testing.T) {
	svc, repo, _, _, sender := newTestService()

	p := &Post{ID: "p-1", UserID: 1}
	repo.On("GetPost", mock.Anything, "p-1").Return(p, nil)
	repo.On("CreateComment", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.AddComment(context.Background(), 1, "p-1", "note to self", "")
	assert.NoError(t, err)

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
