package post

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"flavorfeed/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/posts")
	{
		g.POST("", h.CreatePost)
		g.GET("/user/:user_id", h.GetUserPosts)
		g.POST("/:id/like", h.ToggleLike)
		g.POST("/:id/comments", h.AddComment)
		g.GET("/:id/comments", h.ListComments)
	}
}

func (h *Handler) CreatePost(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	p, err := h.service.CreatePost(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyPost):
			response.Error(c, http.StatusBadRequest, "EMPTY_POST", "Post needs content, images or a video")
		case errors.Is(err, ErrInvalidVisibility):
			response.Error(c, http.StatusBadRequest, "INVALID_VISIBILITY", "Invalid visibility")
		default:
			response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create post")
		}
		return
	}

	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) GetUserPosts(c *gin.Context) {
	viewerID := c.GetInt64("user_id")
	if viewerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || targetID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	posts, err := h.service.GetUserPosts(c.Request.Context(), targetID, limit, offset)
	if err != nil {
		c.Error(err)
		response.Success(c, http.StatusOK, gin.H{"posts": []Post{}})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"posts": posts})
}

func (h *Handler) ToggleLike(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	liked, err := h.service.ToggleLike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Post not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LIKE_FAILED", "Failed to toggle like")
		return
	}

	response.Success(c, http.StatusOK, ToggleLikeResponse{Liked: liked})
}

func (h *Handler) AddComment(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, c.Param("id"), req.Content, req.ParentCommentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPostNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Post not found")
		case errors.Is(err, ErrInvalidParent):
			response.Error(c, http.StatusBadRequest, "INVALID_PARENT", "Parent comment does not belong to this post")
		default:
			response.Error(c, http.StatusInternalServerError, "COMMENT_FAILED", "Failed to add comment")
		}
		return
	}

	response.Success(c, http.StatusCreated, comment)
}

func (h *Handler) ListComments(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	limit := queryInt(c, "limit", 50)

	comments, err := h.service.ListComments(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.Error(err)
		response.Success(c, http.StatusOK, gin.H{"comments": []PostComment{}})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"comments": comments})
}

func queryInt(c *gin.Context, name string, def int) int {
	s := c.Query(name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return def
	}
	return v
}
