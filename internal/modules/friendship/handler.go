package friendship

import (
	"errors"
	"net/http"

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
	g := protected.Group("/friendships")
	{
		g.POST("", h.Request)
		g.POST("/:id/respond", h.Respond)
		g.PATCH("/:id/close-friend", h.SetCloseFriend)
		g.GET("/friends", h.Friends)
		g.GET("/pending", h.Pending)
	}
}

func (h *Handler) Request(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req RequestFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	f, err := h.service.Request(c.Request.Context(), userID, req.AddresseeID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfRequest):
			response.Error(c, http.StatusBadRequest, "SELF_REQUEST", "Cannot send friend request to yourself")
		case errors.Is(err, ErrDuplicate):
			response.Error(c, http.StatusConflict, "DUPLICATE", "Friendship already exists")
		default:
			response.Error(c, http.StatusInternalServerError, "REQUEST_FAILED", "Failed to send friend request")
		}
		return
	}

	response.Success(c, http.StatusCreated, f)
}

func (h *Handler) Respond(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	f, err := h.service.Respond(c.Request.Context(), c.Param("id"), userID, Status(req.Outcome))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Friend request not found")
		case errors.Is(err, ErrNotAddressee):
			response.Error(c, http.StatusForbidden, "NOT_ADDRESSEE", "Only the addressee can respond")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Friend request already resolved")
		default:
			response.Error(c, http.StatusInternalServerError, "RESPOND_FAILED", "Failed to respond to friend request")
		}
		return
	}

	response.Success(c, http.StatusOK, f)
}

func (h *Handler) SetCloseFriend(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req CloseFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.SetCloseFriend(c.Request.Context(), c.Param("id"), userID, req.CloseFriend); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Friendship not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update close friend flag")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"close_friend": req.CloseFriend})
}

func (h *Handler) Friends(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	friends, err := h.service.FriendsOf(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		response.Success(c, http.StatusOK, gin.H{"friends": []FriendEntry{}})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"friends": friends})
}

func (h *Handler) Pending(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	pending, err := h.service.PendingIncoming(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		response.Success(c, http.StatusOK, gin.H{"requests": []PendingEntry{}})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"requests": pending})
}
