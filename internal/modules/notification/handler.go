package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"flavorfeed/internal/pkg/response"
)

type Handler struct {
	service    *Service
	dispatcher *Dispatcher
}

func NewHandler(service *Service, dispatcher *Dispatcher) *Handler {
	return &Handler{service: service, dispatcher: dispatcher}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/notifications")
	{
		g.GET("", h.List)
		g.GET("/unread-count", h.UnreadCount)
		g.PATCH("/:id/read", h.MarkRead)
		g.POST("/read-all", h.MarkAllRead)

		g.POST("/send", h.Send)
		g.POST("/schedule", h.Schedule)
		g.POST("/send-bulk", h.SendBulk)

		prefs := g.Group("/preferences")
		{
			prefs.GET("", h.GetPreferences)
			prefs.PATCH("", h.UpdatePreferences)
		}

		devices := g.Group("/device-tokens")
		{
			devices.POST("", h.RegisterDeviceToken)
			devices.DELETE("/:id", h.DeactivateDeviceToken)
		}
	}
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	unreadOnly := c.Query("unread_only") == "true"

	list, unread, err := h.service.GetUserNotifications(c.Request.Context(), userID, limit, offset, unreadOnly)
	if err != nil {
		// Read path degrades to an empty result; the app stays usable.
		c.Error(err)
		response.Success(c, http.StatusOK, ListResponse{Notifications: []Notification{}})
		return
	}
	if list == nil {
		list = []Notification{}
	}

	response.Success(c, http.StatusOK, ListResponse{Notifications: list, UnreadCount: unread})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		response.Success(c, http.StatusOK, UnreadCountResponse{UnreadCount: 0})
		return
	}

	response.Success(c, http.StatusOK, UnreadCountResponse{UnreadCount: count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to mark as read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "read"})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to mark as read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "all_read"})
}

func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.dispatcher.Send(c.Request.Context(), req.UserID, req.Type, req.Variables, req.Data); err != nil {
		if errors.Is(err, ErrUnknownTemplateType) {
			response.Error(c, http.StatusBadRequest, "UNKNOWN_TYPE", "Unknown notification type")
			return
		}
		response.Error(c, http.StatusInternalServerError, "SEND_FAILED", "Failed to send notification")
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"status": "sent"})
}

func (h *Handler) Schedule(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	err := h.dispatcher.Schedule(c.Request.Context(), req.UserID, req.Type, req.ScheduledFor, req.Variables)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownTemplateType):
			response.Error(c, http.StatusBadRequest, "UNKNOWN_TYPE", "Unknown notification type")
		case errors.Is(err, ErrInvalidScheduleTime):
			response.Error(c, http.StatusBadRequest, "INVALID_SCHEDULE", "Scheduled time must be in the future")
		default:
			response.Error(c, http.StatusInternalServerError, "SCHEDULE_FAILED", "Failed to schedule notification")
		}
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"status": "scheduled"})
}

func (h *Handler) SendBulk(c *gin.Context) {
	var req BulkSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.dispatcher.SendBulk(c.Request.Context(), req.UserIDs, req.Type, req.Variables, req.BatchSize); err != nil {
		if errors.Is(err, ErrUnknownTemplateType) {
			response.Error(c, http.StatusBadRequest, "UNKNOWN_TYPE", "Unknown notification type")
			return
		}
		response.Error(c, http.StatusInternalServerError, "SEND_FAILED", "Failed to send notifications")
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"status": "sent", "count": len(req.UserIDs)})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	p, err := h.service.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get preferences")
		return
	}

	response.Success(c, http.StatusOK, p)
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	p, err := h.service.UpdatePreferences(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrUnknownTemplateType) {
			response.Error(c, http.StatusBadRequest, "UNKNOWN_TYPE", "Unknown notification type in types list")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update preferences")
		return
	}

	response.Success(c, http.StatusOK, p)
}

func (h *Handler) RegisterDeviceToken(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req RegisterDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	t, err := h.service.RegisterDeviceToken(c.Request.Context(), userID, req.Token, req.Platform, req.DeviceName)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "SAVE_FAILED", "Failed to register device token")
		return
	}

	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) DeactivateDeviceToken(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid device token ID")
		return
	}

	if err := h.service.DeactivateDeviceToken(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, ErrDeviceTokenNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Device token not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to deactivate device token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "deactivated"})
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
