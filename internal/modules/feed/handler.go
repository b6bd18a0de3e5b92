package feed

import (
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
	g := protected.Group("/feed")
	{
		g.GET("", h.GetFeed)
		g.GET("/activity/:user_id", h.GetUserActivity)
	}
}

func (h *Handler) GetFeed(c *gin.Context) {
	viewerID := c.GetInt64("user_id")
	if viewerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	filters := Filters{
		FollowingOnly: c.Query("following_only") == "true",
		RestaurantID:  c.Query("restaurant_id"),
		HasImages:     c.Query("has_images") == "true",
	}
	if s := c.Query("min_rating"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			filters.MinRating = v
		}
	}

	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	page, err := h.service.GetFeed(c.Request.Context(), viewerID, filters, limit, offset)
	if err != nil {
		// Feed reads degrade to an empty page rather than breaking the app.
		c.Error(err)
		response.Success(c, http.StatusOK, Page{Items: []ActivityItem{}})
		return
	}

	response.Success(c, http.StatusOK, page)
}

func (h *Handler) GetUserActivity(c *gin.Context) {
	viewerID := c.GetInt64("user_id")
	if viewerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	actorID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || actorID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	limit := queryInt(c, "limit", 20)

	items, err := h.service.GetUserActivity(c.Request.Context(), viewerID, actorID, limit)
	if err != nil {
		c.Error(err)
		response.Success(c, http.StatusOK, gin.H{"items": []ActivityItem{}})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"items": items})
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
