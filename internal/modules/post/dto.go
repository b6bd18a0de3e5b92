package post

import "time"

type CreatePostRequest struct {
	Content          string     `json:"content"`
	Images           []string   `json:"images"`
	VideoURL         string     `json:"video_url"`
	RestaurantID     string     `json:"restaurant_id"`
	DishID           string     `json:"dish_id"`
	OverallRating    *float64   `json:"overall_rating" binding:"omitempty,gte=1,lte=5"`
	DishRating       *float64   `json:"dish_rating" binding:"omitempty,gte=1,lte=5"`
	ServiceRating    *float64   `json:"service_rating" binding:"omitempty,gte=1,lte=5"`
	AtmosphereRating *float64   `json:"atmosphere_rating" binding:"omitempty,gte=1,lte=5"`
	ValueRating      *float64   `json:"value_rating" binding:"omitempty,gte=1,lte=5"`
	VisitDate        *time.Time `json:"visit_date"`
	MealType         string     `json:"meal_type"`
	Occasion         string     `json:"occasion"`
	PartySize        *int       `json:"party_size" binding:"omitempty,gte=1"`
	Tags             []string   `json:"tags"`
	Hashtags         []string   `json:"hashtags"`
	Visibility       string     `json:"visibility" binding:"omitempty,oneof=public friends private"`
}

type AddCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentCommentID string `json:"parent_comment_id"`
}

type ToggleLikeResponse struct {
	Liked bool `json:"liked"`
}
