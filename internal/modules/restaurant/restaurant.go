package restaurant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("restaurant not found")

// Restaurant is the minimal projection the social features need: a stable
// id to tag activity with and a display name for notification text.
type Restaurant struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	Address   string    `gorm:"column:address" json:"address,omitempty"`
	Cuisine   string    `gorm:"column:cuisine" json:"cuisine,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Restaurant) TableName() string { return "restaurants" }

// Directory looks up restaurants by id.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) RestaurantName(ctx context.Context, id string) (string, error) {
	var r Restaurant
	err := d.db.WithContext(ctx).Select("name").Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get restaurant: %w", err)
	}
	return r.Name, nil
}
