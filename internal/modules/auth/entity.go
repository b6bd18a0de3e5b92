package auth

import "time"

// User is an account profile. The password hash never leaves this package.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex" json:"email"`
	Username     string    `gorm:"column:username;uniqueIndex" json:"username"`
	FullName     string    `gorm:"column:full_name" json:"full_name,omitempty"`
	AvatarURL    string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	Bio          string    `gorm:"column:bio" json:"bio,omitempty"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
