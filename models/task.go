package models

import "time"

// Task is a user-defined self-improvement focus point, rated per match.
type Task struct {
	ID          string  `gorm:"primaryKey" json:"id"`
	UserID      string  `gorm:"index;not null" json:"user_id"`
	Title       string  `gorm:"not null" json:"title"`
	Description *string `json:"description,omitempty"`
	SortOrder   int     `gorm:"default:0" json:"sort_order"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
