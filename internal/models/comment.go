package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a feed. Comments are flat: there is no
// parent-comment reference, a feed's thread reads as one conversation.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"not null" json:"content"`
	UserID  uint   `gorm:"not null" json:"user_id"`
	FeedID  uint   `gorm:"not null;index" json:"feed_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	Feed    Feed   `gorm:"foreignKey:FeedID" json:"feed,omitempty"`

	// ClapsCount is not persisted; computed at query time
	ClapsCount int `gorm:"->" json:"claps_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
