package models

import "time"

// FeedClap represents a user's clap on a feed.
// The combination of UserID and FeedID must be unique; existence of the
// row means "has clapped". Claps are hard deleted on un-clap.
type FeedClap struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_feed" json:"user_id"`
	FeedID    uint      `gorm:"not null;uniqueIndex:idx_user_feed" json:"feed_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Feed Feed `gorm:"foreignKey:FeedID" json:"feed"`
}

// CommentClap represents a user's clap on a comment, with the same
// uniqueness contract as FeedClap.
type CommentClap struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_comment" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_user_comment" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID" json:"user"`
	Comment Comment `gorm:"foreignKey:CommentID" json:"comment"`
}
