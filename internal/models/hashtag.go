package models

import "time"

// Hashtag is a reusable tag string shared across feeds. Rows are created
// lazily on first use and are never deleted by this subsystem, even when
// the last association is removed.
type Hashtag struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	TagName string `gorm:"uniqueIndex;not null" json:"tag_name"`
}

// FeedHashtag is the many-to-many bridge between feeds and hashtags.
// A feed's active tag set is exactly its live association rows.
type FeedHashtag struct {
	FeedID    uint      `gorm:"primaryKey" json:"feed_id"`
	HashtagID uint      `gorm:"primaryKey" json:"hashtag_id"`
	CreatedAt time.Time `json:"created_at"`
}
