package models

import (
	"time"

	"gorm.io/gorm"
)

// Feed kinds. The kind discriminant is fixed at creation; updates never
// change it.
const (
	FeedKindIndoor  = "indoor"
	FeedKindOutdoor = "outdoor"
)

// Feed represents one entry in the content stream. Outdoor feeds carry
// geospatial fields; indoor feeds use only the base columns.
type Feed struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Kind    string `gorm:"not null;index" json:"kind"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`

	// Outdoor-only fields; nil/empty for indoor feeds.
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	Address   string   `json:"address,omitempty"`
	PlaceName string   `json:"place_name,omitempty"`

	Hashtags []Hashtag `gorm:"many2many:feed_hashtags" json:"hashtags"`

	// ClapsCount is not persisted; computed at query time
	ClapsCount int `gorm:"->" json:"claps_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Clapped indicates whether the current requesting user clapped this feed (computed)
	Clapped   bool           `gorm:"->" json:"clapped"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsOutdoor reports whether the feed carries location fields.
func (f *Feed) IsOutdoor() bool {
	return f.Kind == FeedKindOutdoor
}

// ValidFeedKind reports whether kind is a known discriminant value.
func ValidFeedKind(kind string) bool {
	return kind == FeedKindIndoor || kind == FeedKindOutdoor
}
