package repository

import (
	"context"

	"moim/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HashtagRepository owns hashtag rows and their feed associations.
// Tag names are unique across the system; rows are created on first use
// and never deleted here, so a tag survives losing its last association.
type HashtagRepository interface {
	// WithTx returns a copy bound to the given transaction so tag writes
	// can share an atomic unit with the feed write that triggered them.
	WithTx(tx *gorm.DB) HashtagRepository

	// AttachNew associates every name with the feed, creating hashtag rows
	// as needed. Called at feed creation, where the starting set is empty.
	AttachNew(ctx context.Context, feedID uint, tagNames []string) error

	// Reconcile diffs the feed's live association set against tagNames:
	// stale associations are removed, missing ones attached, shared rows
	// untouched. Calling it twice with the same set is a no-op the second
	// time.
	Reconcile(ctx context.Context, feedID uint, tagNames []string) error

	ListByFeed(ctx context.Context, feedID uint) ([]models.Hashtag, error)
}

type hashtagRepository struct {
	db *gorm.DB
}

// NewHashtagRepository creates a new HashtagRepository
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

func (r *hashtagRepository) WithTx(tx *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: tx}
}

func (r *hashtagRepository) AttachNew(ctx context.Context, feedID uint, tagNames []string) error {
	db := r.db.WithContext(ctx)
	for _, name := range tagNames {
		if err := r.attach(db, feedID, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *hashtagRepository) Reconcile(ctx context.Context, feedID uint, tagNames []string) error {
	db := r.db.WithContext(ctx)

	current, err := r.listByFeed(db, feedID)
	if err != nil {
		return err
	}

	desired := make(map[string]bool, len(tagNames))
	for _, name := range tagNames {
		desired[name] = true
	}

	for _, tag := range current {
		if desired[tag.TagName] {
			// Already associated; leave untouched.
			delete(desired, tag.TagName)
			continue
		}
		// Remove only the association row, never the shared hashtag row.
		if err := db.
			Where("feed_id = ? AND hashtag_id = ?", feedID, tag.ID).
			Delete(&models.FeedHashtag{}).Error; err != nil {
			return err
		}
	}

	for _, name := range tagNames {
		if !desired[name] {
			continue
		}
		if err := r.attach(db, feedID, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *hashtagRepository) ListByFeed(ctx context.Context, feedID uint) ([]models.Hashtag, error) {
	return r.listByFeed(r.db.WithContext(ctx), feedID)
}

func (r *hashtagRepository) listByFeed(db *gorm.DB, feedID uint) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	err := db.
		Joins("JOIN feed_hashtags ON feed_hashtags.hashtag_id = hashtags.id").
		Where("feed_hashtags.feed_id = ?", feedID).
		Order("hashtags.id ASC").
		Find(&tags).Error
	return tags, err
}

// attach looks up or creates the hashtag row for name, then creates the
// association. The association insert tolerates a concurrent duplicate.
func (r *hashtagRepository) attach(db *gorm.DB, feedID uint, name string) error {
	var tag models.Hashtag
	if err := db.Where(models.Hashtag{TagName: name}).FirstOrCreate(&tag).Error; err != nil {
		return err
	}
	return db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.FeedHashtag{FeedID: feedID, HashtagID: tag.ID}).Error
}
