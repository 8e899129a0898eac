// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"moim/internal/models"

	"gorm.io/gorm"
)

// FeedRepository defines the interface for feed data operations
type FeedRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction
	// so feed writes can join a caller-managed atomic unit.
	WithTx(tx *gorm.DB) FeedRepository

	Create(ctx context.Context, feed *models.Feed) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Feed, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Feed, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Feed, error)
	Update(ctx context.Context, feed *models.Feed) error
	Delete(ctx context.Context, id uint) error
}

// feedRepository implements FeedRepository
type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) WithTx(tx *gorm.DB) FeedRepository {
	return &feedRepository{db: tx}
}

func (r *feedRepository) Create(ctx context.Context, feed *models.Feed) error {
	// Associations are managed explicitly through the hashtag repository.
	return r.db.WithContext(ctx).Omit("Hashtags").Create(feed).Error
}

func (r *feedRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Feed, error) {
	var feed models.Feed
	err := r.applyFeedDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Hashtags").
		First(&feed, id).Error
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

func (r *feedRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Feed, error) {
	var feeds []*models.Feed
	err := r.applyFeedDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Hashtags").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&feeds).Error
	return feeds, err
}

func (r *feedRepository) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Feed, error) {
	var feeds []*models.Feed
	err := r.applyFeedDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Hashtags").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&feeds).Error
	return feeds, err
}

// applyFeedDetails adds subqueries to fetch counts and clapped status in a
// single query. Counts derive strictly from live rows so they can never
// drift from the actual clap/comment sets.
func (r *feedRepository) applyFeedDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "feeds.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.feed_id = feeds.id AND comments.deleted_at IS NULL) AS comments_count, " +
		"(SELECT COUNT(*) FROM feed_claps WHERE feed_claps.feed_id = feeds.id) AS claps_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM feed_claps WHERE feed_claps.feed_id = feeds.id AND feed_claps.user_id = ?) AS clapped", currentUserID)
	}

	return db.Select(selectQuery)
}

func (r *feedRepository) Update(ctx context.Context, feed *models.Feed) error {
	return r.db.WithContext(ctx).Omit("Hashtags", "User").Save(feed).Error
}

// Delete removes the feed and all rows that hang off it: hashtag
// associations, feed claps, comments, and comment claps. Children go
// before the parent, in one transaction, so no orphans survive a partial
// failure. Shared hashtag rows are left in place.
func (r *feedRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feed_id = ?", id).Delete(&models.FeedHashtag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("feed_id = ?", id).Delete(&models.FeedClap{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("comment_id IN (?)", tx.Model(&models.Comment{}).Select("id").Where("feed_id = ?", id)).
			Delete(&models.CommentClap{}).Error; err != nil {
			return err
		}
		if err := tx.Where("feed_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Feed{}, id).Error
	})
}
