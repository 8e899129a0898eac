package repository

import (
	"context"

	"moim/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClapRepository is the toggle-and-count engine behind claps, instantiated
// for feeds and for comments. A (user, target) pair holds at most one clap
// row; the row's existence is the whole state.
type ClapRepository interface {
	// ToggleFeedClap flips the clap state for (userID, feedID) and returns
	// the new state: true means the user now claps the feed.
	ToggleFeedClap(ctx context.Context, userID, feedID uint) (bool, error)
	ToggleCommentClap(ctx context.Context, userID, commentID uint) (bool, error)

	// ListFeedClappers returns ids of users currently clapping the feed,
	// ordered by when they clapped (oldest first).
	ListFeedClappers(ctx context.Context, feedID uint) ([]uint, error)
	ListCommentClappers(ctx context.Context, commentID uint) ([]uint, error)
}

type clapRepository struct {
	db *gorm.DB
}

// NewClapRepository creates a new ClapRepository
func NewClapRepository(db *gorm.DB) ClapRepository {
	return &clapRepository{db: db}
}

func (r *clapRepository) ToggleFeedClap(ctx context.Context, userID, feedID uint) (bool, error) {
	return r.toggle(ctx, &models.FeedClap{UserID: userID, FeedID: feedID},
		"user_id = ? AND feed_id = ?", userID, feedID)
}

func (r *clapRepository) ToggleCommentClap(ctx context.Context, userID, commentID uint) (bool, error) {
	return r.toggle(ctx, &models.CommentClap{UserID: userID, CommentID: commentID},
		"user_id = ? AND comment_id = ?", userID, commentID)
}

// toggle deletes the clap row if present, otherwise inserts it guarded by
// the unique (user, target) index. Two concurrent inserts can both pass
// the delete step; ON CONFLICT DO NOTHING makes the second one insert
// zero rows, which surfaces as a Conflict so the first writer's state
// stands.
func (r *clapRepository) toggle(ctx context.Context, row interface{}, cond string, args ...interface{}) (bool, error) {
	var clapped bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where(cond, args...).Delete(row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			clapped = false
			return nil
		}

		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewConflictError("Clap was toggled by a concurrent request")
		}
		clapped = true
		return nil
	})
	return clapped, err
}

func (r *clapRepository) ListFeedClappers(ctx context.Context, feedID uint) ([]uint, error) {
	var userIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.FeedClap{}).
		Where("feed_id = ?", feedID).
		Order("created_at ASC, id ASC").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (r *clapRepository) ListCommentClappers(ctx context.Context, commentID uint) ([]uint, error) {
	var userIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.CommentClap{}).
		Where("comment_id = ?", commentID).
		Order("created_at ASC, id ASC").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}
