// Package service contains the application's business logic. Every
// mutating operation takes the requester id explicitly; authorization is
// decided here, never in the repositories.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"moim/internal/models"
	"moim/internal/repository"

	"gorm.io/gorm"
)

// FeedPageSize is the fixed page size for feed listings. Clients advance
// an offset cursor by the number of items returned and infer the end of
// the list from a short page.
const FeedPageSize = 10

const maxFeedContentLen = 10000

type FeedService struct {
	db    *gorm.DB
	feeds repository.FeedRepository
	tags  repository.HashtagRepository
	log   *slog.Logger
}

type CreateFeedInput struct {
	UserID    uint
	Kind      string
	Content   string
	Lat       *float64
	Lng       *float64
	Address   string
	PlaceName string
	Tags      []string
}

type UpdateFeedInput struct {
	UserID    uint
	FeedID    uint
	Content   string
	Lat       *float64
	Lng       *float64
	Address   string
	PlaceName string
	Tags      []string
}

type DeleteFeedInput struct {
	UserID uint
	FeedID uint
}

func NewFeedService(
	db *gorm.DB,
	feeds repository.FeedRepository,
	tags repository.HashtagRepository,
	log *slog.Logger,
) *FeedService {
	return &FeedService{
		db:    db,
		feeds: feeds,
		tags:  tags,
		log:   log,
	}
}

// GetFeed returns one feed with author, hashtags, counts, and the
// requester's clapped flag (currentUserID may be zero for anonymous reads).
func (s *FeedService) GetFeed(ctx context.Context, feedID, currentUserID uint) (*models.Feed, error) {
	feed, err := s.feeds.GetByID(ctx, feedID, currentUserID)
	if err != nil {
		return nil, feedError(err, feedID)
	}
	return feed, nil
}

// ListFeeds returns one page ordered newest first and the next cursor.
func (s *FeedService) ListFeeds(ctx context.Context, cursor int, currentUserID uint) ([]*models.Feed, int, error) {
	if cursor < 0 {
		cursor = 0
	}
	feeds, err := s.feeds.List(ctx, FeedPageSize, cursor, currentUserID)
	if err != nil {
		return nil, 0, err
	}
	return feeds, cursor + len(feeds), nil
}

// ListFeedsByUser is ListFeeds filtered to one author.
func (s *FeedService) ListFeedsByUser(ctx context.Context, authorID uint, cursor int, currentUserID uint) ([]*models.Feed, int, error) {
	if cursor < 0 {
		cursor = 0
	}
	feeds, err := s.feeds.ListByUser(ctx, authorID, FeedPageSize, cursor, currentUserID)
	if err != nil {
		return nil, 0, err
	}
	return feeds, cursor + len(feeds), nil
}

// CreateFeed persists the feed and its starting tag set as one atomic
// unit: either both the feed row and every association land, or none do.
func (s *FeedService) CreateFeed(ctx context.Context, in CreateFeedInput) (*models.Feed, error) {
	if !models.ValidFeedKind(in.Kind) {
		return nil, models.NewValidationError("Feed kind must be \"indoor\" or \"outdoor\"")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxFeedContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	feed := &models.Feed{
		Kind:    in.Kind,
		Content: in.Content,
		UserID:  in.UserID,
	}
	if in.Kind == models.FeedKindOutdoor {
		if in.Lat == nil || in.Lng == nil {
			return nil, models.NewValidationError("Outdoor feeds require lat and lng")
		}
		feed.Lat = in.Lat
		feed.Lng = in.Lng
		feed.Address = in.Address
		feed.PlaceName = in.PlaceName
	}

	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.feeds.WithTx(tx).Create(ctx, feed); err != nil {
			return err
		}
		return s.tags.WithTx(tx).AttachNew(ctx, feed.ID, tags)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "feed created",
		slog.Uint64("feed_id", uint64(feed.ID)),
		slog.String("kind", feed.Kind),
		slog.Int("tags", len(tags)),
	)

	return s.feeds.GetByID(ctx, feed.ID, in.UserID)
}

// UpdateFeed mutates content and variant-specific fields in place and
// reconciles the tag set, in one transaction. The kind discriminant never
// changes after creation.
func (s *FeedService) UpdateFeed(ctx context.Context, in UpdateFeedInput) (*models.Feed, error) {
	feed, err := s.feeds.GetByID(ctx, in.FeedID, in.UserID)
	if err != nil {
		return nil, feedError(err, in.FeedID)
	}
	if feed.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own feeds")
	}

	if len(in.Content) > maxFeedContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}
	if in.Content != "" {
		feed.Content = in.Content
	}
	if feed.IsOutdoor() {
		if in.Lat != nil {
			feed.Lat = in.Lat
		}
		if in.Lng != nil {
			feed.Lng = in.Lng
		}
		if in.Address != "" {
			feed.Address = in.Address
		}
		if in.PlaceName != "" {
			feed.PlaceName = in.PlaceName
		}
	}

	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.feeds.WithTx(tx).Update(ctx, feed); err != nil {
			return err
		}
		return s.tags.WithTx(tx).Reconcile(ctx, feed.ID, tags)
	})
	if err != nil {
		return nil, err
	}

	return s.feeds.GetByID(ctx, feed.ID, in.UserID)
}

// DeleteFeed removes the feed after an ownership check; the repository
// cascades associations, claps, comments, and comment claps.
func (s *FeedService) DeleteFeed(ctx context.Context, in DeleteFeedInput) error {
	feed, err := s.feeds.GetByID(ctx, in.FeedID, in.UserID)
	if err != nil {
		return feedError(err, in.FeedID)
	}
	if feed.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own feeds")
	}

	if err := s.feeds.Delete(ctx, in.FeedID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "feed deleted", slog.Uint64("feed_id", uint64(in.FeedID)))
	return nil
}

// normalizeTags trims names, rejects empties, and deduplicates while
// preserving the caller's order.
func normalizeTags(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.TrimPrefix(name, "#"))
		if name == "" {
			return nil, models.NewValidationError("Tag names must not be empty")
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	return tags, nil
}

// feedError translates a missing row into the service taxonomy.
func feedError(err error, feedID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Feed", feedID)
	}
	return err
}
