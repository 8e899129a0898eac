package service

import (
	"context"
	"log/slog"

	"moim/internal/repository"
)

// ClapService drives the toggle-and-count engine for both feed and
// comment claps. The count always equals the size of the clapper set;
// there is no separate counter to drift.
type ClapService struct {
	claps    repository.ClapRepository
	feeds    repository.FeedRepository
	comments repository.CommentRepository
	log      *slog.Logger
}

func NewClapService(
	claps repository.ClapRepository,
	feeds repository.FeedRepository,
	comments repository.CommentRepository,
	log *slog.Logger,
) *ClapService {
	return &ClapService{
		claps:    claps,
		feeds:    feeds,
		comments: comments,
		log:      log,
	}
}

// ToggleFeedClap flips the requester's clap on the feed and returns the
// new state. A lost race against a concurrent toggle surfaces as Conflict.
func (s *ClapService) ToggleFeedClap(ctx context.Context, userID, feedID uint) (bool, error) {
	if _, err := s.feeds.GetByID(ctx, feedID, 0); err != nil {
		return false, feedError(err, feedID)
	}
	clapped, err := s.claps.ToggleFeedClap(ctx, userID, feedID)
	if err != nil {
		return false, err
	}
	s.log.DebugContext(ctx, "feed clap toggled",
		slog.Uint64("feed_id", uint64(feedID)),
		slog.Bool("clapped", clapped),
	)
	return clapped, nil
}

// ListFeedClappers returns the users currently clapping the feed, in the
// order they clapped, plus the count. An empty set is not an error; only
// a missing feed is.
func (s *ClapService) ListFeedClappers(ctx context.Context, feedID uint) ([]uint, int, error) {
	if _, err := s.feeds.GetByID(ctx, feedID, 0); err != nil {
		return nil, 0, feedError(err, feedID)
	}
	userIDs, err := s.claps.ListFeedClappers(ctx, feedID)
	if err != nil {
		return nil, 0, err
	}
	return userIDs, len(userIDs), nil
}

func (s *ClapService) ToggleCommentClap(ctx context.Context, userID, commentID uint) (bool, error) {
	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return false, commentError(err, commentID)
	}
	return s.claps.ToggleCommentClap(ctx, userID, commentID)
}

func (s *ClapService) ListCommentClappers(ctx context.Context, commentID uint) ([]uint, int, error) {
	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return nil, 0, commentError(err, commentID)
	}
	userIDs, err := s.claps.ListCommentClappers(ctx, commentID)
	if err != nil {
		return nil, 0, err
	}
	return userIDs, len(userIDs), nil
}
