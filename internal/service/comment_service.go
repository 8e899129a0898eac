package service

import (
	"context"
	"errors"
	"log/slog"

	"moim/internal/models"
	"moim/internal/repository"

	"gorm.io/gorm"
)

// CommentPageSize is the fixed page size for comment listings.
const CommentPageSize = 10

const maxCommentLen = 10000

type CommentService struct {
	comments repository.CommentRepository
	feeds    repository.FeedRepository
	log      *slog.Logger
}

type CreateCommentInput struct {
	UserID  uint
	FeedID  uint
	Content string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	comments repository.CommentRepository,
	feeds repository.FeedRepository,
	log *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		feeds:    feeds,
		log:      log,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.feeds.GetByID(ctx, in.FeedID, 0); err != nil {
		return nil, feedError(err, in.FeedID)
	}

	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		FeedID:  in.FeedID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.comments.GetByID(ctx, comment.ID)
}

// ListComments returns one page of the feed's thread, oldest first, and
// the next cursor.
func (s *CommentService) ListComments(ctx context.Context, feedID uint, cursor int) ([]*models.Comment, int, error) {
	if _, err := s.feeds.GetByID(ctx, feedID, 0); err != nil {
		return nil, 0, feedError(err, feedID)
	}
	if cursor < 0 {
		cursor = 0
	}
	comments, err := s.comments.ListByFeed(ctx, feedID, CommentPageSize, cursor)
	if err != nil {
		return nil, 0, err
	}
	return comments, cursor + len(comments), nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, commentError(err, in.CommentID)
	}

	if comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment.Content = in.Content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.comments.GetByID(ctx, comment.ID)
}

// DeleteComment removes the comment and cascades its claps.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, commentError(err, in.CommentID)
	}

	if comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only delete your own comments")
	}

	if err := s.comments.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "comment deleted",
		slog.Uint64("comment_id", uint64(in.CommentID)),
		slog.Uint64("feed_id", uint64(comment.FeedID)),
	)
	return comment, nil
}

func commentError(err error, commentID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Comment", commentID)
	}
	return err
}
