package service

import (
	"context"
	"strings"
	"testing"

	"moim/internal/models"
	"moim/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// feedRepoStub is a stub for repository.FeedRepository.
type feedRepoStub struct {
	createFn     func(context.Context, *models.Feed) error
	getByIDFn    func(context.Context, uint, uint) (*models.Feed, error)
	listFn       func(context.Context, int, int, uint) ([]*models.Feed, error)
	listByUserFn func(context.Context, uint, int, int, uint) ([]*models.Feed, error)
	updateFn     func(context.Context, *models.Feed) error
	deleteFn     func(context.Context, uint) error
}

func (s *feedRepoStub) WithTx(tx *gorm.DB) repository.FeedRepository { return s }
func (s *feedRepoStub) Create(ctx context.Context, feed *models.Feed) error {
	return s.createFn(ctx, feed)
}
func (s *feedRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Feed, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *feedRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Feed, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *feedRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Feed, error) {
	return s.listByUserFn(ctx, userID, limit, offset, currentUserID)
}
func (s *feedRepoStub) Update(ctx context.Context, feed *models.Feed) error {
	return s.updateFn(ctx, feed)
}
func (s *feedRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopFeedRepo() *feedRepoStub {
	return &feedRepoStub{
		createFn:  func(_ context.Context, _ *models.Feed) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Feed, error) { return &models.Feed{}, nil },
		listFn: func(_ context.Context, _, _ int, _ uint) ([]*models.Feed, error) {
			return nil, nil
		},
		listByUserFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Feed, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Feed) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByFeedFn func(context.Context, uint, int, int) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByFeed(ctx context.Context, feedID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByFeedFn(ctx, feedID, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByFeedFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopFeedRepo(), testLogger())
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, FeedID: 1})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  1,
			FeedID:  1,
			Content: strings.Repeat("x", maxCommentLen+1),
		})
		assertValidationError(t, err)
	})

	t.Run("missing feed", func(t *testing.T) {
		t.Parallel()
		feedRepo := noopFeedRepo()
		feedRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Feed, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc2 := NewCommentService(noopCommentRepo(), feedRepo, testLogger())
		_, err := svc2.CreateComment(ctx, CreateCommentInput{UserID: 1, FeedID: 99, Content: "hi"})
		assertNotFoundError(t, err)
	})
}

func TestCommentService_CreateComment_Success(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 42
		return nil
	}
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, Content: "hello", UserID: 1, FeedID: 1}, nil
	}

	svc := NewCommentService(commentRepo, noopFeedRepo(), testLogger())
	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:  1,
		FeedID:  1,
		Content: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), comment.ID)
	assert.Equal(t, "hello", comment.Content)
}

func TestCommentService_ListComments_Cursor(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.listByFeedFn = func(_ context.Context, _ uint, limit, offset int) ([]*models.Comment, error) {
		assert.Equal(t, CommentPageSize, limit)
		assert.Equal(t, 20, offset)
		return []*models.Comment{{ID: 21}, {ID: 22}}, nil
	}

	svc := NewCommentService(commentRepo, noopFeedRepo(), testLogger())
	comments, next, err := svc.ListComments(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, 22, next)
}

func TestCommentService_ListComments_NegativeCursorClamped(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.listByFeedFn = func(_ context.Context, _ uint, limit, offset int) ([]*models.Comment, error) {
		assert.Zero(t, offset)
		return nil, nil
	}

	svc := NewCommentService(commentRepo, noopFeedRepo(), testLogger())
	_, next, err := svc.ListComments(context.Background(), 1, -5)
	require.NoError(t, err)
	assert.Zero(t, next)
}

func TestCommentService_UpdateComment_Ownership(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, Content: "original", UserID: 7}, nil
	}

	svc := NewCommentService(commentRepo, noopFeedRepo(), testLogger())
	_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{
		UserID:    8,
		CommentID: 1,
		Content:   "new",
	})
	assertUnauthorizedError(t, err)
}

func TestCommentService_UpdateComment_Success(t *testing.T) {
	t.Parallel()

	var saved *models.Comment
	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		if saved != nil {
			return saved, nil
		}
		return &models.Comment{ID: id, Content: "original", UserID: 7}, nil
	}
	commentRepo.updateFn = func(_ context.Context, c *models.Comment) error {
		saved = c
		return nil
	}

	svc := NewCommentService(commentRepo, noopFeedRepo(), testLogger())
	comment, err := svc.UpdateComment(context.Background(), UpdateCommentInput{
		UserID:    7,
		CommentID: 1,
		Content:   "new",
	})
	require.NoError(t, err)
	assert.Equal(t, "new", comment.Content)
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	t.Run("non-owner rejected", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 7}, nil
		}
		svc := NewCommentService(commentRepo, noopFeedRepo(), testLogger())
		_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 8, CommentID: 1})
		assertUnauthorizedError(t, err)
	})

	t.Run("missing comment", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewCommentService(commentRepo, noopFeedRepo(), testLogger())
		_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 7, CommentID: 1})
		assertNotFoundError(t, err)
	})

	t.Run("owner deletes", func(t *testing.T) {
		t.Parallel()
		deleted := false
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 7, FeedID: 3}, nil
		}
		commentRepo.deleteFn = func(_ context.Context, id uint) error {
			deleted = true
			return nil
		}
		svc := NewCommentService(commentRepo, noopFeedRepo(), testLogger())
		_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 7, CommentID: 1})
		require.NoError(t, err)
		assert.True(t, deleted)
	})
}
