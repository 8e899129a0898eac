package repository

import (
	"testing"

	"moim/internal/database"
	"moim/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory SQLite database with the full schema.
// Each test gets its own database so tests can run in parallel.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func createTestUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	user := &models.User{
		Nickname: nickname,
		Email:    nickname + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestFeed(t *testing.T, db *gorm.DB, userID uint) *models.Feed {
	t.Helper()
	feed := &models.Feed{
		Kind:    models.FeedKindIndoor,
		Content: "test feed",
		UserID:  userID,
	}
	require.NoError(t, db.Create(feed).Error)
	return feed
}

func createTestComment(t *testing.T, db *gorm.DB, userID, feedID uint) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Content: "test comment",
		UserID:  userID,
		FeedID:  feedID,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
