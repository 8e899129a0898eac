package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"moim/internal/config"
	"moim/internal/database"
	"moim/internal/middleware"
	"moim/internal/models"
	"moim/internal/repository"
	"moim/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-0123456789-0123456789-01"

// newTestServer builds a Server on a fresh in-memory SQLite database and
// registers the full route table. Prometheus middleware stays nil so tests
// never register duplicate collectors.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret: testJWTSecret,
		Env:       "test",
	}

	feedRepo := repository.NewFeedRepository(db)
	hashtagRepo := repository.NewHashtagRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	clapRepo := repository.NewClapRepository(db)

	log := middleware.Logger
	s := &Server{
		config:         cfg,
		db:             db,
		userRepo:       repository.NewUserRepository(db),
		feedRepo:       feedRepo,
		hashtagRepo:    hashtagRepo,
		commentRepo:    commentRepo,
		clapRepo:       clapRepo,
		feedService:    service.NewFeedService(db, feedRepo, hashtagRepo, log),
		commentService: service.NewCommentService(commentRepo, feedRepo, log),
		clapService:    service.NewClapService(clapRepo, feedRepo, commentRepo, log),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app, db
}

func createUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Nickname: nickname,
		Email:    nickname + "@example.com",
		Password: string(hashed),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func bearerToken(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Nickname)
	require.NoError(t, err)
	return "Bearer " + token
}

// doRequest issues an HTTP request against the test app. An empty token
// sends the request anonymously.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
