package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	// Signup issues a token that works on protected routes.
	resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"nickname": "newbie",
		"email":    "newbie@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
		User  struct {
			ID       uint   `json:"id"`
			Nickname string `json:"nickname"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	assert.Equal(t, "newbie", body.User.Nickname)

	resp = doRequest(t, app, http.MethodPost, "/api/feeds", "Bearer "+body.Token, fiber.Map{
		"kind":    "indoor",
		"content": "first post",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Duplicate email conflicts.
	resp = doRequest(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"nickname": "copycat",
		"email":    "newbie@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login with the right password succeeds.
	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "newbie@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)

	// Wrong password fails without leaking which part was wrong.
	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "newbie@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Unknown email fails the same way.
	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "ghost@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	cases := []struct {
		name string
		body fiber.Map
	}{
		{"missing fields", fiber.Map{"nickname": "a"}},
		{"bad email", fiber.Map{"nickname": "a", "email": "not-an-email", "password": "password123"}},
		{"short password", fiber.Map{"nickname": "a", "email": "a@example.com", "password": "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestProtectedRoute_RejectsBadTokens(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	t.Run("garbage token", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/feeds", "Bearer not-a-jwt", fiber.Map{
			"kind": "indoor", "content": "hi",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/feeds", "token-without-scheme", fiber.Map{
			"kind": "indoor", "content": "hi",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLivenessCheck(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadinessCheck(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	// SQLite is reachable; Redis is absent but absence is not failure.
	resp := doRequest(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
			Redis    string `json:"redis"`
		} `json:"checks"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks.Database)
	assert.Equal(t, "unavailable", body.Checks.Redis)
}
