package middleware

import (
	"bytes"
	"context"
	"everywrite/models"
	"everywrite/state"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct{}

func (s *stubUsers) Register(ctx context.Context, user *models.User) bool { return true }

func (s *stubUsers) Login(ctx context.Context, email, password string) (*models.User, error) {
	return &models.User{Email: email, Username: "tester"}, nil
}

func (s *stubUsers) IsEmailTaken(ctx context.Context, email string) (bool, error) { return false, nil }

func (s *stubUsers) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func TestLoginRequired(t *testing.T) {
	auth := state.NewAuthState(&stubUsers{}, nil, nil)

	app := fiber.New()
	app.Use(LoginRequired(auth))
	app.Get("/who", func(c *fiber.Ctx) error {
		return c.SendString(GetUserEmail(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/who", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	require.True(t, auth.Login(context.Background(), "me@example.com", "pw"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/who", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", body.String())
}

func TestStructuredLogger_RequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	app := fiber.New()
	app.Use(StructuredLogger(logger), Metrics(), Security())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	generated := resp.Header.Get("X-Request-ID")
	_, err = uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, logs.String(), "request completed")

	// A valid incoming id is kept, anything else is replaced
	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", given)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, given, resp.Header.Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get("X-Request-ID"))
	assert.Contains(t, logs.String(), "request error")
}
