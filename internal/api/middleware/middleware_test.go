package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeKeys struct{}

func (fakeKeys) Create(ctx context.Context, userID int64, label string) (*models.ApiKey, error) {
	return nil, nil
}

func (fakeKeys) GetUserID(ctx context.Context, apiKey string) (int64, error) {
	if apiKey == "good" {
		return 7, nil
	}
	return 0, errors.New("key doesn't exist")
}

func (fakeKeys) List(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	return nil, nil
}

func (fakeKeys) RemoveAPIKey(ctx context.Context, userID, keyID int64) error {
	return nil
}

func newAuthApp() *fiber.App {
	cfg := config.Config{SecretKey: testSecret, CookieName: "session"}
	app := fiber.New()
	app.Get("/me", NewAuthMiddleware(cfg, fakeKeys{}).AuthMiddleware(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, "42", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		header string
		cookie string
		status int
	}{
		{name: "no credentials", target: "/me", status: fiber.StatusUnauthorized},
		{name: "bearer", target: "/me", header: "Bearer " + token, status: fiber.StatusOK},
		{name: "cookie", target: "/me", cookie: token, status: fiber.StatusOK},
		{name: "bad bearer", target: "/me", header: "Bearer nope", status: fiber.StatusUnauthorized},
		{name: "api key", target: "/me?api_key=good", status: fiber.StatusOK},
		{name: "bad api key", target: "/me?api_key=bad", status: fiber.StatusUnauthorized},
	}

	app := newAuthApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.Header.Set("Cookie", "session="+tt.cookie)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestCronSecret(t *testing.T) {
	app := fiber.New()
	app.Post("/cron", CronSecret("s3cret"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/cron", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("POST", "/cron", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("POST", "/cron", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCronSecretEmptyRejects(t *testing.T) {
	app := fiber.New()
	app.Post("/cron", CronSecret(""), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/cron", nil)
	req.Header.Set("Authorization", "Bearer ")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
