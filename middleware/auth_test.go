package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(AuthMiddleware(secret))
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString(ctx.Locals("subject").(string))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	app := newGuardedApp("s3cret")

	valid, err := IssueToken("s3cret", "ops", time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken("s3cret", "ops", -time.Hour)
	require.NoError(t, err)
	foreign, err := IssueToken("other", "ops", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, 200},
		{"missing", "", 401},
		{"malformed", "Token " + valid, 401},
		{"expired", "Bearer " + expired, 401},
		{"wrong secret", "Bearer " + foreign, 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestIssueTokenNeedsSecret(t *testing.T) {
	_, err := IssueToken("", "ops", time.Hour)
	assert.Error(t, err)
}
