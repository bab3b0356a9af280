package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	want := Session{UserID: "u-1", Role: models.RoleWarehouse, Name: "Store Keeper"}
	raw, err := GenerateToken(secret, want, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(secret, raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ParseToken("another-secret-another-secret-xx", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredAndUnknownRole(t *testing.T) {
	raw, err := GenerateToken(secret, Session{UserID: "u-1", Role: models.RoleAdmin}, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	raw, err = GenerateToken(secret, Session{UserID: "u-1", Role: "pilot"}, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(secret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddlewareAndRoles(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Use(JWTMiddleware(secret))
	app.Get("/me", MeHandler())
	app.Get("/admin", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error { return c.SendString("ok") })

	token, err := GenerateToken(secret, Session{UserID: "u-2", Role: models.RoleEngineer, Name: "Eng"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"no header", "/me", "", fiber.StatusUnauthorized},
		{"bad scheme", "/me", "Token " + token, fiber.StatusUnauthorized},
		{"garbage", "/me", "Bearer abc", fiber.StatusUnauthorized},
		{"me", "/me", "Bearer " + token, fiber.StatusOK},
		{"wrong role", "/admin", "Bearer " + token, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
