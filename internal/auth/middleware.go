package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

const ctxSessionKey = "session"

func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperr.Unauthorized("missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return apperr.Unauthorized("Authorization must be 'Bearer <token>'")
		}

		s, err := ParseToken(secret, parts[1])
		if err != nil {
			return apperr.Unauthorized(err.Error())
		}
		c.Locals(ctxSessionKey, s)
		return c.Next()
	}
}

func SessionFrom(c *fiber.Ctx) (Session, bool) {
	s, ok := c.Locals(ctxSessionKey).(Session)
	return s, ok
}

// WithSession stores s on the request, for routes mounted without the JWT
// middleware such as tests.
func WithSession(c *fiber.Ctx, s Session) {
	c.Locals(ctxSessionKey, s)
}

// MustSession returns the session or an unauthorized error.
func MustSession(c *fiber.Ctx) (Session, error) {
	s, ok := SessionFrom(c)
	if !ok {
		return Session{}, apperr.Unauthorized("no session")
	}
	return s, nil
}

func RequireRole(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := MustSession(c)
		if err != nil {
			return err
		}
		for _, r := range allowed {
			if r == s.Role {
				return c.Next()
			}
		}
		return apperr.Forbidden("role %s may not access this resource", s.Role)
	}
}
