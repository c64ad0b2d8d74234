// Package middleware provides request middleware for the HTTP layer.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"featreq/internal/config"
)

const usernameKey = "username"

// Identity extracts the caller's username from the trusted header into
// request locals. The value is not validated against any user directory;
// the core stores it as-is for audit trails. Mutating operations reject
// an empty username themselves.
func Identity(cfg *config.Config) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(usernameKey, c.Get(cfg.UsernameHeader))
		return c.Next()
	}
}

// Username returns the caller's username for the request, or "".
func Username(c fiber.Ctx) string {
	user, _ := c.Locals(usernameKey).(string)
	return user
}
