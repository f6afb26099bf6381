package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Shreyakannapla/stocks-dashboard/internal/auth"
	"github.com/Shreyakannapla/stocks-dashboard/internal/session"
)

// SessionKey is the fiber.Ctx local under which Protected stores the
// resolved *session.Session.
const SessionKey = "session"

// Protected verifies the bearer token and resolves it to a live session.
// Requests with no token, a bad token, or a logged-out session are
// rejected with 401 and a message directing the user to log in.
func Protected(manager *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return missingSession(c)
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return missingSession(c)
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			return missingSession(c)
		}

		s, ok := manager.Get(claims.SessionID)
		if !ok || s.State != session.StateAuthenticated {
			// Token is valid but the session was logged out.
			return missingSession(c)
		}

		c.Locals(SessionKey, s)
		return c.Next()
	}
}

func missingSession(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "missing session: please log in",
	})
}

// CurrentSession pulls the session stored by Protected. The boolean is
// false when the middleware did not run on this route.
func CurrentSession(c *fiber.Ctx) (*session.Session, bool) {
	s, ok := c.Locals(SessionKey).(*session.Session)
	return s, ok
}
