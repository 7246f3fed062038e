package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gameswap/gameswap/internal/session"
)

// SessionCookie is the name of the session id cookie.
const SessionCookie = "sid"

// SessionAuth resolves the session cookie to an authenticated actor and
// stores the user id in c.Locals("user_id"). Requests without a valid
// session are rejected with 401.
func SessionAuth(sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(SessionCookie)
		if sid == "" {
			return fiber.NewError(http.StatusUnauthorized, "not authenticated")
		}

		userID, err := sessions.Get(c.UserContext(), sid)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return fiber.NewError(http.StatusUnauthorized, "not authenticated")
			}
			return fiber.NewError(http.StatusInternalServerError, "session lookup failed")
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
