package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gameswap/gameswap/internal/middleware"
	"github.com/gameswap/gameswap/internal/session"
	"github.com/gameswap/gameswap/internal/user"
)

// RegisterAuthRoutes wires cookie-session signin/logout endpoints.
func RegisterAuthRoutes(r fiber.Router, users *user.Service, sessions *session.Store, rateLimiter fiber.Handler) {
	signin := func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if req.Email == "" || req.Password == "" {
			return fiber.NewError(http.StatusBadRequest, "missing credentials")
		}

		u, err := users.Authenticate(c.UserContext(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrInvalidCredentials) {
				return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
			}
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}

		sid, err := sessions.Create(c.UserContext(), u.ID)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "could not open session")
		}

		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookie,
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Expires:  time.Now().Add(sessions.TTL()),
		})

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message": "Signed in",
			"user_id": u.ID,
		})
	}

	if rateLimiter != nil {
		r.Post("/signin", rateLimiter, signin)
	} else {
		r.Post("/signin", signin)
	}

	r.Post("/logout", func(c *fiber.Ctx) error {
		if sid := c.Cookies(middleware.SessionCookie); sid != "" {
			if err := sessions.Destroy(c.UserContext(), sid); err != nil {
				return fiber.NewError(http.StatusInternalServerError, "could not close session")
			}
		}
		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			HTTPOnly: true,
			Expires:  time.Unix(0, 0),
		})
		return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Logged out"})
	})
}
