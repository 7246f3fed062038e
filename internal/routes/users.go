package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gameswap/gameswap/internal/game"
	"github.com/gameswap/gameswap/internal/user"
)

// RegisterUserRoutes wires account endpoints. Registration and profile
// lookup are public; editing a profile requires a session.
func RegisterUserRoutes(r fiber.Router, h *user.Handler, games *game.Handler, sessionAuth fiber.Handler) {
	r.Post("/users", h.Register)
	r.Get("/users/:id", h.Get)
	r.Put("/users/:id", sessionAuth, h.Update)
	r.Get("/users/:id/games", games.ByOwner)
}
