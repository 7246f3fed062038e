package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gameswap/gameswap/internal/game"
	"github.com/gameswap/gameswap/internal/offer"
)

// RegisterGameRoutes wires the listing endpoints. Browsing and lookup are
// public; creating, editing and removing a listing require a session.
func RegisterGameRoutes(public, protected fiber.Router, h *game.Handler, games *game.Service, offers offer.Repository) {
	public.Get("/games", h.Browse)
	public.Get("/games/:id", h.Get)

	protected.Post("/games", h.Create)
	protected.Put("/games/:id", h.Update)
	protected.Get("/my/games", h.Mine)

	// A listing with open offers cannot be withdrawn; the offers have to be
	// resolved first.
	protected.Delete("/games/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		actorID, _ := c.Locals("user_id").(string)

		pending, err := offers.HasPendingForGame(c.UserContext(), id)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		if pending {
			return fiber.NewError(http.StatusConflict, "game has pending offers")
		}

		if err := games.Delete(c.UserContext(), actorID, id); err != nil {
			switch {
			case errors.Is(err, game.ErrNotFound):
				return fiber.NewError(http.StatusNotFound, "game not found")
			case errors.Is(err, game.ErrNotOwner):
				return fiber.NewError(http.StatusForbidden, "not the owner")
			default:
				return fiber.NewError(http.StatusInternalServerError, err.Error())
			}
		}
		return c.SendStatus(http.StatusNoContent)
	})
}
