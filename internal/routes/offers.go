package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gameswap/gameswap/internal/offer"
)

// RegisterOfferRoutes wires the offer lifecycle endpoints.
func RegisterOfferRoutes(public, protected fiber.Router, h *offer.Handler) {
	public.Get("/offers/:id", h.Get)

	protected.Post("/offers", h.Submit)
	protected.Post("/offers/:id/accept", h.Accept)
	protected.Post("/offers/:id/reject", h.Reject)
}
