package offer

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gameswap/gameswap/internal/event"
)

// Handler exposes offer endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an offer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	GameID string `json:"gameId"`
	Amount int64  `json:"amount"`
}

type offerResponse struct {
	ID      string `json:"id"`
	GameID  string `json:"gameId"`
	BuyerID string `json:"buyerId"`
	Amount  int64  `json:"amount"`
	Status  string `json:"status"`
}

func toResponse(o Offer) offerResponse {
	return offerResponse{
		ID:      o.ID,
		GameID:  o.GameID,
		BuyerID: o.BuyerID,
		Amount:  o.Amount,
		Status:  string(o.Status),
	}
}

// Submit creates an offer on a game by the authenticated caller.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	actorID, _ := c.Locals("user_id").(string)

	o, err := h.service.Submit(c.UserContext(), actorID, req.GameID, req.Amount)
	if err != nil {
		return mapOfferError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(o))
}

// Get returns a single offer.
func (h *Handler) Get(c *fiber.Ctx) error {
	o, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "offer not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(o))
}

// Accept resolves a pending offer as accepted.
func (h *Handler) Accept(c *fiber.Ctx) error {
	return h.resolve(c, h.service.Accept)
}

// Reject resolves a pending offer as rejected.
func (h *Handler) Reject(c *fiber.Ctx) error {
	return h.resolve(c, h.service.Reject)
}

func (h *Handler) resolve(c *fiber.Ctx, fn func(ctx context.Context, actorID, offerID string) (Offer, error)) error {
	actorID, _ := c.Locals("user_id").(string)

	o, err := fn(c.UserContext(), actorID, c.Params("id"))
	if err != nil {
		return mapOfferError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(o))
}

// mapOfferError translates service errors into HTTP responses. A publish
// failure means the state change committed but the notification did not
// reach the queue, so it surfaces as a server error rather than being
// swallowed.
func mapOfferError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrGameNotFound):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSelfOffer):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotPending):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, event.ErrPublish):
		return fiber.NewError(http.StatusInternalServerError, "notification delivery failed")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
