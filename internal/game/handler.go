package game

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes game listing endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a game handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type gameRequest struct {
	Name      string `json:"name"`
	System    string `json:"system"`
	Condition string `json:"condition"`
	Price     int64  `json:"price"`
}

type gameResponse struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	Name      string `json:"name"`
	System    string `json:"system"`
	Condition string `json:"condition"`
	Price     int64  `json:"price"`
}

func toResponse(g Game) gameResponse {
	return gameResponse{
		ID:        g.ID,
		OwnerID:   g.OwnerID,
		Name:      g.Name,
		System:    g.System,
		Condition: g.Condition,
		Price:     g.Price,
	}
}

// Create lists a new game owned by the authenticated caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req gameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	actorID, _ := c.Locals("user_id").(string)

	game, err := h.service.Create(c.UserContext(), actorID, CreateInput{
		Name:      req.Name,
		System:    req.System,
		Condition: req.Condition,
		Price:     req.Price,
	})
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(toResponse(game))
}

// Get returns a single listing.
func (h *Handler) Get(c *fiber.Ctx) error {
	game, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "game not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(game))
}

// Browse lists all games, optionally filtered with ?search=.
func (h *Handler) Browse(c *fiber.Ctx) error {
	games, err := h.service.Browse(c.UserContext(), c.Query("search"))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]gameResponse, 0, len(games))
	for _, g := range games {
		out = append(out, toResponse(g))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"count": len(out), "games": out})
}

// ByOwner lists the games of the user in the path.
func (h *Handler) ByOwner(c *fiber.Ctx) error {
	return h.listOwned(c, c.Params("id"))
}

// Mine lists the authenticated caller's games.
func (h *Handler) Mine(c *fiber.Ctx) error {
	actorID, _ := c.Locals("user_id").(string)
	return h.listOwned(c, actorID)
}

func (h *Handler) listOwned(c *fiber.Ctx, ownerID string) error {
	games, err := h.service.ByOwner(c.UserContext(), ownerID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]gameResponse, 0, len(games))
	for _, g := range games {
		out = append(out, toResponse(g))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"games": out})
}

// Update modifies a listing owned by the caller.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req gameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	actorID, _ := c.Locals("user_id").(string)

	err := h.service.Update(c.UserContext(), actorID, c.Params("id"), UpdateInput{
		Name:      req.Name,
		System:    req.System,
		Condition: req.Condition,
		Price:     req.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "game not found")
		case errors.Is(err, ErrNotOwner):
			return fiber.NewError(http.StatusForbidden, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.SendStatus(http.StatusNoContent)
}
