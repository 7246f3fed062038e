package game

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrMissingFields indicates name or system is absent on creation.
	ErrMissingFields = errors.New("name and system are required")

	// ErrNotOwner indicates the caller does not own the listing.
	ErrNotOwner = errors.New("not the owner of the game")
)

// Service manages game listings.
type Service struct {
	repo Repository
}

// NewService creates a game service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures the attributes of a new listing.
type CreateInput struct {
	Name      string
	System    string
	Condition string
	Price     int64
}

// Create lists a new game owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (Game, error) {
	if input.Name == "" || input.System == "" {
		return Game{}, ErrMissingFields
	}

	game := Game{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      input.Name,
		System:    input.System,
		Condition: input.Condition,
		Price:     input.Price,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, game); err != nil {
		return Game{}, err
	}
	return game, nil
}

// Get retrieves a single listing.
func (s *Service) Get(ctx context.Context, id string) (Game, error) {
	return s.repo.Get(ctx, id)
}

// Browse lists all games, or only those matching the search term when one is
// given.
func (s *Service) Browse(ctx context.Context, search string) ([]Game, error) {
	if search != "" {
		return s.repo.Search(ctx, search)
	}
	return s.repo.List(ctx)
}

// ByOwner lists the games of a single owner.
func (s *Service) ByOwner(ctx context.Context, ownerID string) ([]Game, error) {
	return s.repo.ByOwner(ctx, ownerID)
}

// UpdateInput carries optional listing changes. Empty fields are left as-is;
// a negative price is ignored.
type UpdateInput struct {
	Name      string
	System    string
	Condition string
	Price     int64
}

// Update modifies a listing. Only the owner may update it.
func (s *Service) Update(ctx context.Context, actorID, id string, input UpdateInput) error {
	game, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if game.OwnerID != actorID {
		return ErrNotOwner
	}

	if input.Name != "" {
		game.Name = input.Name
	}
	if input.System != "" {
		game.System = input.System
	}
	if input.Condition != "" {
		game.Condition = input.Condition
	}
	if input.Price > 0 {
		game.Price = input.Price
	}

	return s.repo.Update(ctx, game)
}

// Delete removes a listing. Only the owner may delete it.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	game, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if game.OwnerID != actorID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}
