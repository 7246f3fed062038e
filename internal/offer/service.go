package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gameswap/gameswap/internal/event"
	"github.com/gameswap/gameswap/internal/game"
	"github.com/gameswap/gameswap/internal/user"
)

var (
	// ErrInvalidAmount indicates a non-positive offer amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrGameNotFound indicates the referenced game does not exist.
	ErrGameNotFound = errors.New("game not found")

	// ErrSelfOffer indicates the buyer owns the game.
	ErrSelfOffer = errors.New("cannot make an offer on your own game")

	// ErrNotPending indicates the offer already reached a terminal state, or
	// lost a race against a concurrent transition.
	ErrNotPending = errors.New("offer is not pending")

	// ErrNotOwner indicates the caller does not own the offered-on game.
	ErrNotOwner = errors.New("not the owner of the game")
)

// Service enforces the offer lifecycle and emits notification events on
// every transition.
type Service struct {
	repo      Repository
	games     *game.Service
	users     *user.Service
	publisher event.Publisher
}

// NewService constructs an offer service.
func NewService(repo Repository, games *game.Service, users *user.Service, publisher event.Publisher) *Service {
	return &Service{repo: repo, games: games, users: users, publisher: publisher}
}

// Submit creates a pending offer by buyerID on gameID and emits
// OFFER_CREATED. The event publish happens after the offer is persisted; a
// publish failure is returned alongside the already-created offer.
func (s *Service) Submit(ctx context.Context, buyerID, gameID string, amount int64) (Offer, error) {
	if amount <= 0 {
		return Offer{}, ErrInvalidAmount
	}

	g, err := s.games.Get(ctx, gameID)
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			return Offer{}, ErrGameNotFound
		}
		return Offer{}, err
	}
	if g.OwnerID == buyerID {
		return Offer{}, ErrSelfOffer
	}

	o := Offer{
		ID:        uuid.New().String(),
		GameID:    g.ID,
		BuyerID:   buyerID,
		Amount:    amount,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Offer{}, err
	}

	if err := s.notify(ctx, event.TypeOfferCreated, o, g); err != nil {
		return o, err
	}
	return o, nil
}

// Get retrieves an offer by identifier.
func (s *Service) Get(ctx context.Context, id string) (Offer, error) {
	return s.repo.Get(ctx, id)
}

// transition pairs a terminal status with the event type announcing it.
// Accept and reject share one code path so the two branches cannot drift.
type transition struct {
	target    Status
	eventType string
}

var (
	acceptTransition = transition{StatusAccepted, event.TypeOfferAccepted}
	rejectTransition = transition{StatusRejected, event.TypeOfferRejected}
)

// Accept moves a pending offer to accepted. Only the game owner may accept.
func (s *Service) Accept(ctx context.Context, actorID, offerID string) (Offer, error) {
	return s.resolve(ctx, actorID, offerID, acceptTransition)
}

// Reject moves a pending offer to rejected. Only the game owner may reject.
func (s *Service) Reject(ctx context.Context, actorID, offerID string) (Offer, error) {
	return s.resolve(ctx, actorID, offerID, rejectTransition)
}

func (s *Service) resolve(ctx context.Context, actorID, offerID string, tr transition) (Offer, error) {
	o, err := s.repo.Get(ctx, offerID)
	if err != nil {
		return Offer{}, err
	}
	if o.Status != StatusPending {
		return Offer{}, ErrNotPending
	}

	g, err := s.games.Get(ctx, o.GameID)
	if err != nil {
		return Offer{}, fmt.Errorf("load game %s: %w", o.GameID, err)
	}
	if g.OwnerID != actorID {
		return Offer{}, ErrNotOwner
	}

	// Conditional update: if another transition won the race since our read,
	// the precondition fails and this attempt reports ErrNotPending.
	ok, err := s.repo.UpdateStatus(ctx, o.ID, StatusPending, tr.target)
	if err != nil {
		return Offer{}, err
	}
	if !ok {
		return Offer{}, ErrNotPending
	}
	o.Status = tr.target

	if err := s.notify(ctx, tr.eventType, o, g); err != nil {
		return o, err
	}
	return o, nil
}

// notify publishes an offer event carrying identity and email of both
// parties, refreshed from the store at emission time.
func (s *Service) notify(ctx context.Context, eventType string, o Offer, g game.Game) error {
	buyer, err := s.users.Get(ctx, o.BuyerID)
	if err != nil {
		return fmt.Errorf("load buyer %s: %w", o.BuyerID, err)
	}
	owner, err := s.users.Get(ctx, g.OwnerID)
	if err != nil {
		return fmt.Errorf("load owner %s: %w", g.OwnerID, err)
	}

	return s.publisher.Publish(ctx, eventType, event.OfferEvent{
		OfferID: o.ID,
		GameID:  g.ID,
		Amount:  o.Amount,
		Offeror: event.Party{ID: buyer.ID, Email: buyer.Email},
		Offeree: event.Party{ID: owner.ID, Email: owner.Email},
	})
}
