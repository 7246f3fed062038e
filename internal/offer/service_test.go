package offer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gameswap/gameswap/internal/event"
	"github.com/gameswap/gameswap/internal/game"
	"github.com/gameswap/gameswap/internal/user"
)

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
	loads []event.OfferEvent
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.types = append(p.types, eventType)
	if oe, ok := payload.(event.OfferEvent); ok {
		p.loads = append(p.loads, oe)
	}
	return nil
}

type fixture struct {
	offers *Service
	games  *game.Service
	users  *user.Service
	pub    *recordingPublisher

	owner user.User
	buyer user.User
	game  game.Game
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	pub := &recordingPublisher{}
	users := user.NewService(user.NewMemoryRepository(), pub)
	games := game.NewService(game.NewMemoryRepository())
	offers := NewService(NewMemoryRepository(), games, users, pub)

	owner, err := users.Register(ctx, user.RegisterInput{Name: "Anna", Email: "anna@example.com", Password: "pw123456"})
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	buyer, err := users.Register(ctx, user.RegisterInput{Name: "Ben", Email: "ben@example.com", Password: "pw123456"})
	if err != nil {
		t.Fatalf("register buyer: %v", err)
	}
	g, err := games.Create(ctx, owner.ID, game.CreateInput{Name: "Chrono Trigger", System: "SNES", Price: 120})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	return &fixture{offers: offers, games: games, users: users, pub: pub, owner: owner, buyer: buyer, game: g}
}

func TestSubmitCreatesPendingOfferAndEmitsEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.offers.Submit(ctx, f.buyer.ID, f.game.ID, 50)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if o.Status != StatusPending {
		t.Fatalf("expected pending got %s", o.Status)
	}

	if len(f.pub.types) != 1 || f.pub.types[0] != event.TypeOfferCreated {
		t.Fatalf("expected one OFFER_CREATED event, got %v", f.pub.types)
	}
	payload := f.pub.loads[0]
	if payload.OfferID != o.ID || payload.GameID != f.game.ID || payload.Amount != 50 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Offeror.ID != f.buyer.ID || payload.Offeror.Email != f.buyer.Email {
		t.Fatalf("unexpected offeror %+v", payload.Offeror)
	}
	if payload.Offeree.ID != f.owner.ID || payload.Offeree.Email != f.owner.Email {
		t.Fatalf("unexpected offeree %+v", payload.Offeree)
	}
}

func TestSubmitInvalidAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, amount := range []int64{0, -1, -100} {
		if _, err := f.offers.Submit(ctx, f.buyer.ID, f.game.ID, amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %d: expected ErrInvalidAmount got %v", amount, err)
		}
	}
}

func TestSubmitUnknownGame(t *testing.T) {
	f := newFixture(t)
	if _, err := f.offers.Submit(context.Background(), f.buyer.ID, "missing", 50); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound got %v", err)
	}
}

func TestSubmitSelfOfferForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, amount := range []int64{1, 50, 1_000_000} {
		if _, err := f.offers.Submit(ctx, f.owner.ID, f.game.ID, amount); !errors.Is(err, ErrSelfOffer) {
			t.Fatalf("amount %d: expected ErrSelfOffer got %v", amount, err)
		}
	}
}

func TestAcceptTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.offers.Submit(ctx, f.buyer.ID, f.game.ID, 50)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	accepted, err := f.offers.Accept(ctx, f.owner.ID, o.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != StatusAccepted {
		t.Fatalf("expected accepted got %s", accepted.Status)
	}

	if len(f.pub.types) != 2 || f.pub.types[1] != event.TypeOfferAccepted {
		t.Fatalf("expected OFFER_ACCEPTED second, got %v", f.pub.types)
	}

	// A second transition attempt on the terminal offer fails and leaves the
	// status unchanged.
	if _, err := f.offers.Accept(ctx, f.owner.ID, o.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending got %v", err)
	}
	if _, err := f.offers.Reject(ctx, f.owner.ID, o.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending got %v", err)
	}
	got, err := f.offers.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusAccepted {
		t.Fatalf("status changed after failed transitions: %s", got.Status)
	}
}

func TestRejectTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.offers.Submit(ctx, f.buyer.ID, f.game.ID, 50)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	rejected, err := f.offers.Reject(ctx, f.owner.ID, o.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Fatalf("expected rejected got %s", rejected.Status)
	}
	if f.pub.types[len(f.pub.types)-1] != event.TypeOfferRejected {
		t.Fatalf("expected OFFER_REJECTED last, got %v", f.pub.types)
	}
}

func TestResolveByNonOwnerForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stranger, err := f.users.Register(ctx, user.RegisterInput{Name: "Cleo", Email: "cleo@example.com", Password: "pw123456"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	o, err := f.offers.Submit(ctx, f.buyer.ID, f.game.ID, 50)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := f.offers.Accept(ctx, stranger.ID, o.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner got %v", err)
	}
	if _, err := f.offers.Reject(ctx, f.buyer.ID, o.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner got %v", err)
	}
}

func TestResolveMissingOffer(t *testing.T) {
	f := newFixture(t)
	if _, err := f.offers.Accept(context.Background(), f.owner.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestConcurrentAcceptsExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.offers.Submit(ctx, f.buyer.ID, f.game.ID, 50)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.offers.Accept(ctx, f.owner.ID, o.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrNotPending):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != attempts-1 {
		t.Fatalf("expected 1 win and %d conflicts, got %d and %d", attempts-1, wins, conflicts)
	}

	got, err := f.offers.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusAccepted {
		t.Fatalf("expected accepted got %s", got.Status)
	}
}

func TestPublishFailureSurfacesAfterCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.offers.Submit(ctx, f.buyer.ID, f.game.ID, 50)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	f.pub.err = event.ErrPublish

	_, err = f.offers.Accept(ctx, f.owner.ID, o.ID)
	if !errors.Is(err, event.ErrPublish) {
		t.Fatalf("expected ErrPublish got %v", err)
	}

	// The transition committed before the publish failed.
	got, err := f.offers.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusAccepted {
		t.Fatalf("expected accepted got %s", got.Status)
	}
}

func TestMarketplaceScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Buyer bids 50 on the owner's game.
	o, err := f.offers.Submit(ctx, f.buyer.ID, f.game.ID, 50)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if o.Status != StatusPending {
		t.Fatalf("expected pending got %s", o.Status)
	}
	created := f.pub.loads[0]
	if created.Offeror.ID != f.buyer.ID || created.Offeree.ID != f.owner.ID {
		t.Fatalf("unexpected parties %+v", created)
	}

	// Owner accepts; a repeat accept fails; a third party may not reject.
	if _, err := f.offers.Accept(ctx, f.owner.ID, o.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.offers.Accept(ctx, f.owner.ID, o.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending got %v", err)
	}
	third, err := f.users.Register(ctx, user.RegisterInput{Name: "Cara", Email: "cara@example.com", Password: "pw123456"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.offers.Reject(ctx, third.ID, o.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner got %v", err)
	}

	if len(f.pub.types) != 2 || f.pub.types[0] != event.TypeOfferCreated || f.pub.types[1] != event.TypeOfferAccepted {
		t.Fatalf("unexpected event sequence %v", f.pub.types)
	}
}
