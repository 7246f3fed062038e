package offer

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu     sync.Mutex
	offers map[string]Offer
}

// NewMemoryRepository builds an in-memory offer store for dev mode and tests.
// UpdateStatus holds the lock across check and write, matching the
// conditional-update contract of the Postgres implementation.
func NewMemoryRepository() Repository {
	return &memoryRepository{offers: make(map[string]Offer)}
}

func (r *memoryRepository) Create(_ context.Context, offer Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers[offer.ID] = offer
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return Offer{}, ErrNotFound
	}
	return offer, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id string, expected, next Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok || offer.Status != expected {
		return false, nil
	}
	offer.Status = next
	r.offers[id] = offer
	return true, nil
}

func (r *memoryRepository) HasPendingForGame(_ context.Context, gameID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, offer := range r.offers {
		if offer.GameID == gameID && offer.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}
