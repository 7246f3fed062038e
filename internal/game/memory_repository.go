package game

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	games map[string]Game
}

// NewMemoryRepository builds an in-memory game store for dev mode and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{games: make(map[string]Game)}
}

func (r *memoryRepository) Create(_ context.Context, game Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[game.ID] = game
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	game, ok := r.games[id]
	if !ok {
		return Game{}, ErrNotFound
	}
	return game, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(Game) bool { return true }), nil
}

func (r *memoryRepository) Search(_ context.Context, term string) ([]Game, error) {
	term = strings.ToLower(term)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(g Game) bool {
		return strings.Contains(strings.ToLower(g.Name), term) ||
			strings.Contains(strings.ToLower(g.System), term)
	}), nil
}

func (r *memoryRepository) ByOwner(_ context.Context, ownerID string) ([]Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(g Game) bool { return g.OwnerID == ownerID }), nil
}

func (r *memoryRepository) Update(_ context.Context, game Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[game.ID]; !ok {
		return ErrNotFound
	}
	r.games[game.ID] = game
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return ErrNotFound
	}
	delete(r.games, id)
	return nil
}

// collect expects the caller to hold the read lock.
func (r *memoryRepository) collect(match func(Game) bool) []Game {
	var games []Game
	for _, g := range r.games {
		if match(g) {
			games = append(games, g)
		}
	}
	sort.Slice(games, func(i, j int) bool { return games[i].CreatedAt.After(games[j].CreatedAt) })
	return games
}
