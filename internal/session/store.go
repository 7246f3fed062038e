package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sess:"

// ErrNotFound indicates the session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Store keeps sessions in Redis under sess:<id> with a sliding-free TTL.
// Session ids are opaque; the stored value is the user identifier.
type Store struct {
	cache *redis.Client
	ttl   time.Duration
}

// New builds a session store on the shared Redis client.
func New(cache *redis.Client, ttl time.Duration) *Store {
	return &Store{cache: cache, ttl: ttl}
}

// Create opens a session for userID and returns its opaque id.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	id := uuid.NewString()
	if err := s.cache.Set(ctx, keyPrefix+id, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get resolves a session id to the user it belongs to.
func (s *Store) Get(ctx context.Context, id string) (string, error) {
	userID, err := s.cache.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return userID, nil
}

// Destroy removes a session. Destroying an unknown session is not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	return s.cache.Del(ctx, keyPrefix+id).Err()
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
