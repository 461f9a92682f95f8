package sso

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
)

// StateStore issues single-use anti-forgery state tokens for the OAuth
// redirect dance. Tokens live in Redis with a short TTL and are deleted
// on first consumption.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateStore{client: client, ttl: ttl}
}

func stateKey(state string) string {
	return "sso:state:" + state
}

// Issue creates a fresh state token and stores it with the configured TTL.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, stateKey(state), "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store sso state: %w", err)
	}
	return state, nil
}

// Consume validates and deletes a state token. Unknown or expired tokens
// fail as unauthenticated.
func (s *StateStore) Consume(ctx context.Context, state string) error {
	if state == "" {
		return httpx.ErrUnauthenticated
	}
	if err := s.client.GetDel(ctx, stateKey(state)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return httpx.ErrUnauthenticated
		}
		return fmt.Errorf("consume sso state: %w", err)
	}
	return nil
}
