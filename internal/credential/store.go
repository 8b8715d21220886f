// Package credential owns the per-session bearer token slot. The token is
// opaque: nothing here parses, validates or inspects it. Expiry is the
// upstream's verdict, delivered through a failed identity resolution.
package credential

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/portiva/portiva/internal/shared"
)

// Store holds one opaque token per browser session.
type Store interface {
	Has(ctx context.Context, sessionID string) (bool, error)
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, token string) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisStore keeps tokens in Redis with the session TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Has reports whether a token is currently stored for the session.
func (s *RedisStore) Has(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get returns the stored token, or shared.ErrNoCredential when the slot is empty.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shared.ErrNoCredential
		}
		return "", err
	}
	return token, nil
}

// Set overwrites any existing token for the session.
func (s *RedisStore) Set(ctx context.Context, sessionID, token string) error {
	return s.client.Set(ctx, s.key(sessionID), token, s.ttl).Err()
}

// Clear removes the token. Clearing an empty slot is a no-op.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (s *RedisStore) key(sessionID string) string {
	return "credential:" + sessionID
}
