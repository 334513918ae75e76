// Package auth provides the session lookup the storefront consumes.
// Session issuance (login, registration, password hashing) belongs to
// the accounts service; this package only resolves tokens it finds in
// the shared Redis session store.
package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// ErrSessionNotFound reports an unknown or expired session token.
var ErrSessionNotFound = errors.New("session not found")

// SessionReader resolves a session token to a user id.
type SessionReader interface {
	UserID(ctx context.Context, token string) (int64, error)
}

// RedisSessionStore reads sessions from Redis. Create exists for the
// issuing side and for tests; the storefront itself only reads.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Ensure RedisSessionStore implements SessionReader.
var _ SessionReader = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a session store with the given TTL.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
	}
}

// UserID resolves a session token to its user id.
func (s *RedisSessionStore) UserID(ctx context.Context, token string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// Create issues a new session token for the user.
func (s *RedisSessionStore) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	key := sessionKeyPrefix + token
	if err := s.client.Set(ctx, key, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Delete revokes a session token.
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
