package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const checkoutKeyPrefix = "checkout:"

// Ensure RedisCheckoutGuard implements CheckoutGuard.
var _ CheckoutGuard = (*RedisCheckoutGuard)(nil)

// RedisCheckoutGuard implements CheckoutGuard with a SETNX reservation
// per user. The TTL bounds the duplicate-submission window; a crashed
// checkout self-heals when the key expires.
type RedisCheckoutGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCheckoutGuard creates a new Redis-backed checkout guard.
func NewRedisCheckoutGuard(client *redis.Client, ttl time.Duration) *RedisCheckoutGuard {
	return &RedisCheckoutGuard{
		client: client,
		ttl:    ttl,
	}
}

// Acquire reserves the user's checkout slot. Returns false when a
// reservation already exists.
func (g *RedisCheckoutGuard) Acquire(ctx context.Context, userID int64) (bool, error) {
	return g.client.SetNX(ctx, checkoutKey(userID), 1, g.ttl).Result()
}

// Release frees the reservation, allowing an immediate retry.
func (g *RedisCheckoutGuard) Release(ctx context.Context, userID int64) error {
	return g.client.Del(ctx, checkoutKey(userID)).Err()
}

func checkoutKey(userID int64) string {
	return checkoutKeyPrefix + strconv.FormatInt(userID, 10)
}
