package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

const (
	orderKeyPrefix  = "order:"
	defaultCacheTTL = 5 * time.Minute
)

// Ensure RedisOrderCache implements OrderCache.
var _ OrderCache = (*RedisOrderCache)(nil)

// RedisOrderCache implements OrderCache using Redis. Orders are
// immutable once committed, so a stale entry can only ever be missing,
// never wrong.
type RedisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisOrderCache creates a new Redis-based order cache.
func NewRedisOrderCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *RedisOrderCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &RedisOrderCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get retrieves an order from cache. A miss is (nil, nil).
func (c *RedisOrderCache) Get(ctx context.Context, orderID int64) (*models.Order, error) {
	key := orderKey(orderID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss", logging.Fields{"order_id": orderID})
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get error", logging.Fields{
			"order_id": orderID,
			"error":    err.Error(),
		})
		return nil, err
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}

	c.logger.Debug("Cache hit", logging.Fields{"order_id": orderID})
	return &order, nil
}

// Set stores an order in cache.
func (c *RedisOrderCache) Set(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, orderKey(order.ID), data, c.ttl).Err(); err != nil {
		c.logger.Error("Cache set error", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		return err
	}
	return nil
}

// Delete evicts an order from cache.
func (c *RedisOrderCache) Delete(ctx context.Context, orderID int64) error {
	return c.client.Del(ctx, orderKey(orderID)).Err()
}

func orderKey(orderID int64) string {
	return orderKeyPrefix + strconv.FormatInt(orderID, 10)
}
