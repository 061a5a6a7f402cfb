package redis

import (
	"context"
	"errors"
	"time"

	"interkassa-merchant/internal/domain/ports/adapter"

	"github.com/go-redis/redis/v8"
)

var _ adapter.Cache = (*Cache)(nil)

// Cache stores raw JSON payloads in Redis.
type Cache struct {
	client RedisClient
}

func NewCache(client RedisClient) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(val), true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl)
}
