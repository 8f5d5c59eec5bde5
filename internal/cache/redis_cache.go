package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores sessions and composed emails as JSON strings.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// an entry written by an older layout; drop it and start over
		_ = c.rdb.Unlink(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

// SetJSON writes val under key. A non-positive ttl keeps the entry until deleted.
func (c *RedisCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

// Del removes keys without blocking the server on large values.
func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Unlink(ctx, keys...).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisCache) Backend() string { return "redis" }
