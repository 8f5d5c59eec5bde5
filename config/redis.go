package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis connects the session and email cache.
func InitRedis() error {
	val := os.Getenv("REDIS_ADDR")
	if val == "" {
		val = os.Getenv("REDIS_URI")
	}
	if val == "" {
		val = os.Getenv("REDIS_URL")
	}
	if val == "" {
		return fmt.Errorf("REDIS_ADDR (or REDIS_URI/REDIS_URL): %w", ErrNotConfigured)
	}

	opt := &redis.Options{Addr: val}
	if strings.HasPrefix(val, "redis://") || strings.HasPrefix(val, "rediss://") {
		parsed, err := redis.ParseURL(val)
		if err != nil {
			return fmt.Errorf("redis url: %w", err)
		}
		opt = parsed
	}
	opt.ClientName = "coldreach"
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping %s: %w", opt.Addr, err)
	}

	RedisClient = client
	return nil
}
