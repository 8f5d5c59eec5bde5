package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores JSON values for session state and composed emails.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Checker is implemented by caches that can report their health.
type Checker interface {
	Ping(ctx context.Context) error
	Backend() string
}

const namespace = "coldreach"

// Key joins parts under the application namespace, ex: "coldreach:session:<id>".
func Key(parts ...string) string {
	return namespace + ":" + strings.Join(parts, ":")
}
