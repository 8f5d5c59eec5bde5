package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	val       []byte
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is the in-process fallback when Redis is not configured.
// Values are stored as JSON so callers see the same copy semantics as Redis.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.items[key]
	if ok && !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.val, dst); err != nil {
		_ = c.Del(context.Background(), key)
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) SetJSON(_ context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	e := memoryEntry{val: b}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.items, k)
	}
	c.mu.Unlock()
	return nil
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*RedisCache)(nil)
)

func (c *MemoryCache) Ping(context.Context) error { return nil }

func (c *MemoryCache) Backend() string { return "memory" }
