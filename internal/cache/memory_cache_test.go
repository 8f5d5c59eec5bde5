package cache

import (
	"context"
	"testing"
	"time"
)

type entry struct {
	Text string `json:"text"`
}

func TestMemoryCacheRoundTripAndDel(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var got entry
	if hit, _ := c.GetJSON(ctx, "k", &got); hit {
		t.Fatal("expected miss on empty cache")
	}
	if err := c.SetJSON(ctx, "k", entry{Text: "hello"}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if hit, err := c.GetJSON(ctx, "k", &got); !hit || err != nil || got.Text != "hello" {
		t.Fatalf("get = %v %v %+v", hit, err, got)
	}
	if err := c.Del(ctx, "k", "missing"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if hit, _ := c.GetJSON(ctx, "k", &got); hit {
		t.Fatal("expected miss after del")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	_ = c.SetJSON(ctx, "k", entry{Text: "x"}, time.Minute)
	now = now.Add(30 * time.Second)
	if hit, _ := c.GetJSON(ctx, "k", &entry{}); !hit {
		t.Fatal("expected hit before ttl")
	}
	now = now.Add(time.Minute)
	if hit, _ := c.GetJSON(ctx, "k", &entry{}); hit {
		t.Fatal("expected miss after ttl")
	}
}

func TestKey(t *testing.T) {
	if got := Key("email", "abc", "https://x.io_0"); got != "coldreach:email:abc:https://x.io_0" {
		t.Fatalf("key = %q", got)
	}
}
