package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "inventory", []byte(`[1,2]`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	payload, hit, err := c.Get(ctx, "inventory")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !hit {
		t.Fatalf("expected hit")
	}
	if string(payload) != `[1,2]` {
		t.Fatalf("payload = %s", payload)
	}
}

func TestMemoryCacheMissOnUnknownKey(t *testing.T) {
	c := NewMemoryCache()

	_, hit, err := c.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatalf("expected miss")
	}
}

func TestMemoryCacheExpiresLazily(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	if err := c.Set(ctx, "sales", []byte(`[]`), 2*time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	current = current.Add(time.Minute)
	if _, hit, _ := c.Get(ctx, "sales"); !hit {
		t.Fatalf("expected hit inside TTL")
	}

	current = current.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "sales"); hit {
		t.Fatalf("expected expiry after TTL")
	}

	// The expired entry is gone, not just hidden.
	c.mu.RLock()
	_, still := c.entries["sales"]
	c.mu.RUnlock()
	if still {
		t.Fatalf("expected lazy eviction to remove the entry")
	}
}

func TestMemoryCacheZeroTTLIsNoop(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Fatalf("expected zero TTL set to store nothing")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), time.Minute)

	if err := c.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Fatalf("expected a to be deleted")
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Fatalf("expected b to be deleted")
	}
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "attendance:2026-08-01:2026-08-07", []byte("x"), time.Minute)
	_ = c.Set(ctx, "attendance:2026-08-08:2026-08-14", []byte("y"), time.Minute)
	_ = c.Set(ctx, "employees", []byte("z"), time.Minute)

	if err := c.DeletePrefix(ctx, "attendance:"); err != nil {
		t.Fatalf("delete prefix: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "attendance:2026-08-01:2026-08-07"); hit {
		t.Fatalf("expected attendance entries to be cleared")
	}
	if _, hit, _ := c.Get(ctx, "employees"); !hit {
		t.Fatalf("expected unrelated key to survive")
	}
}

func TestMemoryCacheDeleteEmptyPrefixClearsAll(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), time.Minute)

	if err := c.DeletePrefix(ctx, ""); err != nil {
		t.Fatalf("delete prefix: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Fatalf("expected empty prefix to clear everything")
	}
}
