package cache

import (
	"context"
	"time"
)

// Cache is the read-cache backing the Postgres repository. Keys are
// logical query names ("inventory", "attendance:{start}:{end}", ...).
// DeletePrefix exists because parameterized families are invalidated
// coarsely: any attendance write clears every date-ranged attendance
// entry. DeletePrefix("") clears everything.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}
