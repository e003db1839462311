// Package tiered composes an in-process L1 cache with a shared L2 cache.
package tiered

import (
	"context"
	"log/slog"
	"time"

	"github.com/croftlabs/verdant/internal/port/cache"
)

// Cache reads through L1 into L2, backfilling L1 on an L2 hit. Writes and
// deletes go to both tiers. L1 failures are treated as misses so a broken
// in-process cache never takes reads down with it.
type Cache struct {
	l1  cache.Cache
	l2  cache.Cache
	ttl time.Duration
}

// New creates a tiered cache. ttl bounds how long L2 backfills live in L1.
func New(l1, l2 cache.Cache, ttl time.Duration) *Cache {
	return &Cache{l1: l1, l2: l2, ttl: ttl}
}

// Get checks L1 first, then L2.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, found, err := c.l1.Get(ctx, key)
	if err != nil {
		slog.Debug("l1 cache read failed", "key", key, "error", err)
	} else if found {
		return val, true, nil
	}

	val, found, err = c.l2.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	if err := c.l1.Set(ctx, key, val, c.ttl); err != nil {
		slog.Debug("l1 cache backfill failed", "key", key, "error", err)
	}
	return val, true, nil
}

// Set writes to both tiers. The L2 write decides success.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.l1.Set(ctx, key, value, ttl); err != nil {
		slog.Debug("l1 cache write failed", "key", key, "error", err)
	}
	return c.l2.Set(ctx, key, value, ttl)
}

// Delete removes from both tiers. Invalidation must reach L2 even when L1
// fails, so the L1 error is only logged.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.l1.Delete(ctx, key); err != nil {
		slog.Debug("l1 cache delete failed", "key", key, "error", err)
	}
	return c.l2.Delete(ctx, key)
}
