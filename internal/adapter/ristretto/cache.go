// Package ristretto implements the cache port with an in-process
// dgraph-io/ristretto cache. It serves as the L1 tier for catalog reads.
package ristretto

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache is an in-process byte cache with size-based eviction.
type Cache struct {
	c *ristretto.Cache[string, []byte]
}

// New creates a cache bounded to roughly maxSizeMB megabytes of values.
func New(maxSizeMB int64) (*Cache, error) {
	maxCost := maxSizeMB * 1024 * 1024
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		// Counters track access frequency for admission; ristretto
		// recommends ~10x the expected number of items.
		NumCounters: maxCost / 1024 * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

// Get retrieves a value. A miss is not an error.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, found := c.c.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores a value with the given TTL, costed by its byte length.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.c.SetWithTTL(key, value, int64(len(value)), ttl)
	return nil
}

// Delete removes a value.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.c.Del(key)
	return nil
}

// Wait blocks until buffered writes are applied. Writes are applied
// asynchronously; callers that need read-your-writes must call Wait.
func (c *Cache) Wait() {
	c.c.Wait()
}

// Close releases the cache's resources.
func (c *Cache) Close() {
	c.c.Close()
}
