// Package cache defines the caching port. Verdant uses it for catalog
// reads, which are hot and rarely change; adapters provide an in-process
// tier, a shared NATS KV tier, and a composition of the two.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys. Get reports a miss
// with found=false and a nil error; errors are reserved for backend
// failures. Implementations may treat ttl as advisory when the backend
// only supports a bucket-wide expiry.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
