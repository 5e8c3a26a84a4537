// Package cache provides payload caching for fetched wire documents.
//
// The CLI and server fetch payloads from HTTP sources; caching them avoids
// refetching on repeated runs. Three backends are provided:
//   - file: hash-sharded JSON entries on disk, for CLI usage
//   - redis: shared cache for multi-instance server deployments
//   - null: caching disabled
//
// Keys are produced with PayloadKey, which hashes the payload source so
// arbitrary URLs become filesystem- and redis-safe keys.
package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss is returned when an item is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)

// Cache stores opaque payload bytes under string keys with optional TTL.
//
// Get reports a miss with (nil, false, nil) - a miss is not an error.
// A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
