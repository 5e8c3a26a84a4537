package cache

import (
	"context"
	"time"
)

// NullCache discards every payload handed to it, so every lookup is a miss
// and every fetch goes back to the source. It backs the --no-cache flag and
// the server's "none" cache backend.
type NullCache struct{}

// NewNullCache creates a cache that never stores payloads.
func NewNullCache() Cache {
	return NullCache{}
}

// Get reports a miss for every key.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the payload.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete is a no-op; nothing is ever stored.
func (NullCache) Delete(context.Context, string) error {
	return nil
}

// Close is a no-op.
func (NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = NullCache{}
