package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores fetched payloads on disk, one JSON envelope per payload,
// sharded by key hash. It is the CLI's default backend: payloads fetched
// from HTTP sources land here keyed by PayloadKey so repeated syncs of the
// same source skip the network.
type FileCache struct {
	dir string
}

// NewFileCache creates a payload cache rooted at dir, creating the
// directory when absent.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// payloadEnvelope is the on-disk shape of one cached payload.
type payloadEnvelope struct {
	Payload   []byte    `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Get returns the payload stored under key. Expired and unreadable
// envelopes are removed and reported as misses, so a corrupt cache heals
// itself on the next fetch.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var env payloadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !env.ExpiresAt.IsZero() && time.Now().After(env.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return env.Payload, true, nil
}

// Set stores a payload under key. A zero ttl keeps the payload until it is
// deleted or overwritten.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	env := payloadEnvelope{Payload: data, FetchedAt: time.Now()}
	if ttl > 0 {
		env.ExpiresAt = env.FetchedAt.Add(ttl)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Delete removes the payload stored under key, if any.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Close is a no-op; envelope files need no teardown.
func (c *FileCache) Close() error {
	return nil
}

// path shards keys by hash so a large payload set does not pile every
// envelope into one directory.
func (c *FileCache) path(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, sum[:2], sum[2:]+".json")
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
