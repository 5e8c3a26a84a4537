// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about store normalization, cache operations, and snapshot
// archival.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Store().OnSyncStart(ctx, resourceCount)
//	// ... normalize payload ...
//	observability.Store().OnSyncComplete(ctx, resourceCount, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from graph store normalization.
type StoreHooks interface {
	// Sync events
	OnSyncStart(ctx context.Context, resourceCount int)
	OnSyncComplete(ctx context.Context, resourceCount int, duration time.Duration)

	// OnRecordCreated fires when a record enters the identity index.
	// placeholder is true when the record was created to satisfy a forward
	// relationship reference before its own data arrived.
	OnRecordCreated(ctx context.Context, typeName, id string, placeholder bool)

	// OnRelationshipSkipped fires when a relationship entry could not be
	// resolved (links-only representation without data).
	OnRelationshipSkipped(ctx context.Context, typeName, id, relationship string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Archive Hooks
// =============================================================================

// ArchiveHooks receives events from snapshot archival.
type ArchiveHooks interface {
	// OnSnapshotSave records a snapshot write.
	OnSnapshotSave(ctx context.Context, snapshotID string, resourceCount int, duration time.Duration, err error)

	// OnSnapshotLoad records a snapshot read.
	OnSnapshotLoad(ctx context.Context, snapshotID string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSyncStart(context.Context, int)                              {}
func (NoopStoreHooks) OnSyncComplete(context.Context, int, time.Duration)            {}
func (NoopStoreHooks) OnRecordCreated(context.Context, string, string, bool)         {}
func (NoopStoreHooks) OnRelationshipSkipped(context.Context, string, string, string) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopArchiveHooks is a no-op implementation of ArchiveHooks.
type NoopArchiveHooks struct{}

func (NoopArchiveHooks) OnSnapshotSave(context.Context, string, int, time.Duration, error) {}
func (NoopArchiveHooks) OnSnapshotLoad(context.Context, string, time.Duration, error)      {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storeHooks   StoreHooks   = NoopStoreHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	archiveHooks ArchiveHooks = NoopArchiveHooks{}
	hooksMu      sync.RWMutex
)

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any sync operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetArchiveHooks registers custom archive hooks.
// This should be called once at application startup before any snapshot operations.
func SetArchiveHooks(h ArchiveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		archiveHooks = h
	}
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Archive returns the registered archive hooks.
func Archive() ArchiveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return archiveHooks
}

// Reset restores all hooks to their no-op defaults.
// Primarily useful in tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	storeHooks = NoopStoreHooks{}
	cacheHooks = NoopCacheHooks{}
	archiveHooks = NoopArchiveHooks{}
}
