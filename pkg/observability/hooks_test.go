package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Store hooks
	s := NoopStoreHooks{}
	s.OnSyncStart(ctx, 10)
	s.OnSyncComplete(ctx, 10, time.Second)
	s.OnRecordCreated(ctx, "article", "1", false)
	s.OnRelationshipSkipped(ctx, "article", "1", "comments")

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "payload")
	c.OnCacheMiss(ctx, "payload")
	c.OnCacheSet(ctx, "payload", 1024)

	// Archive hooks
	a := NoopArchiveHooks{}
	a.OnSnapshotSave(ctx, "snap-1", 10, time.Second, nil)
	a.OnSnapshotLoad(ctx, "snap-1", time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Archive().(NoopArchiveHooks); !ok {
		t.Error("Archive() should return NoopArchiveHooks by default")
	}

	// Set custom hooks
	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != StoreHooks(customStore) {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != CacheHooks(customCache) {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customArchive := &testArchiveHooks{}
	SetArchiveHooks(customArchive)
	if Archive() != ArchiveHooks(customArchive) {
		t.Error("SetArchiveHooks should set custom hooks")
	}

	// Nil registrations keep the current hooks
	SetStoreHooks(nil)
	if Store() != StoreHooks(customStore) {
		t.Error("SetStoreHooks(nil) should be ignored")
	}

	// Reset restores defaults
	Reset()
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
}

func TestCustomStoreHooksReceiveEvents(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	h := &testStoreHooks{}
	SetStoreHooks(h)

	ctx := context.Background()
	Store().OnSyncStart(ctx, 3)
	Store().OnRecordCreated(ctx, "article", "1", true)
	Store().OnSyncComplete(ctx, 3, time.Millisecond)

	if h.syncStarts != 1 {
		t.Errorf("syncStarts = %d, want 1", h.syncStarts)
	}
	if h.created != 1 {
		t.Errorf("created = %d, want 1", h.created)
	}
	if !h.lastPlaceholder {
		t.Error("lastPlaceholder = false, want true")
	}
	if h.syncCompletes != 1 {
		t.Errorf("syncCompletes = %d, want 1", h.syncCompletes)
	}
}

// =============================================================================
// Test Hook Implementations
// =============================================================================

type testStoreHooks struct {
	syncStarts      int
	syncCompletes   int
	created         int
	skipped         int
	lastPlaceholder bool
}

func (h *testStoreHooks) OnSyncStart(_ context.Context, _ int) { h.syncStarts++ }
func (h *testStoreHooks) OnSyncComplete(_ context.Context, _ int, _ time.Duration) {
	h.syncCompletes++
}
func (h *testStoreHooks) OnRecordCreated(_ context.Context, _, _ string, placeholder bool) {
	h.created++
	h.lastPlaceholder = placeholder
}
func (h *testStoreHooks) OnRelationshipSkipped(_ context.Context, _, _, _ string) { h.skipped++ }

type testCacheHooks struct{}

func (testCacheHooks) OnCacheHit(context.Context, string)      {}
func (testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (testCacheHooks) OnCacheSet(context.Context, string, int) {}

type testArchiveHooks struct{}

func (testArchiveHooks) OnSnapshotSave(context.Context, string, int, time.Duration, error) {}
func (testArchiveHooks) OnSnapshotLoad(context.Context, string, time.Duration, error)      {}
