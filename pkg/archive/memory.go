package archive

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/resograph/resograph/pkg/errors"
	"github.com/resograph/resograph/pkg/observability"
)

// MemoryArchive is a process-local snapshot store for development and tests.
type MemoryArchive struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemoryArchive creates an empty in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{snapshots: make(map[string]Snapshot)}
}

// Save stores a snapshot, replacing any snapshot with the same ID.
func (a *MemoryArchive) Save(ctx context.Context, snap Snapshot) error {
	start := time.Now()
	a.mu.Lock()
	a.snapshots[snap.ID] = snap
	a.mu.Unlock()
	observability.Archive().OnSnapshotSave(ctx, snap.ID, len(snap.Resources), time.Since(start), nil)
	return nil
}

// Load retrieves a snapshot by ID.
func (a *MemoryArchive) Load(ctx context.Context, id string) (Snapshot, error) {
	start := time.Now()
	a.mu.RLock()
	snap, ok := a.snapshots[id]
	a.mu.RUnlock()

	var err error
	if !ok {
		err = apperrors.New(apperrors.ErrCodeSnapshotNotFound, "snapshot %s does not exist", id)
	}
	observability.Archive().OnSnapshotLoad(ctx, id, time.Since(start), err)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// List returns all snapshots, newest first.
func (a *MemoryArchive) List(ctx context.Context) ([]Snapshot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(a.snapshots))
	for _, snap := range a.snapshots {
		snaps = append(snaps, snap)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].CreatedAt.After(snaps[j].CreatedAt) })
	return snaps, nil
}

// Delete removes a snapshot.
func (a *MemoryArchive) Delete(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.snapshots[id]; !ok {
		return apperrors.New(apperrors.ErrCodeSnapshotNotFound, "snapshot %s does not exist", id)
	}
	delete(a.snapshots, id)
	return nil
}

// Close does nothing for the in-memory archive.
func (a *MemoryArchive) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryArchive implements Archive.
var _ Archive = (*MemoryArchive)(nil)
