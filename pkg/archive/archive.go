// Package archive provides snapshot persistence for whole object graphs.
//
// A snapshot is the serialized form of every record a store currently
// indexes. Snapshots restore by replaying their resources through the normal
// sync path, so identity de-duplication and forward-reference placeholders
// behave exactly as they would for a live payload. Placeholder records are
// not captured directly; they reappear when their referrers are restored.
//
// Two backends are provided:
//   - memory: process-local, for tests and development
//   - mongo: durable storage for server deployments
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/resograph/resograph/pkg/document"
	"github.com/resograph/resograph/pkg/record"
	"github.com/resograph/resograph/pkg/store"
)

// Snapshot is a point-in-time serialization of an entire store.
type Snapshot struct {
	ID        string              `json:"id" bson:"_id"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
	Label     string              `json:"label,omitempty" bson:"label,omitempty"`
	Resources []document.Resource `json:"resources" bson:"resources"`
}

// Archive is the interface for snapshot storage backends.
type Archive interface {
	// Save stores a snapshot, replacing any snapshot with the same ID.
	Save(ctx context.Context, snap Snapshot) error

	// Load retrieves a snapshot by ID.
	// Returns an error with code SNAPSHOT_NOT_FOUND when absent.
	Load(ctx context.Context, id string) (Snapshot, error)

	// List returns all snapshots, newest first.
	List(ctx context.Context) ([]Snapshot, error)

	// Delete removes a snapshot.
	// Returns an error with code SNAPSHOT_NOT_FOUND when absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Take serializes every indexed record of the store into a new snapshot with
// a generated ID. Placeholder records are skipped: restoring the records that
// reference them recreates them as placeholders, so a later sync can still
// populate them. Capturing them directly would mark them complete on restore.
func Take(s *store.Store, label string) Snapshot {
	records := s.All()
	resources := make([]document.Resource, 0, len(records))
	for _, m := range records {
		if m.Placeholder() {
			continue
		}
		resources = append(resources, *m.Serialize(record.SerializeOptions{}).Data.One)
	}
	return Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Label:     label,
		Resources: resources,
	}
}

// Restore replays a snapshot's resources into the store through the normal
// sync path. The store is not reset first; restoring into a populated store
// merges, exactly as syncing the same payloads would.
func Restore(s *store.Store, snap Snapshot) []*record.Record {
	res := s.SyncWithMeta(document.Collection(snap.Resources))
	return res.Records
}
