package archive

import (
	"context"
	"testing"
	"time"

	"github.com/resograph/resograph/pkg/document"
	apperrors "github.com/resograph/resograph/pkg/errors"
	"github.com/resograph/resograph/pkg/store"
)

func TestMemoryArchiveCRUD(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryArchive()

	snap := Snapshot{
		ID:        "snap-1",
		CreatedAt: time.Now().UTC(),
		Label:     "before-migration",
		Resources: []document.Resource{{Type: "article", ID: "1"}},
	}
	if err := a.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := a.Load(ctx, "snap-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Label != "before-migration" || len(got.Resources) != 1 {
		t.Errorf("Load returned %+v", got)
	}

	// Save with the same ID replaces.
	snap.Label = "after-migration"
	if err := a.Save(ctx, snap); err != nil {
		t.Fatalf("Save (replace): %v", err)
	}
	got, _ = a.Load(ctx, "snap-1")
	if got.Label != "after-migration" {
		t.Errorf("replace did not take effect, label = %q", got.Label)
	}

	if err := a.Delete(ctx, "snap-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := a.Load(ctx, "snap-1"); !apperrors.Is(err, apperrors.ErrCodeSnapshotNotFound) {
		t.Errorf("Load after delete: want SNAPSHOT_NOT_FOUND, got %v", err)
	}
	if err := a.Delete(ctx, "snap-1"); !apperrors.Is(err, apperrors.ErrCodeSnapshotNotFound) {
		t.Errorf("Delete missing: want SNAPSHOT_NOT_FOUND, got %v", err)
	}
}

func TestMemoryArchiveListNewestFirst(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryArchive()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		snap := Snapshot{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := a.Save(ctx, snap); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	snaps, err := a.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("List returned %d snapshots, want 3", len(snaps))
	}
	for i, want := range []string{"new", "mid", "old"} {
		if snaps[i].ID != want {
			t.Errorf("snaps[%d].ID = %q, want %q", i, snaps[i].ID, want)
		}
	}
}

func TestTakeRestoreRoundTrip(t *testing.T) {
	src := store.New()
	src.Sync(document.Document{
		Data: &document.PrimaryData{One: &document.Resource{
			Type:       "article",
			ID:         "1",
			Attributes: map[string]any{"title": "Normalization"},
			Relationships: map[string]document.Relationship{
				"author": document.ToOne(document.Identity{Type: "person", ID: "9"}),
			},
		}},
	})

	snap := Take(src, "nightly")
	if snap.ID == "" {
		t.Fatal("Take returned snapshot without ID")
	}
	if snap.Label != "nightly" {
		t.Errorf("Label = %q, want %q", snap.Label, "nightly")
	}
	// The referenced person exists only as a placeholder and is not captured
	// directly; the author relationship carries the reference.
	if len(snap.Resources) != 1 {
		t.Fatalf("snapshot has %d resources, want 1", len(snap.Resources))
	}

	dst := store.New()
	Restore(dst, snap)

	article := dst.Find("article", "1")
	if article == nil {
		t.Fatal("article/1 missing after restore")
	}
	if got, _ := article.Attribute("title"); got != "Normalization" {
		t.Errorf("title = %v, want Normalization", got)
	}
	person := dst.Find("person", "9")
	if person == nil {
		t.Fatal("person/9 missing after restore")
	}
	if !person.Placeholder() {
		t.Error("person/9 should still be a placeholder after restore")
	}
	if got, _ := article.Relationship("author"); got != person {
		t.Errorf("author relationship = %v, want restored person record", got)
	}
}

func TestRestoreMergesIntoPopulatedStore(t *testing.T) {
	src := store.New()
	src.Sync(document.Single(document.Resource{
		Type:       "article",
		ID:         "1",
		Attributes: map[string]any{"title": "v1"},
	}))
	snap := Take(src, "")

	dst := store.New()
	dst.Sync(document.Single(document.Resource{
		Type:       "article",
		ID:         "1",
		Attributes: map[string]any{"title": "v2", "draft": true},
	}))
	existing := dst.Find("article", "1")

	Restore(dst, snap)

	if got := dst.Find("article", "1"); got != existing {
		t.Error("restore replaced the existing record instead of updating it")
	}
	if got, _ := existing.Attribute("title"); got != "v1" {
		t.Errorf("title = %v, want snapshot value v1", got)
	}
	if got, _ := existing.Attribute("draft"); got != true {
		t.Errorf("draft = %v, attributes outside the snapshot must survive", got)
	}
}
