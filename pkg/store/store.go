// Package store implements the identity-preserving graph store: it owns the
// full collection of records keyed by (type, id), normalizes incoming wire
// documents into them, and resolves relationship references through the same
// identity index - including references to resources whose own data has not
// arrived yet, which get placeholder records.
//
// # Identity
//
// Every resource is represented by exactly one record instance regardless of
// how many times, or in what order, it is referenced. InitModel is the sole
// creation path for identity-tracked records; syncing the same (type, id)
// twice mutates the existing record in place.
//
// # Forward References
//
// A relationship may point at a resource the store has never seen. Resolution
// then creates a placeholder record at that identity so the reference is live
// immediately; when the resource's own data is eventually synced, the same
// record instance is populated and the placeholder flag cleared. Either
// arrival order produces the same graph.
//
// # Concurrency
//
// A store is single-writer: every operation runs to completion synchronously
// and observers fire within the mutating call. Callers in multi-goroutine
// hosts must serialize access themselves.
package store

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/resograph/resograph/pkg/document"
	"github.com/resograph/resograph/pkg/observability"
	"github.com/resograph/resograph/pkg/record"
)

// Store owns the object graph: a two-level identity index from type name to
// id to record, plus the factory used to construct new records.
//
// The zero value is not usable - use New.
type Store struct {
	index   map[string]map[string]*record.Record
	factory Factory
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithFactory sets the record factory. The default is a Registry with no
// specialized constructors.
func WithFactory(f Factory) Option {
	return func(s *Store) {
		if f != nil {
			s.factory = f
		}
	}
}

// WithLogger sets the logger used for non-fatal sync diagnostics, such as
// relationships that carry only a links representation. Without a logger
// those diagnostics are dropped.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		index:   make(map[string]map[string]*record.Record),
		factory: NewRegistry(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// Identity Index
// =============================================================================

// InitModel returns the record at (typeName, id), creating and indexing it
// through the factory if absent. This is the sole creation path for records
// that must be identity-tracked.
func (s *Store) InitModel(typeName, id string) *record.Record {
	return s.initModel(typeName, id, false)
}

func (s *Store) initModel(typeName, id string, placeholder bool) *record.Record {
	byID := s.index[typeName]
	if byID == nil {
		byID = make(map[string]*record.Record)
		s.index[typeName] = byID
	}
	if m, ok := byID[id]; ok {
		return m
	}

	m := s.factory.New(typeName, id)
	if placeholder {
		m.MarkPlaceholder()
	}
	byID[id] = m
	observability.Store().OnRecordCreated(context.Background(), typeName, id, placeholder)
	return m
}

// Find returns the record at (typeName, id), or nil when the type is unknown
// or the id is absent under that type. Constant-time double lookup.
func (s *Store) Find(typeName, id string) *record.Record {
	return s.index[typeName][id]
}

// FindAll returns all currently-indexed records for a type, sorted by id for
// deterministic enumeration. Unknown types yield an empty slice.
func (s *Store) FindAll(typeName string) []*record.Record {
	byID := s.index[typeName]
	records := make([]*record.Record, 0, len(byID))
	for _, m := range byID {
		records = append(records, m)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID() < records[j].ID() })
	return records
}

// Types returns all type names with at least one indexed record, sorted.
func (s *Store) Types() []string {
	types := make([]string, 0, len(s.index))
	for typeName, byID := range s.index {
		if len(byID) > 0 {
			types = append(types, typeName)
		}
	}
	sort.Strings(types)
	return types
}

// All returns every indexed record, grouped by sorted type name and sorted
// by id within each type.
func (s *Store) All() []*record.Record {
	var records []*record.Record
	for _, typeName := range s.Types() {
		records = append(records, s.FindAll(typeName)...)
	}
	return records
}

// Size returns the number of indexed records.
func (s *Store) Size() int {
	n := 0
	for _, byID := range s.index {
		n += len(byID)
	}
	return n
}

// Create builds a client-side record with no server id. The record is not
// identity-indexed - it has no id to index under - but its generated local
// identity keeps it addressable through serialization until it is persisted.
func (s *Store) Create(typeName string) *record.Record {
	return record.NewLocal(typeName)
}

// Destroy destroys the record and removes it from the identity index.
// Relationship references held by other records are not cleared; reconciling
// them is the caller's responsibility.
func (s *Store) Destroy(m *record.Record) {
	m.Destroy()
	delete(s.index[m.Type()], m.ID())
}

// Reset discards the entire index. Records are not destroyed - observers stay
// attached to whatever references the caller still holds. This is a full
// discard, not a graceful teardown.
func (s *Store) Reset() {
	s.index = make(map[string]map[string]*record.Record)
}

// =============================================================================
// Normalization
// =============================================================================

// SyncRecord normalizes one wire resource object into the graph: the record
// at the resource's identity is created or reused, promoted out of
// placeholder state, and its attribute and relationship blocks are pushed
// onto it. Relationship targets resolve through the identity index, creating
// placeholders for identities the store has not seen.
//
// A resource object arriving for an identity is by definition not a
// placeholder anymore, even when it carries no attributes.
func (s *Store) SyncRecord(res document.Resource) *record.Record {
	m := s.InitModel(res.Type, res.ID)
	m.ClearPlaceholder()

	for _, name := range sortedKeys(res.Attributes) {
		m.SetAttribute(name, res.Attributes[name])
	}

	for _, name := range sortedKeys(res.Relationships) {
		rel := res.Relationships[name]
		if !rel.HasData() {
			if rel.LinksOnly() {
				// Recognized but unsupported: resolution needs a fetch the
				// store does not perform. Non-fatal - skip this entry only.
				s.warn("relationship has links-only representation, skipping",
					"type", res.Type, "id", res.ID, "relationship", name)
				observability.Store().OnRelationshipSkipped(context.Background(), res.Type, res.ID, name)
			}
			continue
		}

		linkage, err := rel.Decode()
		if err != nil {
			s.warn("relationship linkage not decodable, skipping",
				"type", res.Type, "id", res.ID, "relationship", name, "err", err)
			observability.Store().OnRelationshipSkipped(context.Background(), res.Type, res.ID, name)
			continue
		}

		switch {
		case linkage.Null:
			m.SetRelationship(name, nil)
		case linkage.IsMany:
			targets := make([]*record.Record, 0, len(linkage.Many))
			for _, ident := range linkage.Many {
				targets = append(targets, s.findOrInit(ident))
			}
			m.SetRelationship(name, targets)
		default:
			m.SetRelationship(name, s.findOrInit(*linkage.One))
		}
	}

	return m
}

// findOrInit resolves a relationship identity to the record now present at
// that identity, creating a placeholder when the store has not seen it. The
// placeholder flag clears only when the resource's own data is synced, never
// through relationship resolution.
func (s *Store) findOrInit(ident document.Identity) *record.Record {
	if m := s.Find(ident.Type, ident.ID); m != nil {
		return m
	}
	return s.initModel(ident.Type, ident.ID, true)
}

// Result is the outcome of a sync. For a single-resource payload Record is
// set; for a collection payload Records is set and Many is true. Meta carries
// the document's meta member when SyncWithMeta was used. Errors carries a
// passed-through error document.
type Result struct {
	Record  *record.Record
	Records []*record.Record
	Many    bool
	Meta    map[string]any
	Errors  []document.ErrorObject
}

// IsEmpty reports whether the sync was a no-op (document without data).
func (r Result) IsEmpty() bool {
	return r.Record == nil && !r.Many && r.Meta == nil && r.Errors == nil
}

// SyncWithMeta normalizes a full document and returns the primary record(s)
// along with the document's meta member.
//
// Included resources sync before primary data so relationship targets they
// introduce are already identity-tracked; the placeholder mechanism makes
// either order correct, so this is a consistency nicety rather than a strict
// requirement. A document without data is a no-op.
func (s *Store) SyncWithMeta(doc document.Document) Result {
	if !doc.HasData() {
		return Result{}
	}

	primary := doc.Data.Resources()
	total := len(doc.Included) + len(primary)
	start := time.Now()
	observability.Store().OnSyncStart(context.Background(), total)
	defer func() {
		observability.Store().OnSyncComplete(context.Background(), total, time.Since(start))
	}()

	for _, res := range doc.Included {
		s.SyncRecord(res)
	}

	if doc.Data.IsMany {
		records := make([]*record.Record, 0, len(doc.Data.Many))
		for _, res := range doc.Data.Many {
			records = append(records, s.SyncRecord(res))
		}
		return Result{Records: records, Many: true, Meta: doc.Meta}
	}

	return Result{Record: s.SyncRecord(*doc.Data.One), Meta: doc.Meta}
}

// Sync normalizes a document. A document carrying errors is passed through
// verbatim without touching the store - error documents carry no resource
// data. Otherwise Sync is SyncWithMeta without the meta member.
func (s *Store) Sync(doc document.Document) Result {
	if len(doc.Errors) > 0 {
		return Result{Errors: doc.Errors}
	}
	res := s.SyncWithMeta(doc)
	res.Meta = nil
	return res
}

func (s *Store) warn(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, kv...)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
