// Package record implements the live graph node: one identified resource
// instance owning its attribute and relationship values.
//
// Records are created and identity-tracked by pkg/store; a record's (type, id)
// pair is unique within its owning store. Attribute and relationship writes
// notify subscribed observers synchronously, which makes records usable as a
// reactivity source for UI layers without any internal delivery machinery.
//
// Relationship values reference other records directly - nil for an empty
// to-one, *Record for a to-one, []*Record for a to-many. Cycles between
// records are expected and safe: no record operation follows references
// beyond one hop.
package record

import (
	"github.com/google/uuid"

	"github.com/resograph/resograph/pkg/document"
)

// Record is one identified resource instance in the object graph.
//
// The zero value is not usable - use New or NewLocal. Record is not safe for
// concurrent use without external synchronization; the graph is single-writer
// by contract.
type Record struct {
	typ string // immutable after construction
	id  string // empty for a client-side record not yet persisted
	lid string // client-generated local identity, set by NewLocal

	// placeholder marks a record created only to satisfy a forward
	// relationship reference. The owning store clears it the moment the
	// record's own data is synced.
	placeholder bool

	attrNames []string // first-set order
	attrs     map[string]any
	relNames  []string // first-set order
	rels      map[string]any // nil | *Record | []*Record

	observers observerList
}

// New creates a record with the given type and id and no attributes or
// relationships set. Records that must be identity-tracked are created
// through a store, never directly.
func New(typeName, id string) *Record {
	return &Record{
		typ:   typeName,
		id:    id,
		attrs: make(map[string]any),
		rels:  make(map[string]any),
	}
}

// NewLocal creates a client-side record with no server id. It is assigned a
// generated local identity, which serialization emits as lid so the record
// stays addressable until it is persisted and given a real id.
func NewLocal(typeName string) *Record {
	r := New(typeName, "")
	r.lid = uuid.NewString()
	return r
}

// Type returns the record's resource type.
func (r *Record) Type() string { return r.typ }

// ID returns the record's id, or "" for a not-yet-persisted record.
func (r *Record) ID() string { return r.id }

// LocalID returns the client-generated local identity, or "" for records
// that were created with a server id.
func (r *Record) LocalID() string { return r.lid }

// Identity returns the record's wire identity pair.
func (r *Record) Identity() document.Identity {
	return document.Identity{Type: r.typ, ID: r.id}
}

// Placeholder reports whether the record exists only as a forward
// relationship target and has not yet received its own data.
func (r *Record) Placeholder() bool { return r.placeholder }

// MarkPlaceholder flags the record as a forward-reference placeholder.
// Managed by the owning store.
func (r *Record) MarkPlaceholder() { r.placeholder = true }

// ClearPlaceholder promotes the record to a full record.
// Managed by the owning store.
func (r *Record) ClearPlaceholder() { r.placeholder = false }

// =============================================================================
// Attributes
// =============================================================================

// SetAttribute stores an attribute value and notifies observers with the new
// value. The first write of a name fixes its position in the serialization
// order; later writes overwrite the value only. Values are opaque - no shape
// validation is performed.
func (r *Record) SetAttribute(name string, value any) {
	if _, ok := r.attrs[name]; !ok {
		r.attrNames = append(r.attrNames, name)
	}
	r.attrs[name] = value
	r.observers.emit(Event{Kind: AttributeChanged, Name: name, Value: value})
}

// Attribute returns the stored value for name and whether it has been set.
func (r *Record) Attribute(name string) (any, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

// AttributeNames returns the registered attribute names in first-set order.
func (r *Record) AttributeNames() []string {
	names := make([]string, len(r.attrNames))
	copy(names, r.attrNames)
	return names
}

// =============================================================================
// Relationships
// =============================================================================

// SetRelationship stores a relationship value and notifies observers with the
// new value. Valid values are nil (empty to-one), *Record (to-one), or
// []*Record (to-many, order significant). As with attributes, the first write
// of a name fixes its position in the serialization order.
func (r *Record) SetRelationship(name string, value any) {
	if _, ok := r.rels[name]; !ok {
		r.relNames = append(r.relNames, name)
	}
	r.rels[name] = value
	r.observers.emit(Event{Kind: RelationshipChanged, Name: name, Value: value})
}

// Relationship returns the stored value for name and whether it has been set.
func (r *Record) Relationship(name string) (any, bool) {
	v, ok := r.rels[name]
	return v, ok
}

// RelationshipNames returns the registered relationship names in first-set order.
func (r *Record) RelationshipNames() []string {
	names := make([]string, len(r.relNames))
	copy(names, r.relNames)
	return names
}

// =============================================================================
// Serialization
// =============================================================================

// SerializeOptions selects which attribute and relationship names to include
// when projecting a record back to the wire format. A nil slice selects all
// registered names in registration order; an empty non-nil slice selects none.
type SerializeOptions struct {
	Attributes    []string
	Relationships []string
}

// Serialize projects the record's current state into a wire-format document.
// It is a pure function of the record: no store access, no side effects.
//
// The id is present only when the record has one; a client-side record emits
// its lid instead. Relationship entries map referenced records to identity
// pairs only, preserving to-many order.
func (r *Record) Serialize(opts SerializeOptions) document.Document {
	res := document.Resource{Type: r.typ, ID: r.id}
	if r.id == "" {
		res.Lid = r.lid
	}

	attrNames := opts.Attributes
	if attrNames == nil {
		attrNames = r.attrNames
	}
	if len(attrNames) > 0 {
		res.Attributes = make(map[string]any, len(attrNames))
		for _, name := range attrNames {
			if v, ok := r.attrs[name]; ok {
				res.Attributes[name] = v
			}
		}
	}

	relNames := opts.Relationships
	if relNames == nil {
		relNames = r.relNames
	}
	if len(relNames) > 0 {
		res.Relationships = make(map[string]document.Relationship, len(relNames))
		for _, name := range relNames {
			v, ok := r.rels[name]
			if !ok {
				continue
			}
			res.Relationships[name] = serializeRelationship(v)
		}
	}

	return document.Single(res)
}

func serializeRelationship(value any) document.Relationship {
	switch v := value.(type) {
	case nil:
		return document.ToNull()
	case *Record:
		if v == nil {
			return document.ToNull()
		}
		return document.ToOne(v.Identity())
	case []*Record:
		ids := make([]document.Identity, 0, len(v))
		for _, target := range v {
			ids = append(ids, target.Identity())
		}
		return document.ToMany(ids)
	default:
		// Unknown value shapes serialize as an empty to-one rather than
		// corrupting the document.
		return document.ToNull()
	}
}

// =============================================================================
// Lifecycle
// =============================================================================

// Destroy emits a destroyed event and then detaches all observers, leaving
// the record inert for future notification. Attribute and relationship values
// are untouched; references held by other records are the caller's
// responsibility to reconcile.
func (r *Record) Destroy() {
	r.observers.emit(Event{Kind: Destroyed})
	r.observers.clear()
}
