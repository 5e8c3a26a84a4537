package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// =============================================================================
// Identity - Resource Identification
// =============================================================================

// Identity is the (type, id) pair that uniquely identifies a resource.
// Relationship data members carry identities only - never nested attributes.
type Identity struct {
	Type string `json:"type" bson:"type"`
	ID   string `json:"id" bson:"id"`
}

// String returns the identity in "type/id" form, useful for logs and labels.
func (i Identity) String() string {
	return i.Type + "/" + i.ID
}

// =============================================================================
// Resource - One Wire-Format Resource Object
// =============================================================================

// Resource is a single resource object as it appears in a wire payload:
// a type, an optional id, and optional attribute and relationship blocks.
//
// Lid carries a client-generated local identity for resources that have not
// been persisted yet and therefore have no server id.
type Resource struct {
	Type          string                  `json:"type" bson:"type"`
	ID            string                  `json:"id,omitempty" bson:"id,omitempty"`
	Lid           string                  `json:"lid,omitempty" bson:"lid,omitempty"`
	Attributes    map[string]any          `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty" bson:"relationships,omitempty"`
}

// Identity returns the resource's identity pair.
func (r Resource) Identity() Identity {
	return Identity{Type: r.Type, ID: r.ID}
}

// =============================================================================
// Relationship - Linkage Entry
// =============================================================================

// Relationship is one named linkage entry on a resource object.
//
// The data member is kept as raw JSON because its absence, a literal null,
// a single identity object, and an identity array all mean different things:
//
//	(absent)            relationship not being synced in this payload
//	null                empty to-one relationship
//	{type, id}          to-one relationship
//	[{type, id}, ...]   to-many relationship, order significant
//
// A nil Data slice means the member was absent; the literal bytes "null"
// mean an explicit empty to-one. Use Decode to classify a present member.
type Relationship struct {
	Data  json.RawMessage `json:"data,omitempty" bson:"data,omitempty"`
	Links map[string]any  `json:"links,omitempty" bson:"links,omitempty"`
}

// HasData reports whether the data member was present in the payload,
// including an explicit null.
func (r Relationship) HasData() bool {
	return r.Data != nil
}

// LinksOnly reports whether the relationship carries only a links member.
// This representation is recognized but not resolvable without fetching.
func (r Relationship) LinksOnly() bool {
	return !r.HasData() && len(r.Links) > 0
}

// Linkage is the decoded form of a relationship's data member.
// Exactly one of the three shapes applies: Null, a single identity (One),
// or an ordered identity list (Many, with IsMany set even when empty).
type Linkage struct {
	Null   bool
	One    *Identity
	Many   []Identity
	IsMany bool
}

// Decode classifies the relationship's data member.
// Calling Decode on a relationship without a data member is an error;
// check HasData first.
func (r Relationship) Decode() (Linkage, error) {
	if !r.HasData() {
		return Linkage{}, fmt.Errorf("relationship has no data member")
	}

	data := bytes.TrimSpace(r.Data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return Linkage{Null: true}, nil
	case len(data) > 0 && data[0] == '[':
		var many []Identity
		if err := json.Unmarshal(data, &many); err != nil {
			return Linkage{}, fmt.Errorf("decode to-many linkage: %w", err)
		}
		return Linkage{Many: many, IsMany: true}, nil
	default:
		var one Identity
		if err := json.Unmarshal(data, &one); err != nil {
			return Linkage{}, fmt.Errorf("decode to-one linkage: %w", err)
		}
		return Linkage{One: &one}, nil
	}
}

// ToOne builds a relationship whose data member is a single identity.
func ToOne(id Identity) Relationship {
	data, _ := json.Marshal(id)
	return Relationship{Data: data}
}

// ToMany builds a relationship whose data member is an ordered identity list.
// The slice is marshaled as-is: an empty (non-nil) slice becomes [].
func ToMany(ids []Identity) Relationship {
	if ids == nil {
		ids = []Identity{}
	}
	data, _ := json.Marshal(ids)
	return Relationship{Data: data}
}

// ToNull builds a relationship with an explicit null data member.
func ToNull() Relationship {
	return Relationship{Data: json.RawMessage("null")}
}

// =============================================================================
// PrimaryData - Single Resource or Resource Collection
// =============================================================================

// PrimaryData is a document's primary data member, which may be a single
// resource object or an array of resource objects. IsMany distinguishes an
// empty array from a single resource.
type PrimaryData struct {
	One    *Resource
	Many   []Resource
	IsMany bool
}

// Resources returns the primary resources as a slice regardless of shape.
func (p *PrimaryData) Resources() []Resource {
	if p == nil {
		return nil
	}
	if p.IsMany {
		return p.Many
	}
	if p.One != nil {
		return []Resource{*p.One}
	}
	return nil
}

// MarshalJSON emits the primary data as an array or single object.
func (p PrimaryData) MarshalJSON() ([]byte, error) {
	if p.IsMany {
		if p.Many == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(p.Many)
	}
	if p.One == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.One)
}

// UnmarshalJSON accepts a single resource object or an array of them.
func (p *PrimaryData) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*p = PrimaryData{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []Resource
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return fmt.Errorf("decode resource array: %w", err)
		}
		*p = PrimaryData{Many: many, IsMany: true}
		return nil
	}
	var one Resource
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return fmt.Errorf("decode resource object: %w", err)
	}
	*p = PrimaryData{One: &one}
	return nil
}

// =============================================================================
// Document - Top-Level Payload
// =============================================================================

// Document is a complete top-level payload: primary data, optional
// side-loaded resources, optional meta, or an error collection.
//
// A document carrying errors has no resource data to normalize; the two
// shapes are mutually exclusive on the wire.
type Document struct {
	Data     *PrimaryData   `json:"data,omitempty"`
	Included []Resource     `json:"included,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
	Errors   []ErrorObject  `json:"errors,omitempty"`
}

// HasData reports whether the document carries primary data.
func (d Document) HasData() bool {
	return d.Data != nil && (d.Data.IsMany || d.Data.One != nil)
}

// Single builds a document wrapping one primary resource.
func Single(res Resource) Document {
	return Document{Data: &PrimaryData{One: &res}}
}

// Collection builds a document wrapping a resource array.
func Collection(resources []Resource) Document {
	return Document{Data: &PrimaryData{Many: resources, IsMany: true}}
}

// ErrorObject is one entry of a document's error collection.
type ErrorObject struct {
	Status string         `json:"status,omitempty" bson:"status,omitempty"`
	Code   string         `json:"code,omitempty" bson:"code,omitempty"`
	Title  string         `json:"title,omitempty" bson:"title,omitempty"`
	Detail string         `json:"detail,omitempty" bson:"detail,omitempty"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}
