// Package document provides serialization types for the resource-linking
// wire format.
//
// This package defines the canonical payload shape consumed and produced by
// resograph: type+id keyed resource objects with attribute and relationship
// blocks, optional side-loaded includes, pagination/meta information, and
// error collections.
//
// # Architecture
//
// The package sits at the serialization boundary between the wire and the
// live object graph:
//
//   - [Document], [Resource], [Relationship]: Wire types (this package)
//   - pkg/record.Record: Live, identity-stable graph node
//   - pkg/store.Store: Normalization of documents into records
//
// The store consumes these types during sync; record serialization produces
// them again on the way out.
//
// # Payload Shape
//
//	{
//	  "data": {"type": "article", "id": "1",
//	           "attributes": {"title": "Graphs"},
//	           "relationships": {"author": {"data": {"type": "person", "id": "9"}}}},
//	  "included": [{"type": "person", "id": "9", "attributes": {"name": "dgeb"}}],
//	  "meta": {"count": 1}
//	}
//
// The data member may be a single resource object or an array; [PrimaryData]
// preserves the distinction. A top-level errors array replaces data entirely.
//
// # Relationship Linkage
//
// A relationship's data member distinguishes four cases that ordinary struct
// decoding would conflate: absent, explicit null, a single identity, and an
// ordered identity array. [Relationship] keeps the member raw and [Relationship.Decode]
// classifies it:
//
//	rel := res.Relationships["comments"]
//	if rel.HasData() {
//	    linkage, err := rel.Decode()
//	    // linkage.Null, linkage.One, or linkage.Many
//	}
//
// # Common Operations
//
//	doc, _ := document.ReadFile("payload.json")   // File → Document
//	document.WriteFile(doc, "out.json")           // Document → File
//	data, _ := document.Marshal(doc)              // Document → []byte
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package document
