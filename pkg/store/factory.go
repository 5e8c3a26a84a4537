package store

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/resograph/resograph/pkg/record"
)

// Factory produces the records a store places in its identity index. The
// store consults the factory on every index miss, so specialized record
// variants can be substituted per wire type name without the store knowing
// about them.
type Factory interface {
	New(typeName, id string) *record.Record
}

// Constructor builds a specialized record for one type name.
// Constructors typically pre-register observers or seed default attributes
// before the store syncs data onto the record.
type Constructor func(typeName, id string) *record.Record

// KeyFunc normalizes a wire type name into a constructor lookup key.
// Wire payloads and registration calls may spell the same type differently
// ("blogPost", "blog_post"); the key function makes them collide.
type KeyFunc func(typeName string) string

// DefaultKey is the default lookup-key normalization: underscore-separated
// segments are capitalized and joined ("blog_post" -> "BlogPost").
func DefaultKey(typeName string) string {
	var b strings.Builder
	for _, part := range strings.Split(typeName, "_") {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}

// Registry is the default Factory: a constructor table keyed by normalized
// type name, falling back to generic records for unregistered types.
type Registry struct {
	key          KeyFunc
	constructors map[string]Constructor
}

// NewRegistry creates a registry using the given key function.
// A nil key function selects DefaultKey.
func NewRegistry(key KeyFunc) *Registry {
	if key == nil {
		key = DefaultKey
	}
	return &Registry{
		key:          key,
		constructors: make(map[string]Constructor),
	}
}

// Register installs a constructor for a type name. The name passes through
// the registry's key function, so "blog_post" and "blogPost" registrations
// collide when the key function says they do. A later registration for the
// same key replaces the earlier one.
func (g *Registry) Register(typeName string, c Constructor) {
	g.constructors[g.key(typeName)] = c
}

// New builds a record for the given type and id, using a registered
// constructor when one matches and a generic record otherwise.
func (g *Registry) New(typeName, id string) *record.Record {
	if c, ok := g.constructors[g.key(typeName)]; ok {
		return c(typeName, id)
	}
	return record.New(typeName, id)
}

// Ensure Registry implements Factory.
var _ Factory = (*Registry)(nil)
