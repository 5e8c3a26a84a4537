package record

// Kind identifies the category of a change notification.
type Kind int

const (
	// AttributeChanged fires after SetAttribute, scoped to one attribute name.
	AttributeChanged Kind = iota
	// RelationshipChanged fires after SetRelationship, scoped to one
	// relationship name.
	RelationshipChanged
	// Destroyed fires once when the record is destroyed. It carries no name
	// or value.
	Destroyed
)

// String returns the kind's wire-friendly name.
func (k Kind) String() string {
	switch k {
	case AttributeChanged:
		return "attribute-changed"
	case RelationshipChanged:
		return "relationship-changed"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Event is one change notification. For attribute and relationship changes,
// Name is the field that changed and Value holds the value just stored - by
// the time an observer runs, the record already reflects it.
type Event struct {
	Kind  Kind
	Name  string
	Value any
}

// Observer receives change notifications. Delivery is synchronous, within
// the mutating call, in subscription order.
type Observer func(Event)

// Subscribe registers an observer and returns a cancel function that removes
// it. Observers registered during an emit do not receive that emit.
func (r *Record) Subscribe(o Observer) (cancel func()) {
	return r.observers.add(o)
}

// observerList is an ordered observer registry. Subscription order is
// delivery order; cancellation is by entry identity.
type observerList struct {
	nextID  int
	entries []observerEntry
}

type observerEntry struct {
	id int
	fn Observer
}

func (l *observerList) add(o Observer) (cancel func()) {
	id := l.nextID
	l.nextID++
	l.entries = append(l.entries, observerEntry{id: id, fn: o})
	return func() {
		for i, e := range l.entries {
			if e.id == id {
				l.entries = append(l.entries[:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

func (l *observerList) emit(ev Event) {
	// Snapshot so observers that subscribe or cancel mid-delivery do not
	// affect this emit.
	snapshot := make([]observerEntry, len(l.entries))
	copy(snapshot, l.entries)
	for _, e := range snapshot {
		e.fn(ev)
	}
}

func (l *observerList) clear() {
	l.entries = nil
}
