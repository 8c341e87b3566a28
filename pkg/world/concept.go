package world

// Concept is an actor's partial, time-indexed model of the world.
// Narration only reads it.
type Concept interface {
	// ItemAt returns the most recent known state of tag at or before t
	ItemAt(tag Tag, t int) (*Item, bool)
	// Children lists the items directly inside tag at t
	Children(tag Tag, t int) []Tag
	// Descendants lists everything transitively inside tag at t
	Descendants(tag Tag, t int) []Tag
	// RoomOf returns the room enclosing tag at t
	RoomOf(tag Tag, t int) (Tag, bool)
	// CompartmentOf returns the nearest enclosing room or closed container
	CompartmentOf(tag Tag, t int) (Tag, bool)
	// Has reports whether the concept knows an item of this kind
	Has(kind Kind, tag Tag) bool
	// Actions returns the known actions keyed by id
	Actions() map[int]*Action
	// Now is the latest tick the concept covers
	Now() int
}

var (
	_ Concept = (*Model)(nil)
	_ Concept = (*Snapshot)(nil)
)
