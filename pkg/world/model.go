package world

import "sort"

// ============================================================================
// History - append-only arena of item versions
// ============================================================================

// version is one recorded state; a nil item marks removal
type version struct {
	t    int
	item *Item
}

// History stores every item version once and indexes it per tag, so
// "state at time t" is a binary search instead of a backward scan.
type History struct {
	arena []version
	index map[Tag][]int // tag -> arena positions, ordered by time
	order []Tag         // first-seen order, for deterministic iteration
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{index: make(map[Tag][]int)}
}

// Record appends a version of item valid from t onwards
func (h *History) Record(t int, item *Item) {
	h.push(item.Tag, version{t: t, item: item.Clone()})
}

// Remove marks tag as absent from t onwards
func (h *History) Remove(tag Tag, t int) {
	h.push(tag, version{t: t})
}

func (h *History) push(tag Tag, v version) {
	pos := len(h.arena)
	h.arena = append(h.arena, v)

	idx, seen := h.index[tag]
	if !seen {
		h.order = append(h.order, tag)
	}

	// Keep per-tag positions time-ordered even when recorded out of order;
	// equal times keep insertion order so the later record wins.
	at := sort.Search(len(idx), func(i int) bool {
		return h.arena[idx[i]].t > v.t
	})
	idx = append(idx, 0)
	copy(idx[at+1:], idx[at:])
	idx[at] = pos
	h.index[tag] = idx
}

// At returns the most recent version of tag at or before t
func (h *History) At(tag Tag, t int) (*Item, bool) {
	idx := h.index[tag]
	i := sort.Search(len(idx), func(i int) bool {
		return h.arena[idx[i]].t > t
	}) - 1
	if i < 0 {
		return nil, false
	}
	v := h.arena[idx[i]]
	if v.item == nil {
		return nil, false
	}
	return v.item, true
}

// Tags lists every tag ever recorded, in first-seen order
func (h *History) Tags() []Tag {
	return h.order
}

// Len is the number of versions stored
func (h *History) Len() int {
	return len(h.arena)
}

// ============================================================================
// Model - in-memory Concept
// ============================================================================

// Model is an in-memory Concept backed by a History
type Model struct {
	history *History
	kinds   map[Tag]Kind
	actions map[int]*Action
	now     int
}

// NewModel creates an empty model
func NewModel() *Model {
	return &Model{
		history: NewHistory(),
		kinds:   make(map[Tag]Kind),
		actions: make(map[int]*Action),
	}
}

// Record stores a state of an item from tick t onwards
func (m *Model) Record(t int, item *Item) {
	m.history.Record(t, item)
	m.kinds[item.Tag] = item.Kind
	if t > m.now {
		m.now = t
	}
}

// Remove marks an item as gone from tick t onwards
func (m *Model) Remove(tag Tag, t int) {
	m.history.Remove(tag, t)
	if t > m.now {
		m.now = t
	}
}

// Learn adds an action to the known set
func (m *Model) Learn(a *Action) {
	m.actions[a.ID] = a
	if a.End > m.now {
		m.now = a.End
	}
}

// SetNow overrides the latest covered tick
func (m *Model) SetNow(t int) {
	m.now = t
}

// History exposes the underlying version store
func (m *Model) History() *History {
	return m.history
}

// At returns a view of the model that never sees past tick t.
// The view shares all storage with the model.
func (m *Model) At(t int) *Snapshot {
	return &Snapshot{model: m, until: t}
}

func (m *Model) ItemAt(tag Tag, t int) (*Item, bool) {
	return m.history.At(tag, t)
}

func (m *Model) Children(tag Tag, t int) []Tag {
	var out []Tag
	for _, candidate := range m.history.Tags() {
		if candidate == tag {
			continue
		}
		if it, ok := m.history.At(candidate, t); ok && it.Parent == tag {
			out = append(out, candidate)
		}
	}
	return out
}

func (m *Model) Descendants(tag Tag, t int) []Tag {
	var out []Tag
	queue := m.Children(tag, t)
	seen := map[Tag]bool{tag: true}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		queue = append(queue, m.Children(next, t)...)
	}
	return out
}

func (m *Model) RoomOf(tag Tag, t int) (Tag, bool) {
	return m.climb(tag, t, func(it *Item) bool { return it.Kind == Room })
}

func (m *Model) CompartmentOf(tag Tag, t int) (Tag, bool) {
	return m.climb(tag, t, func(it *Item) bool {
		if it.Kind == Room {
			return true
		}
		open, ok := it.Feature("open")
		return ok && open == false
	})
}

// climb walks parents of tag (excluding tag) until stop matches
func (m *Model) climb(tag Tag, t int, stop func(*Item) bool) (Tag, bool) {
	it, ok := m.history.At(tag, t)
	if !ok {
		return "", false
	}
	for depth := 0; depth < 64 && it.Parent != ""; depth++ {
		parent, ok := m.history.At(it.Parent, t)
		if !ok {
			return "", false
		}
		if stop(parent) {
			return parent.Tag, true
		}
		it = parent
	}
	return "", false
}

func (m *Model) Has(kind Kind, tag Tag) bool {
	k, ok := m.kinds[tag]
	return ok && k == kind
}

func (m *Model) Actions() map[int]*Action {
	return m.actions
}

func (m *Model) Now() int {
	return m.now
}

// ============================================================================
// Snapshot - bounded view
// ============================================================================

// Snapshot is a Concept frozen at a tick: later item versions and
// actions starting after the tick are invisible.
type Snapshot struct {
	model *Model
	until int
}

func (s *Snapshot) clamp(t int) int {
	if t > s.until {
		return s.until
	}
	return t
}

func (s *Snapshot) ItemAt(tag Tag, t int) (*Item, bool) {
	return s.model.ItemAt(tag, s.clamp(t))
}

func (s *Snapshot) Children(tag Tag, t int) []Tag {
	return s.model.Children(tag, s.clamp(t))
}

func (s *Snapshot) Descendants(tag Tag, t int) []Tag {
	return s.model.Descendants(tag, s.clamp(t))
}

func (s *Snapshot) RoomOf(tag Tag, t int) (Tag, bool) {
	return s.model.RoomOf(tag, s.clamp(t))
}

func (s *Snapshot) CompartmentOf(tag Tag, t int) (Tag, bool) {
	return s.model.CompartmentOf(tag, s.clamp(t))
}

func (s *Snapshot) Has(kind Kind, tag Tag) bool {
	_, ok := s.model.ItemAt(tag, s.until)
	return ok && s.model.Has(kind, tag)
}

func (s *Snapshot) Actions() map[int]*Action {
	out := make(map[int]*Action)
	for id, a := range s.model.actions {
		if a.Start <= s.until {
			out[id] = a
		}
	}
	return out
}

func (s *Snapshot) Now() int {
	return s.clamp(s.model.now)
}
