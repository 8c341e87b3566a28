// Package discourse tracks what has already been said in a session:
// which items were introduced (givens) and how often each action was told.
package discourse

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/kittclouds/telling/pkg/world"
)

// Discourse is the per-session narration state. It is mutated by one
// pipeline pass at a time and is not safe for concurrent use.
type Discourse struct {
	givens   map[world.Tag]int // tag -> reply in which it was introduced
	narrated map[int]int       // action id -> times told
	told     *roaring.Bitmap
	reply    int
}

// New creates an empty discourse
func New() *Discourse {
	return &Discourse{
		givens:   make(map[world.Tag]int),
		narrated: make(map[int]int),
		told:     roaring.New(),
	}
}

// Restore rebuilds a discourse from persisted state
func Restore(givens map[world.Tag]int, tally map[int]int, reply int) *Discourse {
	d := New()
	for tag, at := range givens {
		d.givens[tag] = at
	}
	for id, n := range tally {
		if n <= 0 {
			continue
		}
		d.narrated[id] = n
		if id >= 0 {
			d.told.Add(uint32(id))
		}
	}
	d.reply = reply
	return d
}

// ============================================================================
// Givens
// ============================================================================

// IsGiven reports whether tag has been introduced
func (d *Discourse) IsGiven(tag world.Tag) bool {
	_, ok := d.givens[tag]
	return ok
}

// Introduce marks tag as given; the first introduction wins
func (d *Discourse) Introduce(tag world.Tag) {
	if _, ok := d.givens[tag]; !ok {
		d.givens[tag] = d.reply
	}
}

// Givens lists the introduced tags in sorted order
func (d *Discourse) Givens() []world.Tag {
	out := make([]world.Tag, 0, len(d.givens))
	for tag := range d.givens {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IntroducedAt returns the reply in which tag was introduced
func (d *Discourse) IntroducedAt(tag world.Tag) (int, bool) {
	at, ok := d.givens[tag]
	return at, ok
}

// ============================================================================
// Narrated tally
// ============================================================================

// Narrated returns how many times an action has been told
func (d *Discourse) Narrated(id int) int {
	return d.narrated[id]
}

// Tell records one more telling of an action and returns the count
// before this telling
func (d *Discourse) Tell(id int) int {
	prev := d.narrated[id]
	d.narrated[id] = prev + 1
	if id >= 0 {
		d.told.Add(uint32(id))
	}
	return prev
}

// WasTold reports whether an action has been told at least once
func (d *Discourse) WasTold(id int) bool {
	return id >= 0 && d.told.Contains(uint32(id))
}

// ToldCount is the number of distinct actions told
func (d *Discourse) ToldCount() uint64 {
	return d.told.GetCardinality()
}

// Tally returns a copy of the narrated counts
func (d *Discourse) Tally() map[int]int {
	out := make(map[int]int, len(d.narrated))
	for id, n := range d.narrated {
		out[id] = n
	}
	return out
}

// ============================================================================
// Replies
// ============================================================================

// BeginReply advances the reply counter and returns the new reply number
func (d *Discourse) BeginReply() int {
	d.reply++
	return d.reply
}

// Reply is the number of the current reply
func (d *Discourse) Reply() int {
	return d.reply
}

// Restart forgets everything, as on a session restart
func (d *Discourse) Restart() {
	d.givens = make(map[world.Tag]int)
	d.narrated = make(map[int]int)
	d.told.Clear()
	d.reply = 0
}
