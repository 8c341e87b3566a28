// Package tense implements the three-point (event, reference, speech)
// tense calculus and the sentinel time points used by reply plans.
package tense

import "math"

// ER is the relation of event time to reference time
type ER uint8

const (
	Anterior ER = iota
	Simple
	Posterior
)

func (e ER) String() string {
	switch e {
	case Anterior:
		return "anterior"
	case Simple:
		return "simple"
	case Posterior:
		return "posterior"
	}
	return "unknown"
}

// RS is the relation of reference time to speech time
type RS uint8

const (
	Past RS = iota
	Present
	Future
)

func (r RS) String() string {
	switch r {
	case Past:
		return "past"
	case Present:
		return "present"
	case Future:
		return "future"
	}
	return "unknown"
}

// Reichenbach derives the tense pair from event, reference and speech time.
// Ties map to Simple and Present.
func Reichenbach(event, ref, speech int) (ER, RS) {
	er := Simple
	switch {
	case event < ref:
		er = Anterior
	case event > ref:
		er = Posterior
	}
	rs := Present
	switch {
	case ref < speech:
		rs = Past
	case ref > speech:
		rs = Future
	}
	return er, rs
}

// ============================================================================
// Time points
// ============================================================================

// Anchor says how a Point resolves against a leaf's event time
type Anchor uint8

const (
	// Unset points inherit from the enclosing node
	Unset Anchor = iota
	// At is a concrete tick
	At
	Min
	Max
	Follow
	RightBefore
	RightAfter
)

func (a Anchor) String() string {
	names := []string{"unset", "at", "min", "max", "follow", "right-before", "right-after"}
	if int(a) < len(names) {
		return names[a]
	}
	return "unknown"
}

// Point is either a concrete tick or a sentinel resolved per leaf
type Point struct {
	Anchor Anchor
	Tick   int
}

// Tick returns a concrete point
func Tick(t int) Point {
	return Point{Anchor: At, Tick: t}
}

// Sentinel returns a point resolved later
func Sentinel(a Anchor) Point {
	return Point{Anchor: a}
}

// IsSet reports whether the point carries any anchor
func (p Point) IsSet() bool {
	return p.Anchor != Unset
}

// Resolve returns the tick this point denotes for an event at event.
// Min and Max stay strictly before/after any representable event.
func (p Point) Resolve(event int) int {
	switch p.Anchor {
	case At:
		return p.Tick
	case Min:
		return math.MinInt
	case Max:
		return math.MaxInt
	case RightBefore:
		return event - 1
	case RightAfter:
		return event + 1
	}
	return event
}

// Or returns p, or fallback when p is unset
func (p Point) Or(fallback Point) Point {
	if p.IsSet() {
		return p
	}
	return fallback
}
