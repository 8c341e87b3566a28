// Package reply selects which known actions a reply tells, culls and
// aggregates them, orders them and builds the plan tree the microplanner
// consumes.
package reply

import (
	"github.com/kittclouds/telling/pkg/tense"
	"github.com/kittclouds/telling/pkg/world"
)

// Segment distinguishes the main telling from an embedded flashback
type Segment uint8

const (
	Telling Segment = iota
	Flashback
)

func (s Segment) String() string {
	if s == Flashback {
		return "flashback"
	}
	return "telling"
}

// Remark is a fixed piece of narrator commentary
type Remark uint8

const (
	Remember Remark = iota
	Recollected
)

func (r Remark) String() string {
	if r == Recollected {
		return "recollected"
	}
	return "remember"
}

// Node is one of *Internal, *ActionLeaf, *RoomLeaf, *CommentaryLeaf or
// *OkLeaf
type Node interface {
	node()
}

// Internal groups children under a reference and speech time. Unset
// points inherit from the parent.
type Internal struct {
	Segment  Segment
	Ref      tense.Point
	Speech   tense.Point
	Children []Node
}

// ActionLeaf tells one action, or a bundle of repeated actions
type ActionLeaf struct {
	Action *world.Action
	// Bundle holds every aggregated action, Action included
	Bundle []*world.Action

	Event    int
	Prior    int
	HasPrior bool
	Speed    float64
}

// RoomLeaf locates an agent in a room
type RoomLeaf struct {
	Agent world.Tag
	Room  world.Tag

	Event    int
	Prior    int
	HasPrior bool
	Speed    float64
}

// CommentaryLeaf is narrator commentary addressed to the reader
type CommentaryLeaf struct {
	Remark Remark
}

// OkLeaf is told when nothing else is
type OkLeaf struct {
	Event int
}

func (*Internal) node()       {}
func (*ActionLeaf) node()     {}
func (*RoomLeaf) node()       {}
func (*CommentaryLeaf) node() {}
func (*OkLeaf) node()         {}

// Leaves lists the leaves of n depth first
func Leaves(n Node) []Node {
	var out []Node
	var walk func(Node)
	walk = func(n Node) {
		if in, ok := n.(*Internal); ok {
			for _, c := range in.Children {
				walk(c)
			}
			return
		}
		if n != nil {
			out = append(out, n)
		}
	}
	walk(n)
	return out
}
