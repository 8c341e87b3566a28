// Package world holds the read-only view of the simulation that narration
// consumes: actions, items and an actor's time-indexed Concept of both.
package world

import (
	"fmt"
	"sort"
	"strings"
)

// Tag identifies an item, conventionally "@name"
type Tag string

// IsTag reports whether s looks like an item tag
func IsTag(s string) bool {
	return len(s) > 1 && s[0] == '@'
}

// ============================================================================
// Category
// ============================================================================

// Category is the kind of change an action makes
type Category uint8

const (
	Behave Category = iota
	Configure
	Modify
	Sense
)

var categoryNames = []string{"behave", "configure", "modify", "sense"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// ParseCategory parses a category name
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action category %q", s)
}

// ============================================================================
// Modality
// ============================================================================

// Modality is the sense used by a Sense action
type Modality uint8

const (
	Sight Modality = iota
	Touch
	Hearing
	Smell
	Taste
)

var modalityNames = []string{"sight", "touch", "hearing", "smell", "taste"}

func (m Modality) String() string {
	if int(m) < len(modalityNames) {
		return modalityNames[m]
	}
	return "unknown"
}

// ParseModality parses a modality name
func ParseModality(s string) (Modality, error) {
	for i, name := range modalityNames {
		if strings.EqualFold(s, name) {
			return Modality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown modality %q", s)
}

// ============================================================================
// Role
// ============================================================================

// Role names a participant slot of an action
type Role uint8

const (
	Agent Role = iota
	Direct
	Indirect
	Direction
	Utterance
	Target
	NewParent
	OldParent
	OldLink
	Feature
	OldValue
	NewValue
)

var roleNames = []string{
	"agent", "direct", "indirect", "direction", "utterance", "target",
	"new_parent", "old_parent", "old_link", "feature", "old_value", "new_value",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// IsItem reports whether the role refers to an item (as opposed to a value)
func (r Role) IsItem() bool {
	switch r {
	case Agent, Direct, Indirect, Target, NewParent, OldParent:
		return true
	}
	return false
}

// ParseRole parses a role name
func ParseRole(s string) (Role, bool) {
	for i, name := range roleNames {
		if s == name {
			return Role(i), true
		}
	}
	return 0, false
}

// Roles lists every role in declaration order
func Roles() []Role {
	out := make([]Role, len(roleNames))
	for i := range roleNames {
		out[i] = Role(i)
	}
	return out
}

// ============================================================================
// Action
// ============================================================================

// Failure is one unmet precondition of an attempted action
type Failure struct {
	Reason string
	Role   Role
}

// Action is a completed event of the simulation
type Action struct {
	ID       int
	Verb     string
	Category Category
	Agent    Tag

	Direct    Tag
	Indirect  Tag
	Target    Tag
	NewParent Tag
	OldParent Tag

	Direction string
	Utterance string
	OldLink   string
	Feature   string
	OldValue  string
	NewValue  string

	Start    int
	End      int
	Salience float64

	// Template holds alternative templates; empty means none was authored
	Template []string
	Failed   []Failure
	Refusal  string
	Final    bool
	Modality Modality
}

// Role returns the filler of a role, if the action has one
func (a *Action) Role(r Role) (string, bool) {
	var v string
	switch r {
	case Agent:
		v = string(a.Agent)
	case Direct:
		v = string(a.Direct)
	case Indirect:
		v = string(a.Indirect)
	case Target:
		v = string(a.Target)
	case NewParent:
		v = string(a.NewParent)
	case OldParent:
		v = string(a.OldParent)
	case Direction:
		v = a.Direction
	case Utterance:
		v = a.Utterance
	case OldLink:
		v = a.OldLink
	case Feature:
		v = a.Feature
	case OldValue:
		v = a.OldValue
	case NewValue:
		v = a.NewValue
	}
	return v, v != ""
}

// Succeeded is true when no precondition failed and nobody refused
func (a *Action) Succeeded() bool {
	return len(a.Failed) == 0 && a.Refusal == ""
}

// Signature renders the action as "<category> <verb> role=value ..."
// in role declaration order, used by template rules.
func (a *Action) Signature() string {
	var b strings.Builder
	b.WriteString(a.Category.String())
	b.WriteByte(' ')
	b.WriteString(a.Verb)
	for _, r := range Roles() {
		if v, ok := a.Role(r); ok {
			b.WriteByte(' ')
			b.WriteString(r.String())
			b.WriteByte('=')
			b.WriteString(strings.ReplaceAll(v, " ", "_"))
		}
	}
	if a.Category == Sense {
		b.WriteString(" modality=")
		b.WriteString(a.Modality.String())
	}
	if !a.Succeeded() {
		b.WriteString(" failed")
	}
	return b.String()
}

// SortByStart orders actions by start tick, then id
func SortByStart(actions []*Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].Start != actions[j].Start {
			return actions[i].Start < actions[j].Start
		}
		return actions[i].ID < actions[j].ID
	})
}
