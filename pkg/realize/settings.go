// Package realize turns slotted sentence templates into English text:
// verb conjugation, pronoun and article choice, orthography and layout.
package realize

import (
	"fmt"
	"strings"

	"github.com/kittclouds/telling/pkg/discourse"
	"github.com/kittclouds/telling/pkg/style"
	"github.com/kittclouds/telling/pkg/tense"
	"github.com/kittclouds/telling/pkg/world"
)

// ============================================================================
// Generator settings
// ============================================================================

// FutureStyle selects the periphrasis used for future reference
type FutureStyle uint8

const (
	Will FutureStyle = iota
	Shall
	GoingTo
)

var futureNames = []string{"will", "shall", "going-to"}

func (f FutureStyle) String() string {
	if int(f) < len(futureNames) {
		return futureNames[f]
	}
	return "unknown"
}

// ParseFutureStyle parses "will", "shall" or "going-to"
func ParseFutureStyle(s string) (FutureStyle, error) {
	for i, name := range futureNames {
		if strings.EqualFold(s, name) {
			return FutureStyle(i), nil
		}
	}
	return Will, fmt.Errorf("unknown future style %q", s)
}

// Settings are the grammatical settings bound to one sentence
type Settings struct {
	Narrator world.Tag
	Narratee world.Tag

	ER          tense.ER
	RS          tense.RS
	Progressive bool
	Future      FutureStyle

	// Time is the tick item lookups use; tokens flagged "end" use End
	Time int
	End  int
}

// personOf gives the grammatical person of a tag under these settings
func (s *Settings) personOf(tag world.Tag) Person {
	switch {
	case tag == "":
		return Third
	case tag == s.Narrator:
		return First
	case tag == s.Narratee:
		return Second
	}
	return Third
}

func (s *Settings) at(end bool) int {
	if end {
		return s.End
	}
	return s.Time
}

// ============================================================================
// Realization context
// ============================================================================

// Typography controls block layout
type Typography struct {
	Indent         string
	IndentFirst    bool
	ParagraphBreak string
	HeadingBefore  string
	HeadingAfter   string
	HeadingOpen    string
	HeadingClose   string
}

// DefaultTypography separates paragraphs with a blank line and brackets
// headings in parentheses
func DefaultTypography() Typography {
	return Typography{
		ParagraphBreak: "\n\n",
		HeadingBefore:  "\n\n",
		HeadingAfter:   "\n",
		HeadingOpen:    "(",
		HeadingClose:   ")",
	}
}

// Context carries what realization reads and the discourse it updates
type Context struct {
	Concept    world.Concept
	Discourse  *discourse.Discourse
	Typography Typography

	TokenFilters     []style.Filter
	SentenceFilters  []style.Filter
	ParagraphFilters []style.Filter

	// Formatters render adjective feature values, keyed by feature name
	Formatters map[string]Formatter
}

// NewContext creates a context with default typography and formatters
func NewContext(c world.Concept, d *discourse.Discourse) *Context {
	if d == nil {
		d = discourse.New()
	}
	return &Context{
		Concept:    c,
		Discourse:  d,
		Typography: DefaultTypography(),
		Formatters: DefaultFormatters(),
	}
}

// ============================================================================
// Clause state
// ============================================================================

// clause is threaded left to right through one sentence
type clause struct {
	subjects []world.Tag

	// literal noun phrase subject, used when no tag is a subject
	literal bool
	number  world.Number

	// tf is set once a finite verb has been emitted
	tf   bool
	caps bool
}

// beginSubject starts a new clause when a subject follows a finite verb
func (c *clause) beginSubject() {
	if c.tf {
		c.subjects = nil
		c.literal = false
		c.tf = false
	}
}

func (c *clause) isSubject(tag world.Tag) bool {
	for _, s := range c.subjects {
		if s == tag {
			return true
		}
	}
	return false
}

// agreement resolves the person and number a verb agrees with
func (c *clause) agreement(ctx *Context, s *Settings) (Person, world.Number) {
	person := Third
	for _, tag := range c.subjects {
		switch s.personOf(tag) {
		case First:
			person = First
		case Second:
			if person != First {
				person = Second
			}
		}
	}

	switch {
	case len(c.subjects) == 1:
		tag := c.subjects[0]
		if s.personOf(tag) != Third {
			return person, world.Singular
		}
		if ctx.Concept != nil {
			if it, ok := ctx.Concept.ItemAt(tag, s.Time); ok {
				return person, it.Number
			}
		}
		return person, world.Singular
	case len(c.subjects) > 1:
		return person, world.Plural
	case c.literal:
		return person, c.number
	}
	return person, world.Plural
}
