// Package spin holds the discourse configuration that controls how
// events become text: ordering, tense, pacing, person and filters.
package spin

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kittclouds/telling/pkg/realize"
	"github.com/kittclouds/telling/pkg/style"
	"github.com/kittclouds/telling/pkg/world"
)

// ErrInvalidSpin is wrapped by every configuration error
var ErrInvalidSpin = errors.New("invalid spin")

// ============================================================================
// Enumerations
// ============================================================================

// Order is the strategy used to order told events
type Order uint8

const (
	Chronicle Order = iota
	Retrograde
	Achrony
	Analepsis
	// Syllepsis is accepted and currently orders like Chronicle
	Syllepsis
)

var orderNames = []string{"chronicle", "retrograde", "achrony", "analepsis", "syllepsis"}

func (o Order) String() string {
	if int(o) < len(orderNames) {
		return orderNames[o]
	}
	return "unknown"
}

// ParseOrder parses an order name
func ParseOrder(s string) (Order, error) {
	for i, name := range orderNames {
		if strings.EqualFold(s, name) {
			return Order(i), nil
		}
	}
	return Chronicle, fmt.Errorf("%w: order %q", ErrInvalidSpin, s)
}

// Time places the speech time relative to the told events
type Time uint8

const (
	Before Time = iota
	During
	After
)

var timeNames = []string{"before", "during", "after"}

func (t Time) String() string {
	if int(t) < len(timeNames) {
		return timeNames[t]
	}
	return "unknown"
}

// ParseTime parses "before", "during" or "after"
func ParseTime(s string) (Time, error) {
	for i, name := range timeNames {
		if strings.EqualFold(s, name) {
			return Time(i), nil
		}
	}
	return During, fmt.Errorf("%w: time %q", ErrInvalidSpin, s)
}

// Window selects which known actions a reply may tell: only the current
// ones, or the last N known
type Window struct {
	Current bool
	N       int
}

// CurrentWindow tells only the actions of the current turn
func CurrentWindow() Window {
	return Window{Current: true}
}

// LastWindow tells the last n known actions
func LastWindow(n int) Window {
	return Window{N: n}
}

func (w Window) String() string {
	if w.Current {
		return "current"
	}
	return strconv.Itoa(w.N)
}

// ParseWindow parses "current" or a positive count
func ParseWindow(s string) (Window, error) {
	if strings.EqualFold(s, "current") {
		return CurrentWindow(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return Window{}, fmt.Errorf("%w: window %q", ErrInvalidSpin, s)
	}
	return LastWindow(n), nil
}

// Mode is how a frequency entry tells repeated actions
type Mode uint8

const (
	Singulative Mode = iota
	Iterative
)

func (m Mode) String() string {
	if m == Iterative {
		return "iterative"
	}
	return "default"
}

// ParseMode parses "default" or "iterative"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "default", "":
		return Singulative, nil
	case "iterative":
		return Iterative, nil
	}
	return Singulative, fmt.Errorf("%w: frequency mode %q", ErrInvalidSpin, s)
}

// Frequency applies a mode to the actions of agents with a quality
type Frequency struct {
	Selector string
	Mode     Mode
}

// ============================================================================
// Spin
// ============================================================================

// Spin is the full discourse configuration of one reply
type Spin struct {
	Order       Order
	Time        Time
	Speed       float64
	Progressive bool
	Perfect     bool

	Focalizer world.Tag
	Narrator  world.Tag
	Narratee  world.Tag

	Window    Window
	Frequency []Frequency

	TimeWords        bool
	RoomNameHeadings bool
	KnownDirections  bool

	Future realize.FutureStyle
	// Seed drives the achrony permutation
	Seed int64

	// Filter names, resolved through a style.Registry
	TokenFilters     []string
	SentenceFilters  []string
	ParagraphFilters []string
}

// Default tells the current turn in order, in the present, in the third person
func Default() Spin {
	return Spin{
		Order:            Chronicle,
		Time:             During,
		Speed:            0.75,
		Window:           CurrentWindow(),
		RoomNameHeadings: true,
		KnownDirections:  true,
		Future:           realize.Will,
		Seed:             1,
	}
}

// Validate rejects out-of-range values before planning starts
func (s Spin) Validate() error {
	if int(s.Order) >= len(orderNames) {
		return fmt.Errorf("%w: order %d", ErrInvalidSpin, s.Order)
	}
	if int(s.Time) >= len(timeNames) {
		return fmt.Errorf("%w: time %d", ErrInvalidSpin, s.Time)
	}
	if math.IsNaN(s.Speed) || s.Speed < 0 || s.Speed > 1 {
		return fmt.Errorf("%w: speed %v outside [0,1]", ErrInvalidSpin, s.Speed)
	}
	if !s.Window.Current && s.Window.N <= 0 {
		return fmt.Errorf("%w: window %d", ErrInvalidSpin, s.Window.N)
	}
	for _, f := range s.Frequency {
		if f.Selector == "" {
			return fmt.Errorf("%w: frequency entry without selector", ErrInvalidSpin)
		}
		if f.Mode > Iterative {
			return fmt.Errorf("%w: frequency mode %d", ErrInvalidSpin, f.Mode)
		}
	}
	for name, tag := range map[string]world.Tag{
		"focalizer": s.Focalizer,
		"narrator":  s.Narrator,
		"narratee":  s.Narratee,
	} {
		if tag != "" && !world.IsTag(string(tag)) {
			return fmt.Errorf("%w: %s %q is not a tag", ErrInvalidSpin, name, tag)
		}
	}
	if s.Future > realize.GoingTo {
		return fmt.Errorf("%w: future style %d", ErrInvalidSpin, s.Future)
	}
	return nil
}

// Iterative reports whether actions of agents with quality q are
// aggregated
func (s Spin) Iterative(q string) bool {
	for _, f := range s.Frequency {
		if f.Selector == q && f.Mode == Iterative {
			return true
		}
	}
	return false
}

// Filters resolves the filter names through reg
func (s Spin) Filters(reg *style.Registry) (token, sentence, paragraph []style.Filter, err error) {
	if token, err = reg.Resolve(s.TokenFilters); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: token filters: %w", ErrInvalidSpin, err)
	}
	if sentence, err = reg.Resolve(s.SentenceFilters); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: sentence filters: %w", ErrInvalidSpin, err)
	}
	if paragraph, err = reg.Resolve(s.ParagraphFilters); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: paragraph filters: %w", ErrInvalidSpin, err)
	}
	return token, sentence, paragraph, nil
}
