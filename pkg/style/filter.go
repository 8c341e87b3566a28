// Package style provides the pluggable text filters applied to realized
// tokens, sentences and paragraphs. Filters are registered by name so that
// spin profiles can refer to them; nothing is loaded or executed dynamically.
package style

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownFilter is returned when a profile names an unregistered filter
var ErrUnknownFilter = errors.New("unknown filter")

// Filter rewrites a list of phrases
type Filter interface {
	Apply(phrases []string) []string
}

// FilterFunc adapts a function to Filter
type FilterFunc func(phrases []string) []string

func (f FilterFunc) Apply(phrases []string) []string {
	return f(phrases)
}

// Chain applies filters in order
func Chain(filters []Filter, phrases []string) []string {
	for _, f := range filters {
		phrases = f.Apply(phrases)
	}
	return phrases
}

// ============================================================================
// Registry
// ============================================================================

// Registry maps filter names to filters
type Registry struct {
	filters map[string]Filter
}

// NewRegistry creates a registry holding the built-in filters
func NewRegistry() *Registry {
	r := &Registry{filters: make(map[string]Filter)}
	r.filters["contractions"] = Contractions()
	r.filters["british"] = British()
	r.filters["shout"] = FilterFunc(shout)
	r.filters["trim"] = FilterFunc(trim)
	return r
}

// Register adds a filter under name; names may not be reused
func (r *Registry) Register(name string, f Filter) error {
	if name == "" || f == nil {
		return fmt.Errorf("register filter: name and filter are required")
	}
	if _, exists := r.filters[name]; exists {
		return fmt.Errorf("register filter %q: already registered", name)
	}
	r.filters[name] = f
	return nil
}

// Lookup finds a filter by name
func (r *Registry) Lookup(name string) (Filter, error) {
	f, ok := r.filters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return f, nil
}

// Resolve looks up every name, in order
func (r *Registry) Resolve(names []string) ([]Filter, error) {
	out := make([]Filter, 0, len(names))
	for _, name := range names {
		f, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Names lists the registered filter names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ============================================================================
// Simple built-ins
// ============================================================================

func shout(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = strings.ToUpper(p)
	}
	return out
}

func trim(phrases []string) []string {
	out := phrases[:0:0]
	for _, p := range phrases {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
