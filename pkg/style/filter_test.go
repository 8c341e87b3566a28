package style

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractions(t *testing.T) {
	c := Contractions()

	tests := []struct {
		in, want string
	}{
		{"the adventurer is not able to take the lamp", "the adventurer isn't able to take the lamp"},
		{"Did not", "Didn't"},
		{"you will not go", "you won't go"},
		{"this isnotmatched", "this isnotmatched"},
		{"nothing here", "nothing here"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, c.Replace(tc.in), tc.in)
	}
}

func TestBritishWholeWordsOnly(t *testing.T) {
	b := British()
	assert.Equal(t, "A grey colour", b.Replace("A gray color"))
	assert.Equal(t, "colorful", b.Replace("colorful"))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"british", "contractions", "shout", "trim"}, r.Names())

	err := r.Register("reverse", FilterFunc(func(p []string) []string {
		out := make([]string, len(p))
		for i := range p {
			out[len(p)-1-i] = p[i]
		}
		return out
	}))
	require.NoError(t, err)
	assert.Error(t, r.Register("reverse", FilterFunc(trim)), "duplicate names are rejected")

	filters, err := r.Resolve([]string{"trim", "reverse", "shout"})
	require.NoError(t, err)
	got := Chain(filters, []string{" a ", "", "b"})
	assert.Equal(t, []string{"B", "A"}, got)

	_, err = r.Resolve([]string{"trim", "nope"})
	assert.True(t, errors.Is(err, ErrUnknownFilter))
	assert.True(t, strings.Contains(err.Error(), "nope"))
}
