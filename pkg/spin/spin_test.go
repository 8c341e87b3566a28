package spin

import (
	"errors"
	"math"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/kittclouds/telling/pkg/realize"
	"github.com/kittclouds/telling/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	o, err := ParseOrder("Retrograde")
	require.NoError(t, err)
	assert.Equal(t, Retrograde, o)

	_, err = ParseOrder("sideways")
	assert.True(t, errors.Is(err, ErrInvalidSpin))

	tm, err := ParseTime("after")
	require.NoError(t, err)
	assert.Equal(t, After, tm)

	_, err = ParseTime("never")
	assert.True(t, errors.Is(err, ErrInvalidSpin))

	w, err := ParseWindow("current")
	require.NoError(t, err)
	assert.True(t, w.Current)

	w, err = ParseWindow("4")
	require.NoError(t, err)
	assert.Equal(t, LastWindow(4), w)

	for _, bad := range []string{"0", "-2", "lots"} {
		_, err := ParseWindow(bad)
		assert.True(t, errors.Is(err, ErrInvalidSpin), bad)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	tests := []struct {
		name   string
		mutate func(*Spin)
	}{
		{"order", func(s *Spin) { s.Order = Order(9) }},
		{"time", func(s *Spin) { s.Time = Time(3) }},
		{"speed high", func(s *Spin) { s.Speed = 1.5 }},
		{"speed nan", func(s *Spin) { s.Speed = math.NaN() }},
		{"window", func(s *Spin) { s.Window = Window{} }},
		{"frequency", func(s *Spin) { s.Frequency = []Frequency{{Mode: Iterative}} }},
		{"focalizer", func(s *Spin) { s.Focalizer = "adventurer" }},
		{"future", func(s *Spin) { s.Future = realize.FutureStyle(7) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSpin) {
				t.Errorf("expected ErrInvalidSpin, got %v", err)
			}
		})
	}
}

func TestParseProfile(t *testing.T) {
	data := []byte(`
order: analepsis
time: after
speed: 0.5
progressive: true
focalizer: "@adventurer"
narratee: "@adventurer"
window: 3
frequency:
  - selector: guard
    mode: iterative
time_words: true
known_directions: false
future: going-to
seed: 42
filters:
  sentence: [contractions]
`)
	s, err := ParseProfile(data, style.NewRegistry())
	require.NoError(t, err)

	assert.Equal(t, Analepsis, s.Order)
	assert.Equal(t, After, s.Time)
	assert.Equal(t, 0.5, s.Speed)
	assert.True(t, s.Progressive)
	assert.False(t, s.Perfect)
	assert.Equal(t, "@adventurer", string(s.Focalizer))
	assert.Equal(t, "@adventurer", string(s.Narratee))
	assert.Equal(t, LastWindow(3), s.Window)
	assert.True(t, s.Iterative("guard"))
	assert.False(t, s.Iterative("thief"))
	assert.True(t, s.TimeWords)
	assert.True(t, s.RoomNameHeadings, "unset fields keep defaults")
	assert.False(t, s.KnownDirections)
	assert.Equal(t, realize.GoingTo, s.Future)
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, []string{"contractions"}, s.SentenceFilters)
}

func TestParseProfileErrors(t *testing.T) {
	reg := style.NewRegistry()
	for name, data := range map[string]string{
		"bad order":      "order: backwards",
		"bad speed":      "speed: 2",
		"bad future":     "future: someday",
		"bad mode":       "frequency: [{selector: guard, mode: sometimes}]",
		"unknown filter": "filters: {token: [pirate]}",
	} {
		_, err := ParseProfile([]byte(data), reg)
		assert.True(t, errors.Is(err, ErrInvalidSpin), "%s: %v", name, err)
	}

	_, err := ParseProfile([]byte("filters: {token: [pirate]}"), reg)
	assert.True(t, errors.Is(err, style.ErrUnknownFilter))

	_, err = ParseProfile([]byte("order: [1, 2"), reg)
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	require.NoError(t, hackpadfs.WriteFullFile(fs, "retro.yaml", []byte("order: retrograde\n"), 0644))

	s, err := LoadProfile(fs, "retro.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, Retrograde, s.Order)

	_, err = LoadProfile(fs, "missing.yaml", nil)
	assert.Error(t, err)
}

func TestStore_RoundTrip(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)

	st, err := NewStore(fs, "profiles", style.NewRegistry())
	require.NoError(t, err)

	s := Default()
	s.Order = Achrony
	s.Seed = 7
	s.Narrator = "@bob"
	s.Window = LastWindow(2)
	s.Frequency = []Frequency{{Selector: "guard", Mode: Iterative}}
	s.ParagraphFilters = []string{"trim"}
	require.NoError(t, st.Save("noir", s))
	require.NoError(t, st.Save("plain", Default()))

	got, err := st.Load("noir")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	names, err := st.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"noir", "plain"}, names)

	bad := Default()
	bad.Speed = -1
	assert.True(t, errors.Is(st.Save("bad", bad), ErrInvalidSpin))
	assert.Error(t, st.Save("../escape", Default()))
}
