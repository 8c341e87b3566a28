package spin

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/hack-pad/hackpadfs"
	"github.com/kittclouds/telling/pkg/realize"
	"github.com/kittclouds/telling/pkg/style"
	"github.com/kittclouds/telling/pkg/world"
	"gopkg.in/yaml.v3"
)

// ============================================================================
// YAML profile
// ============================================================================

// profile is the on-disk form of a Spin. Absent fields keep the defaults.
type profile struct {
	Order       *string  `yaml:"order,omitempty"`
	Time        *string  `yaml:"time,omitempty"`
	Speed       *float64 `yaml:"speed,omitempty"`
	Progressive *bool    `yaml:"progressive,omitempty"`
	Perfect     *bool    `yaml:"perfect,omitempty"`

	Focalizer *string `yaml:"focalizer,omitempty"`
	Narrator  *string `yaml:"narrator,omitempty"`
	Narratee  *string `yaml:"narratee,omitempty"`

	Window    *string          `yaml:"window,omitempty"`
	Frequency []frequencyEntry `yaml:"frequency,omitempty"`

	TimeWords        *bool `yaml:"time_words,omitempty"`
	RoomNameHeadings *bool `yaml:"room_name_headings,omitempty"`
	KnownDirections  *bool `yaml:"known_directions,omitempty"`

	Future *string `yaml:"future,omitempty"`
	Seed   *int64  `yaml:"seed,omitempty"`

	Filters filterNames `yaml:"filters,omitempty"`
}

type frequencyEntry struct {
	Selector string `yaml:"selector"`
	Mode     string `yaml:"mode"`
}

type filterNames struct {
	Token     []string `yaml:"token,omitempty"`
	Sentence  []string `yaml:"sentence,omitempty"`
	Paragraph []string `yaml:"paragraph,omitempty"`
}

// ParseProfile reads a YAML profile over Default and validates it. When
// reg is non-nil every filter name must be registered.
func ParseProfile(data []byte, reg *style.Registry) (Spin, error) {
	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Spin{}, fmt.Errorf("parse spin profile: %w", err)
	}

	s, err := p.apply(Default())
	if err != nil {
		return Spin{}, err
	}
	if err := s.Validate(); err != nil {
		return Spin{}, err
	}
	if reg != nil {
		if _, _, _, err := s.Filters(reg); err != nil {
			return Spin{}, err
		}
	}
	return s, nil
}

func (p profile) apply(s Spin) (Spin, error) {
	var err error
	if p.Order != nil {
		if s.Order, err = ParseOrder(*p.Order); err != nil {
			return s, err
		}
	}
	if p.Time != nil {
		if s.Time, err = ParseTime(*p.Time); err != nil {
			return s, err
		}
	}
	if p.Window != nil {
		if s.Window, err = ParseWindow(*p.Window); err != nil {
			return s, err
		}
	}
	if p.Future != nil {
		if s.Future, err = realize.ParseFutureStyle(*p.Future); err != nil {
			return s, fmt.Errorf("%w: %w", ErrInvalidSpin, err)
		}
	}
	for _, f := range p.Frequency {
		mode, err := ParseMode(f.Mode)
		if err != nil {
			return s, err
		}
		s.Frequency = append(s.Frequency, Frequency{Selector: f.Selector, Mode: mode})
	}

	setFloat(&s.Speed, p.Speed)
	setBool(&s.Progressive, p.Progressive)
	setBool(&s.Perfect, p.Perfect)
	setBool(&s.TimeWords, p.TimeWords)
	setBool(&s.RoomNameHeadings, p.RoomNameHeadings)
	setBool(&s.KnownDirections, p.KnownDirections)
	setTag(&s.Focalizer, p.Focalizer)
	setTag(&s.Narrator, p.Narrator)
	setTag(&s.Narratee, p.Narratee)
	if p.Seed != nil {
		s.Seed = *p.Seed
	}

	s.TokenFilters = append(s.TokenFilters, p.Filters.Token...)
	s.SentenceFilters = append(s.SentenceFilters, p.Filters.Sentence...)
	s.ParagraphFilters = append(s.ParagraphFilters, p.Filters.Paragraph...)
	return s, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setTag(dst *world.Tag, v *string) {
	if v != nil {
		*dst = world.Tag(*v)
	}
}

// MarshalProfile writes every field of s as a YAML profile
func MarshalProfile(s Spin) ([]byte, error) {
	str := func(v string) *string { return &v }
	b := func(v bool) *bool { return &v }

	p := profile{
		Order:            str(s.Order.String()),
		Time:             str(s.Time.String()),
		Speed:            &s.Speed,
		Progressive:      b(s.Progressive),
		Perfect:          b(s.Perfect),
		Window:           str(s.Window.String()),
		TimeWords:        b(s.TimeWords),
		RoomNameHeadings: b(s.RoomNameHeadings),
		KnownDirections:  b(s.KnownDirections),
		Future:           str(s.Future.String()),
		Seed:             &s.Seed,
		Filters: filterNames{
			Token:     s.TokenFilters,
			Sentence:  s.SentenceFilters,
			Paragraph: s.ParagraphFilters,
		},
	}
	if s.Focalizer != "" {
		p.Focalizer = str(string(s.Focalizer))
	}
	if s.Narrator != "" {
		p.Narrator = str(string(s.Narrator))
	}
	if s.Narratee != "" {
		p.Narratee = str(string(s.Narratee))
	}
	for _, f := range s.Frequency {
		p.Frequency = append(p.Frequency, frequencyEntry{Selector: f.Selector, Mode: f.Mode.String()})
	}

	data, err := yaml.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("marshal spin profile: %w", err)
	}
	return data, nil
}

// LoadProfile reads and parses a profile file from fsys
func LoadProfile(fsys hackpadfs.FS, name string, reg *style.Registry) (Spin, error) {
	data, err := hackpadfs.ReadFile(fsys, name)
	if err != nil {
		return Spin{}, fmt.Errorf("read spin profile %s: %w", name, err)
	}
	s, err := ParseProfile(data, reg)
	if err != nil {
		return Spin{}, fmt.Errorf("spin profile %s: %w", name, err)
	}
	return s, nil
}

// ============================================================================
// Profile store
// ============================================================================

// Store keeps named profiles as YAML files in one directory of a
// hackpadfs file system
type Store struct {
	FS  hackpadfs.FS
	Dir string
	Reg *style.Registry
	mu  sync.RWMutex
}

// NewStore creates a profile store rooted at dir, creating dir if needed
func NewStore(fsys hackpadfs.FS, dir string, reg *style.Registry) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if dir != "." {
		if err := hackpadfs.MkdirAll(fsys, dir, 0755); err != nil {
			return nil, fmt.Errorf("create profile dir %s: %w", dir, err)
		}
	}
	return &Store{FS: fsys, Dir: dir, Reg: reg}, nil
}

func (st *Store) path(name string) string {
	return path.Join(st.Dir, name+".yaml")
}

// Save validates s and writes it under name
func (st *Store) Save(name string, s Spin) error {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("save spin profile: bad name %q", name)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := MarshalProfile(s)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if err := hackpadfs.WriteFullFile(st.FS, st.path(name), data, 0644); err != nil {
		return fmt.Errorf("write spin profile %s: %w", name, err)
	}
	return nil
}

// Load reads the profile saved under name
func (st *Store) Load(name string) (Spin, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return LoadProfile(st.FS, st.path(name), st.Reg)
}

// List returns the saved profile names in sorted order
func (st *Store) List() ([]string, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	entries, err := hackpadfs.ReadDir(st.FS, st.Dir)
	if err != nil {
		return nil, fmt.Errorf("list spin profiles: %w", err)
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
