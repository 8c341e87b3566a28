package world

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// Story files
// ============================================================================

// Story is a world loaded from a YAML story file
type Story struct {
	Model *Model
	// Tell holds the action ids of the current turn
	Tell []int
}

// templateList accepts either a single template string or a list
type templateList []string

func (l *templateList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = templateList{node.Value}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}
		*l = many
		return nil
	}
	return fmt.Errorf("line %d: template must be a string or a list", node.Line)
}

type storyFile struct {
	Now     int           `yaml:"now"`
	Tell    []int         `yaml:"tell"`
	Items   []itemEntry   `yaml:"items"`
	Actions []actionEntry `yaml:"actions"`
}

type itemState struct {
	At       int                 `yaml:"at"`
	Removed  bool                `yaml:"removed"`
	Called   string              `yaml:"called"`
	Article  *string             `yaml:"article"`
	Parent   Tag                 `yaml:"parent"`
	Link     string              `yaml:"link"`
	Features map[string]any      `yaml:"features"`
	Senses   map[string][]string `yaml:"senses"`
	Exits    map[string]Tag      `yaml:"exits"`
	View     map[Tag]string      `yaml:"view"`
}

type itemEntry struct {
	itemState `yaml:",inline"`
	Tag       Tag         `yaml:"tag"`
	Number    string      `yaml:"number"`
	Gender    string      `yaml:"gender"`
	Kind      string      `yaml:"kind"`
	Qualities []string    `yaml:"qualities"`
	States    []itemState `yaml:"states"`
}

type failureEntry struct {
	Reason string `yaml:"reason"`
	Role   string `yaml:"role"`
}

type actionEntry struct {
	ID        int            `yaml:"id"`
	Verb      string         `yaml:"verb"`
	Category  string         `yaml:"category"`
	Agent     Tag            `yaml:"agent"`
	Direct    Tag            `yaml:"direct"`
	Indirect  Tag            `yaml:"indirect"`
	Target    Tag            `yaml:"target"`
	NewParent Tag            `yaml:"new_parent"`
	OldParent Tag            `yaml:"old_parent"`
	Direction string         `yaml:"direction"`
	Utterance string         `yaml:"utterance"`
	OldLink   string         `yaml:"old_link"`
	Feature   string         `yaml:"feature"`
	OldValue  string         `yaml:"old_value"`
	NewValue  string         `yaml:"new_value"`
	Start     int            `yaml:"start"`
	End       int            `yaml:"end"`
	Salience  *float64       `yaml:"salience"`
	Template  templateList   `yaml:"template"`
	Failed    []failureEntry `yaml:"failed"`
	Refusal   string         `yaml:"refusal"`
	Final     bool           `yaml:"final"`
	Modality  string         `yaml:"modality"`
}

// LoadStory parses a YAML story file
func LoadStory(data []byte) (*Story, error) {
	var f storyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse story: %w", err)
	}

	m := NewModel()
	for _, e := range f.Items {
		if !IsTag(string(e.Tag)) {
			return nil, fmt.Errorf("item %q: tags must start with @", e.Tag)
		}
		base := &Item{
			Tag:       e.Tag,
			Article:   "the",
			Kind:      ParseKind(e.Kind),
			Gender:    ParseGender(e.Gender),
			Qualities: e.Qualities,
		}
		if e.Gender == "" {
			base.Gender = Neuter
		}
		if e.Number == "plural" {
			base.Number = Plural
		}
		cur, err := applyState(base, e.itemState)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", e.Tag, err)
		}
		m.Record(e.At, cur)
		for _, st := range e.States {
			if st.Removed {
				m.Remove(e.Tag, st.At)
				continue
			}
			if cur, err = applyState(cur, st); err != nil {
				return nil, fmt.Errorf("item %s at %d: %w", e.Tag, st.At, err)
			}
			m.Record(st.At, cur)
		}
	}

	for _, e := range f.Actions {
		a, err := e.action()
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", e.ID, err)
		}
		m.Learn(a)
	}
	if f.Now > 0 {
		m.SetNow(f.Now)
	}

	tell := f.Tell
	if len(tell) == 0 {
		for _, e := range f.Actions {
			tell = append(tell, e.ID)
		}
	}
	return &Story{Model: m, Tell: tell}, nil
}

// applyState overlays the set fields of st on a copy of prev
func applyState(prev *Item, st itemState) (*Item, error) {
	it := prev.Clone()
	if st.Called != "" {
		it.Called = st.Called
	}
	if st.Article != nil {
		it.Article = *st.Article
	}
	if st.Parent != "" {
		it.Parent = st.Parent
	}
	if st.Link != "" {
		it.Link = st.Link
	}
	for k, v := range st.Features {
		if it.Features == nil {
			it.Features = make(map[string]any)
		}
		it.Features[k] = v
	}
	for name, templates := range st.Senses {
		mod, err := ParseModality(name)
		if err != nil {
			return nil, err
		}
		if it.Senses == nil {
			it.Senses = make(map[Modality][]string)
		}
		it.Senses[mod] = templates
	}
	for dir, room := range st.Exits {
		if it.Exits == nil {
			it.Exits = make(map[string]Tag)
		}
		it.Exits[dir] = room
	}
	for room, phrase := range st.View {
		if it.View == nil {
			it.View = make(map[Tag]string)
		}
		it.View[room] = phrase
	}
	return it, nil
}

func (e actionEntry) action() (*Action, error) {
	cat, err := ParseCategory(e.Category)
	if err != nil {
		return nil, err
	}
	a := &Action{
		ID:        e.ID,
		Verb:      e.Verb,
		Category:  cat,
		Agent:     e.Agent,
		Direct:    e.Direct,
		Indirect:  e.Indirect,
		Target:    e.Target,
		NewParent: e.NewParent,
		OldParent: e.OldParent,
		Direction: e.Direction,
		Utterance: e.Utterance,
		OldLink:   e.OldLink,
		Feature:   e.Feature,
		OldValue:  e.OldValue,
		NewValue:  e.NewValue,
		Start:     e.Start,
		End:       e.End,
		Salience:  0.5,
		Template:  e.Template,
		Refusal:   e.Refusal,
		Final:     e.Final,
	}
	if a.End < a.Start {
		a.End = a.Start + 1
	}
	if e.Salience != nil {
		a.Salience = *e.Salience
	}
	if e.Modality != "" {
		if a.Modality, err = ParseModality(e.Modality); err != nil {
			return nil, err
		}
	}
	for _, f := range e.Failed {
		fail := Failure{Reason: f.Reason}
		if f.Role != "" {
			r, ok := ParseRole(f.Role)
			if !ok {
				return nil, fmt.Errorf("unknown role %q in failure", f.Role)
			}
			fail.Role = r
		}
		a.Failed = append(a.Failed, fail)
	}
	return a, nil
}
