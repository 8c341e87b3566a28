package world

import "strings"

// Number is grammatical number
type Number uint8

const (
	Singular Number = iota
	Plural
)

func (n Number) String() string {
	if n == Plural {
		return "plural"
	}
	return "singular"
}

// Gender is grammatical gender; Unknown yields disjunctive pronouns
type Gender uint8

const (
	Neuter Gender = iota
	Female
	Male
	Unknown
)

var genderNames = []string{"neuter", "female", "male", "unknown"}

func (g Gender) String() string {
	if int(g) < len(genderNames) {
		return genderNames[g]
	}
	return "unknown"
}

// ParseGender parses a gender name; anything unrecognized is Unknown
func ParseGender(s string) Gender {
	for i, name := range genderNames {
		if strings.EqualFold(s, name) {
			return Gender(i)
		}
	}
	return Unknown
}

// Kind distinguishes things, actors and rooms
type Kind uint8

const (
	Thing Kind = iota
	Actor
	Room
)

var kindNames = []string{"thing", "actor", "room"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "thing"
}

// ParseKind parses a kind name; anything unrecognized is Thing
func ParseKind(s string) Kind {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i)
		}
	}
	return Thing
}

// Item is the state of one item at one time
type Item struct {
	Tag     Tag
	Called  string
	Article string
	Number  Number
	Gender  Gender
	Kind    Kind

	Qualities []string
	Parent    Tag
	Link      string

	Features map[string]any
	Senses   map[Modality][]string
	Exits    map[string]Tag
	View     map[Tag]string
}

// IsIndefinite reports whether first mention takes an indefinite article
func (it *Item) IsIndefinite() bool {
	switch strings.ToLower(it.Article) {
	case "a", "an", "some":
		return true
	}
	return false
}

// NounPhrase joins an article with the item's name; an empty article
// leaves the bare name
func (it *Item) NounPhrase(article string) string {
	if article == "" {
		return it.Called
	}
	return article + " " + it.Called
}

// HasQuality reports whether the item carries quality q
func (it *Item) HasQuality(q string) bool {
	for _, have := range it.Qualities {
		if have == q {
			return true
		}
	}
	return false
}

// Feature returns the value of a feature
func (it *Item) Feature(name string) (any, bool) {
	if it.Features == nil {
		return nil, false
	}
	v, ok := it.Features[name]
	return v, ok
}

// Clone returns a copy whose maps and slices may be changed independently
func (it *Item) Clone() *Item {
	c := *it
	c.Qualities = append([]string(nil), it.Qualities...)
	if it.Features != nil {
		c.Features = make(map[string]any, len(it.Features))
		for k, v := range it.Features {
			c.Features[k] = v
		}
	}
	if it.Senses != nil {
		c.Senses = make(map[Modality][]string, len(it.Senses))
		for k, v := range it.Senses {
			c.Senses[k] = append([]string(nil), v...)
		}
	}
	if it.Exits != nil {
		c.Exits = make(map[string]Tag, len(it.Exits))
		for k, v := range it.Exits {
			c.Exits[k] = v
		}
	}
	if it.View != nil {
		c.View = make(map[Tag]string, len(it.View))
		for k, v := range it.View {
			c.View[k] = v
		}
	}
	return &c
}
