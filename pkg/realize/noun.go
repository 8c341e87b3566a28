package realize

import (
	"strings"

	"github.com/kittclouds/telling/pkg/world"
)

// ============================================================================
// Pronoun table
// ============================================================================

// Case is the grammatical case of a reference
type Case uint8

const (
	Nominative Case = iota
	Objective
	Reflexive
	Possessive
)

// pronouns is indexed [case][person][number][gender] with gender in
// world.Gender order (neuter, female, male, unknown)
var pronouns = [4][3][2][4]string{
	Nominative: {
		First: {
			{"I", "I", "I", "I"},
			{"we", "we", "we", "we"},
		},
		Second: {
			{"you", "you", "you", "you"},
			{"you", "you", "you", "you"},
		},
		Third: {
			{"it", "she", "he", "she or he"},
			{"they", "they", "they", "they"},
		},
	},
	Objective: {
		First: {
			{"me", "me", "me", "me"},
			{"us", "us", "us", "us"},
		},
		Second: {
			{"you", "you", "you", "you"},
			{"you", "you", "you", "you"},
		},
		Third: {
			{"it", "her", "him", "her or him"},
			{"them", "them", "them", "them"},
		},
	},
	Reflexive: {
		First: {
			{"myself", "myself", "myself", "myself"},
			{"ourselves", "ourselves", "ourselves", "ourselves"},
		},
		Second: {
			{"yourself", "yourself", "yourself", "yourself"},
			{"yourselves", "yourselves", "yourselves", "yourselves"},
		},
		Third: {
			{"itself", "herself", "himself", "herself or himself"},
			{"themselves", "themselves", "themselves", "themselves"},
		},
	},
	Possessive: {
		First: {
			{"my", "my", "my", "my"},
			{"our", "our", "our", "our"},
		},
		Second: {
			{"your", "your", "your", "your"},
			{"your", "your", "your", "your"},
		},
		Third: {
			{"its", "her", "his", "her or his"},
			{"their", "their", "their", "their"},
		},
	},
}

// PronounFor looks up one cell of the pronoun table
func PronounFor(c Case, p Person, n world.Number, g world.Gender) string {
	if g > world.Unknown {
		g = world.Unknown
	}
	return pronouns[c][p][n][g]
}

// ============================================================================
// Noun
// ============================================================================

// Noun refers to an item in subject, object or genitive position
type Noun struct {
	Tag  world.Tag
	Case Case
	// Pronoun forces a pronoun instead of a noun phrase
	Pronoun bool
	// End looks the item up at the end of the action
	End bool
}

func (Noun) Kind() TokenKind { return KindNoun }

func (n Noun) realize(ctx *Context, s *Settings, c *clause) string {
	reflexive := false
	switch n.Case {
	case Nominative:
		c.beginSubject()
		c.subjects = append(c.subjects, n.Tag)
	case Objective:
		reflexive = c.isSubject(n.Tag)
	}

	person := s.personOf(n.Tag)
	item, ok := lookup(ctx, n.Tag, s.at(n.End))
	if !ok {
		if person != Third {
			item = &world.Item{Tag: n.Tag, Gender: world.Unknown}
		} else if n.Case == Possessive {
			return "something's"
		} else {
			return "something"
		}
	}

	if n.Pronoun || reflexive || person != Third {
		pc := n.Case
		if reflexive {
			pc = Reflexive
		}
		number := item.Number
		if person != Third {
			number = world.Singular
		}
		return PronounFor(pc, person, number, item.Gender)
	}

	np := nounPhrase(ctx, item)
	if n.Case == Possessive {
		return np + "'s"
	}
	return np
}

// nounPhrase chooses the article from the givens and introduces the item
func nounPhrase(ctx *Context, item *world.Item) string {
	article := item.Article
	if item.IsIndefinite() && ctx.Discourse != nil && ctx.Discourse.IsGiven(item.Tag) {
		article = "the"
	}
	if strings.EqualFold(article, "a") && startsWithVowel(item.Called) {
		article = "an"
	}
	if ctx.Discourse != nil {
		ctx.Discourse.Introduce(item.Tag)
	}
	return item.NounPhrase(article)
}

func startsWithVowel(s string) bool {
	return s != "" && strings.IndexByte("aeiouAEIOU", s[0]) >= 0
}

func lookup(ctx *Context, tag world.Tag, t int) (*world.Item, bool) {
	if ctx.Concept == nil {
		return nil, false
	}
	return ctx.Concept.ItemAt(tag, t)
}

// ============================================================================
// Pronoun
// ============================================================================

// Pronoun is always the possessive determiner of an item: my, her, its
type Pronoun struct {
	Tag world.Tag
}

func (Pronoun) Kind() TokenKind { return KindPronoun }

func (p Pronoun) realize(ctx *Context, s *Settings, _ *clause) string {
	person := s.personOf(p.Tag)
	item, ok := lookup(ctx, p.Tag, s.Time)
	if !ok {
		if person == Third {
			return "its"
		}
		return PronounFor(Possessive, person, world.Singular, world.Unknown)
	}
	number := item.Number
	if person != Third {
		number = world.Singular
	}
	return PronounFor(Possessive, person, number, item.Gender)
}
