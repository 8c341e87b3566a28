package realize

import (
	"strings"

	"github.com/kittclouds/telling/pkg/tense"
	"github.com/kittclouds/telling/pkg/world"
)

// Verb is a verb slot, conjugated against the clause's subjects and the
// sentence's tense settings. Word may be a phrasal verb joined with
// underscores ("pick_up"); only the first word inflects.
type Verb struct {
	Word string

	Not bool
	// Do forces do-support ("does take") for emphasis
	Do bool

	Number    world.Number
	HasNumber bool

	// Ing and Ed add progressive and perfect aspect
	Ing bool
	Ed  bool

	Passive    bool
	Infinitive bool
}

func (Verb) Kind() TokenKind { return KindVerb }

func (v Verb) realize(ctx *Context, s *Settings, c *clause) string {
	person, number := c.agreement(ctx, s)
	if v.HasNumber {
		number = v.Number
	}
	words := Conjugate(v, person, number, s)
	if !v.Infinitive {
		c.tf = true
	}
	return strings.Join(words, " ")
}

// aspectOf combines the sentence's aspect with the token's flags
func aspectOf(perfect, progressive bool) Aspect {
	switch {
	case perfect && progressive:
		return PerfectProgressive
	case perfect:
		return Perfect
	case progressive:
		return Progressive
	}
	return Simple
}

// Conjugate builds the verb group for v: auxiliaries, negation and the
// inflected main verb, in order
func Conjugate(v Verb, person Person, number world.Number, s *Settings) []string {
	lemma, particle, _ := strings.Cut(v.Word, "_")
	particle = strings.ReplaceAll(particle, "_", " ")

	key := verbKey{Person: person, Number: number}
	backshift := false
	switch {
	case v.Infinitive:
		key = verbKey{Person: Third, Relation: Infinitive, Number: world.Singular, Aspect: Simple}
	default:
		key.Relation = TimeRelation(s.RS)
		if s.ER == tense.Posterior {
			// the future seen from a past reference point is "would"
			backshift = s.RS == tense.Past
			key.Relation = Future
		}
		key.Aspect = aspectOf(s.ER == tense.Anterior || v.Ed, s.Progressive || v.Ing)
	}

	form, ok := verbTable[key]
	if !ok {
		form = verbForm{Slot: SlotBase}
	}
	aux := append([]string(nil), form.Aux...)
	slot := form.Slot

	if key.Relation == Future {
		aux = futurePeriphrasis(aux, s.Future, backshift, person, number)
	}

	main := lemma
	if v.Passive {
		main = "be"
	}

	// do-support replaces a synthetic inflection with do/does/did
	if (v.Not || v.Do) && len(aux) == 0 && slot.Finite() && main != "be" {
		aux = []string{inflect("do", slot, person, number)}
		slot = SlotBase
	}

	words := append(aux, inflect(main, slot, person, number))
	if v.Passive {
		words = append(words, PastParticiple(lemma))
	}

	if v.Not {
		switch {
		case v.Infinitive:
			words = append([]string{"not"}, words...)
		case len(aux) > 0:
			words = insertAt(words, 1, "not")
		default:
			words = insertAt(words, len(words)-boolInt(v.Passive), "not")
		}
	}

	if particle != "" {
		words = append(words, particle)
	}
	return words
}

// futurePeriphrasis rewrites the leading "will" of a future chain
func futurePeriphrasis(aux []string, style FutureStyle, backshift bool, p Person, n world.Number) []string {
	if len(aux) == 0 || aux[0] != "will" {
		return aux
	}
	rest := aux[1:]
	switch style {
	case GoingTo:
		be := presentForm("be", p, n)
		if backshift {
			be = pastForm("be", p, n)
		}
		return append([]string{be, "going", "to"}, rest...)
	case Shall:
		if backshift {
			return append([]string{"should"}, rest...)
		}
		return append([]string{"shall"}, rest...)
	}
	if backshift {
		return append([]string{"would"}, rest...)
	}
	return aux
}

func insertAt(words []string, i int, w string) []string {
	words = append(words, "")
	copy(words[i+1:], words[i:])
	words[i] = w
	return words
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
