package realize

import "github.com/kittclouds/telling/pkg/world"

// ============================================================================
// Conjugation table
// ============================================================================

// Person is grammatical person
type Person uint8

const (
	First Person = iota
	Second
	Third
)

// TimeRelation is the reference-to-speech relation a verb is built for,
// plus the non-finite infinitive
type TimeRelation uint8

const (
	Past TimeRelation = iota
	Present
	Future
	Infinitive
)

// Aspect combines perfect (anterior) and progressive marking
type Aspect uint8

const (
	Simple Aspect = iota
	Perfect
	Progressive
	PerfectProgressive
)

// Slot is the inflection the main verb takes after the auxiliaries
type Slot uint8

const (
	SlotBase Slot = iota
	SlotPresent
	SlotPreterite
	SlotPastParticiple
	SlotPresentParticiple
)

// Finite reports whether the slot carries tense and agreement
func (s Slot) Finite() bool {
	return s == SlotPresent || s == SlotPreterite
}

// verbKey addresses one cell of the conjugation table
type verbKey struct {
	Person   Person
	Relation TimeRelation
	Number   world.Number
	Aspect   Aspect
}

// verbForm is an auxiliary chain plus the main verb's inflection
type verbForm struct {
	Aux  []string
	Slot Slot
}

// verbTable holds every finite combination and the infinitive
var verbTable = map[verbKey]verbForm{
	// Past
	{First, Past, world.Singular, Simple}: {nil, SlotPreterite},
	{First, Past, world.Singular, Perfect}: {[]string{"had"}, SlotPastParticiple},
	{First, Past, world.Singular, Progressive}: {[]string{"was"}, SlotPresentParticiple},
	{First, Past, world.Singular, PerfectProgressive}: {[]string{"had", "been"}, SlotPresentParticiple},
	{First, Past, world.Plural, Simple}: {nil, SlotPreterite},
	{First, Past, world.Plural, Perfect}: {[]string{"had"}, SlotPastParticiple},
	{First, Past, world.Plural, Progressive}: {[]string{"were"}, SlotPresentParticiple},
	{First, Past, world.Plural, PerfectProgressive}: {[]string{"had", "been"}, SlotPresentParticiple},
	{Second, Past, world.Singular, Simple}: {nil, SlotPreterite},
	{Second, Past, world.Singular, Perfect}: {[]string{"had"}, SlotPastParticiple},
	{Second, Past, world.Singular, Progressive}: {[]string{"were"}, SlotPresentParticiple},
	{Second, Past, world.Singular, PerfectProgressive}: {[]string{"had", "been"}, SlotPresentParticiple},
	{Second, Past, world.Plural, Simple}: {nil, SlotPreterite},
	{Second, Past, world.Plural, Perfect}: {[]string{"had"}, SlotPastParticiple},
	{Second, Past, world.Plural, Progressive}: {[]string{"were"}, SlotPresentParticiple},
	{Second, Past, world.Plural, PerfectProgressive}: {[]string{"had", "been"}, SlotPresentParticiple},
	{Third, Past, world.Singular, Simple}: {nil, SlotPreterite},
	{Third, Past, world.Singular, Perfect}: {[]string{"had"}, SlotPastParticiple},
	{Third, Past, world.Singular, Progressive}: {[]string{"was"}, SlotPresentParticiple},
	{Third, Past, world.Singular, PerfectProgressive}: {[]string{"had", "been"}, SlotPresentParticiple},
	{Third, Past, world.Plural, Simple}: {nil, SlotPreterite},
	{Third, Past, world.Plural, Perfect}: {[]string{"had"}, SlotPastParticiple},
	{Third, Past, world.Plural, Progressive}: {[]string{"were"}, SlotPresentParticiple},
	{Third, Past, world.Plural, PerfectProgressive}: {[]string{"had", "been"}, SlotPresentParticiple},
	// Present
	{First, Present, world.Singular, Simple}: {nil, SlotPresent},
	{First, Present, world.Singular, Perfect}: {[]string{"have"}, SlotPastParticiple},
	{First, Present, world.Singular, Progressive}: {[]string{"am"}, SlotPresentParticiple},
	{First, Present, world.Singular, PerfectProgressive}: {[]string{"have", "been"}, SlotPresentParticiple},
	{First, Present, world.Plural, Simple}: {nil, SlotPresent},
	{First, Present, world.Plural, Perfect}: {[]string{"have"}, SlotPastParticiple},
	{First, Present, world.Plural, Progressive}: {[]string{"are"}, SlotPresentParticiple},
	{First, Present, world.Plural, PerfectProgressive}: {[]string{"have", "been"}, SlotPresentParticiple},
	{Second, Present, world.Singular, Simple}: {nil, SlotPresent},
	{Second, Present, world.Singular, Perfect}: {[]string{"have"}, SlotPastParticiple},
	{Second, Present, world.Singular, Progressive}: {[]string{"are"}, SlotPresentParticiple},
	{Second, Present, world.Singular, PerfectProgressive}: {[]string{"have", "been"}, SlotPresentParticiple},
	{Second, Present, world.Plural, Simple}: {nil, SlotPresent},
	{Second, Present, world.Plural, Perfect}: {[]string{"have"}, SlotPastParticiple},
	{Second, Present, world.Plural, Progressive}: {[]string{"are"}, SlotPresentParticiple},
	{Second, Present, world.Plural, PerfectProgressive}: {[]string{"have", "been"}, SlotPresentParticiple},
	{Third, Present, world.Singular, Simple}: {nil, SlotPresent},
	{Third, Present, world.Singular, Perfect}: {[]string{"has"}, SlotPastParticiple},
	{Third, Present, world.Singular, Progressive}: {[]string{"is"}, SlotPresentParticiple},
	{Third, Present, world.Singular, PerfectProgressive}: {[]string{"has", "been"}, SlotPresentParticiple},
	{Third, Present, world.Plural, Simple}: {nil, SlotPresent},
	{Third, Present, world.Plural, Perfect}: {[]string{"have"}, SlotPastParticiple},
	{Third, Present, world.Plural, Progressive}: {[]string{"are"}, SlotPresentParticiple},
	{Third, Present, world.Plural, PerfectProgressive}: {[]string{"have", "been"}, SlotPresentParticiple},
	// Future
	{First, Future, world.Singular, Simple}: {[]string{"will"}, SlotBase},
	{First, Future, world.Singular, Perfect}: {[]string{"will", "have"}, SlotPastParticiple},
	{First, Future, world.Singular, Progressive}: {[]string{"will", "be"}, SlotPresentParticiple},
	{First, Future, world.Singular, PerfectProgressive}: {[]string{"will", "have", "been"}, SlotPresentParticiple},
	{First, Future, world.Plural, Simple}: {[]string{"will"}, SlotBase},
	{First, Future, world.Plural, Perfect}: {[]string{"will", "have"}, SlotPastParticiple},
	{First, Future, world.Plural, Progressive}: {[]string{"will", "be"}, SlotPresentParticiple},
	{First, Future, world.Plural, PerfectProgressive}: {[]string{"will", "have", "been"}, SlotPresentParticiple},
	{Second, Future, world.Singular, Simple}: {[]string{"will"}, SlotBase},
	{Second, Future, world.Singular, Perfect}: {[]string{"will", "have"}, SlotPastParticiple},
	{Second, Future, world.Singular, Progressive}: {[]string{"will", "be"}, SlotPresentParticiple},
	{Second, Future, world.Singular, PerfectProgressive}: {[]string{"will", "have", "been"}, SlotPresentParticiple},
	{Second, Future, world.Plural, Simple}: {[]string{"will"}, SlotBase},
	{Second, Future, world.Plural, Perfect}: {[]string{"will", "have"}, SlotPastParticiple},
	{Second, Future, world.Plural, Progressive}: {[]string{"will", "be"}, SlotPresentParticiple},
	{Second, Future, world.Plural, PerfectProgressive}: {[]string{"will", "have", "been"}, SlotPresentParticiple},
	{Third, Future, world.Singular, Simple}: {[]string{"will"}, SlotBase},
	{Third, Future, world.Singular, Perfect}: {[]string{"will", "have"}, SlotPastParticiple},
	{Third, Future, world.Singular, Progressive}: {[]string{"will", "be"}, SlotPresentParticiple},
	{Third, Future, world.Singular, PerfectProgressive}: {[]string{"will", "have", "been"}, SlotPresentParticiple},
	{Third, Future, world.Plural, Simple}: {[]string{"will"}, SlotBase},
	{Third, Future, world.Plural, Perfect}: {[]string{"will", "have"}, SlotPastParticiple},
	{Third, Future, world.Plural, Progressive}: {[]string{"will", "be"}, SlotPresentParticiple},
	{Third, Future, world.Plural, PerfectProgressive}: {[]string{"will", "have", "been"}, SlotPresentParticiple},
	// Infinitive
	{Third, Infinitive, world.Singular, Simple}: {[]string{"to"}, SlotBase},
}
