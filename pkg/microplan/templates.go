package microplan

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kittclouds/telling/pkg/realize"
	"github.com/kittclouds/telling/pkg/world"
)

// ErrTemplate is returned in strict mode when a template names a role
// the action does not have
var ErrTemplate = errors.New("template error")

// ============================================================================
// Override table and rules
// ============================================================================

// Override replaces template selection for one verb. Before and After
// are told only at speeds of 0.5 and above.
type Override struct {
	Before string
	Main   string
	After  string
}

// DefaultOverrides covers verbs whose plain rendering reads badly
func DefaultOverrides() map[string]Override {
	return map[string]Override{
		"go":    {Main: "[agent/s] [go/v] [direction]"},
		"say":   {Main: `[agent/s] [say/v] "[utterance]"`},
		"wait":  {Main: "[agent/s] [wait/v]"},
		"leave": {Main: "[agent/s] [leave/v] [old_parent/o]"},
		"light": {
			Main:  "[agent/s] [light/v] [direct/o]",
			After: "[direct/s] [be/v] [direct/lit/a/end] now",
		},
		"sleep": {
			Before: "[agent/s] [grow/v] tired",
			Main:   "[agent/s] [fall/v] asleep",
			After:  "[agent/s] [dream/v] of nothing at all",
		},
		"change": {Main: "[agent/s] [change/v] [direct/o] from [old_value] to [new_value]"},
	}
}

// Rule picks a template for actions whose signature matches Pattern
type Rule struct {
	Pattern  *regexp.Regexp
	Template string
}

// NewRule compiles a rule
func NewRule(pattern, template string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("compile rule %q: %w", pattern, err)
	}
	return Rule{Pattern: re, Template: template}, nil
}

// DefaultRules phrase the sensing verbs by modality
func DefaultRules() []Rule {
	return []Rule{
		{regexp.MustCompile(`^sense examine agent=\S+ direct=\S+ modality=sight`), "[agent/s] [look/v] at [direct/o]"},
		{regexp.MustCompile(`^sense examine agent=\S+ direct=\S+ modality=touch`), "[agent/s] [feel/v] [direct/o]"},
		{regexp.MustCompile(`^sense examine agent=\S+ direct=\S+ modality=smell`), "[agent/s] [sniff/v] [direct/o]"},
		{regexp.MustCompile(`^sense examine agent=\S+ direct=\S+ modality=taste`), "[agent/s] [taste/v] [direct/o]"},
		{regexp.MustCompile(`^sense listen agent=\S+( modality=\S+)?$`), "[agent/s] [listen/v]"},
		{regexp.MustCompile(`^sense examine agent=\S+ modality=sight`), "[agent/s] [look/v] around"},
	}
}

// ============================================================================
// Failure phrasing
// ============================================================================

// failureReasons explains unmet preconditions. [culprit/...] is replaced
// by the failure's role. An empty entry is silent: the action that
// caused the failure is told on its own.
var failureReasons = map[string]string{
	"prevented_by":   "",
	"interrupted":    "",
	"not_reachable":  "[culprit/s] [be/v/not] within reach",
	"not_held":       "[agent/s] [be/v/not] holding [culprit/o]",
	"already_held":   "[agent/s] already [have/v] [culprit/o]",
	"not_visible":    "[agent/s] [see/v/not] [culprit/o]",
	"no_exit":        "[agent/s] [see/v/not] any way to go [direction]",
	"locked":         "[culprit/s] [be/v] locked",
	"closed":         "[culprit/s] [be/v] closed",
	"fixed_in_place": "[culprit/s] [be/v] fixed in place",
	"too_heavy":      "[culprit/s] [be/v] too heavy",
}

// explanation returns the template explaining a failure, or "" when the
// failure is silent
func explanation(f world.Failure) string {
	tmpl, known := failureReasons[f.Reason]
	if !known {
		if f.Reason == "" {
			return ""
		}
		tmpl = "[culprit/s] [be/v] " + strings.ReplaceAll(f.Reason, "_", " ")
	}
	return strings.ReplaceAll(tmpl, "[culprit/", "["+f.Role.String()+"/")
}

// firstVerb matches the first verb token of a template
var firstVerb = regexp.MustCompile(`\[([^\]/\s]+)/v((?:/[^\]\s]*)?)\]`)

// modalNegative rewrites the main verb as "[be/v/not] able to VERB";
// refusals use "willing"
func modalNegative(tmpl, modal string) string {
	loc := firstVerb.FindStringSubmatchIndex(tmpl)
	if loc == nil {
		return tmpl
	}
	lemma, particle, _ := strings.Cut(tmpl[loc[2]:loc[3]], "_")
	word := lemma

	flags := "/not"
	for _, f := range strings.Split(tmpl[loc[4]:loc[5]], "/") {
		switch f {
		case "sg", "pl":
			flags += "/" + f
		case "pass":
			word = "be " + realize.PastParticiple(lemma)
		}
	}
	if particle != "" {
		word += " " + strings.ReplaceAll(particle, "_", " ")
	}
	return tmpl[:loc[0]] + "[be/v" + flags + "] " + modal + " to " + word + tmpl[loc[1]:]
}

// ============================================================================
// Default template
// ============================================================================

// defaultTemplate builds a template from the roles present. When the
// agent is not known as an actor the object becomes the subject of a
// passive.
func defaultTemplate(a *world.Action, c world.Concept) string {
	verb := strings.ReplaceAll(a.Verb, " ", "_")
	if a.Direct != "" && (a.Agent == "" || !c.Has(world.Actor, a.Agent)) {
		return "[direct/s] [" + verb + "/v/pass]"
	}

	var b strings.Builder
	b.WriteString("[agent/s] [" + verb + "/v]")
	if a.Direct != "" {
		b.WriteString(" [direct/o]")
	}
	if a.Indirect != "" {
		b.WriteString(" to [indirect/o]")
	}
	if a.Target != "" {
		b.WriteString(" at [target/o]")
	}
	if a.Direction != "" {
		b.WriteString(" [direction]")
	}
	if a.Utterance != "" {
		b.WriteString(` "[utterance]"`)
	}
	return b.String()
}
