// Package microplan walks a reply plan, works out tense and aspect for
// every leaf and picks the templates that the realizer expands.
package microplan

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/kittclouds/telling/pkg/discourse"
	"github.com/kittclouds/telling/pkg/realize"
	"github.com/kittclouds/telling/pkg/reply"
	"github.com/kittclouds/telling/pkg/spin"
	"github.com/kittclouds/telling/pkg/tense"
	"github.com/kittclouds/telling/pkg/world"
	"go.uber.org/zap"
)

// Planner turns reply plans into sections
type Planner struct {
	logger *zap.Logger

	Overrides map[string]Override
	Rules     []Rule
	// Strict makes a missing role an error instead of diagnostic text
	Strict bool
}

// NewPlanner creates a planner with the default overrides and rules
func NewPlanner(logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		logger:    logger,
		Overrides: DefaultOverrides(),
		Rules:     DefaultRules(),
	}
}

// AddRule appends a signature rule; earlier rules win
func (p *Planner) AddRule(pattern, template string) error {
	r, err := NewRule(pattern, template)
	if err != nil {
		return err
	}
	p.Rules = append(p.Rules, r)
	return nil
}

// frame is the reference and speech time in force for a subtree
type frame struct {
	ref    tense.Point
	speech tense.Point
}

// job carries one Specify call
type job struct {
	*Planner
	concept world.Concept
	spin    spin.Spin
	disc    *discourse.Discourse
	out     *realize.Section
}

// Specify builds the section for a plan tree. Every told action is
// counted in d.
func (p *Planner) Specify(n reply.Node, c world.Concept, s spin.Spin, d *discourse.Discourse) (*realize.Section, error) {
	if d == nil {
		d = discourse.New()
	}
	j := &job{Planner: p, concept: c, spin: s, disc: d, out: &realize.Section{}}
	root := frame{ref: tense.Sentinel(tense.Follow), speech: speechPoint(s.Time)}
	if err := j.node(n, root); err != nil {
		return nil, err
	}
	return j.out, nil
}

func speechPoint(t spin.Time) tense.Point {
	switch t {
	case spin.Before:
		return tense.Sentinel(tense.Min)
	case spin.After:
		return tense.Sentinel(tense.Max)
	}
	return tense.Sentinel(tense.Follow)
}

func (j *job) node(n reply.Node, f frame) error {
	switch n := n.(type) {
	case *reply.Internal:
		inner := frame{ref: n.Ref.Or(f.ref), speech: n.Speech.Or(f.speech)}
		// a subtree pinned to a tick is told from that tick
		if n.Ref.Anchor == tense.At && !n.Speech.IsSet() && f.speech.Anchor == tense.Follow {
			inner.speech = n.Ref
		}
		for _, child := range n.Children {
			if err := j.node(child, inner); err != nil {
				return err
			}
		}
		return nil
	case *reply.ActionLeaf:
		return j.action(n, f)
	case *reply.RoomLeaf:
		return j.room(n, f)
	case *reply.CommentaryLeaf:
		j.commentary(n)
		return nil
	case *reply.OkLeaf:
		s := j.settings(f, n.Event, n.Event)
		j.out.Add(paragraph(realize.NewSentence("nothing [happen/v/sg]", s)))
		return nil
	case nil:
		return nil
	}
	return fmt.Errorf("specify: unexpected node %T", n)
}

// settings derives the tense pair for an event under a frame
func (j *job) settings(f frame, event, end int) realize.Settings {
	ref := f.ref.Resolve(event)
	speech := f.speech.Resolve(event)
	er, rs := tense.Reichenbach(event, ref, speech)
	return realize.Settings{
		Narrator:    j.spin.Narrator,
		Narratee:    j.spin.Narratee,
		ER:          er,
		RS:          rs,
		Progressive: j.spin.Progressive,
		Future:      j.spin.Future,
		Time:        event,
		End:         end,
	}
}

func paragraph(sentences ...*realize.Sentence) *realize.Paragraph {
	return &realize.Paragraph{Sentences: sentences}
}

// ============================================================================
// Action leaves
// ============================================================================

func (j *job) action(leaf *reply.ActionLeaf, f frame) error {
	a := leaf.Action
	tally := j.disc.Tell(a.ID)
	for _, b := range leaf.Bundle {
		if b != a {
			j.disc.Tell(b.ID)
		}
	}
	s := j.settings(f, leaf.Event, a.End)

	override := j.Overrides[a.Verb]
	main := j.selectTemplate(a, override, tally)

	var extra []string
	switch {
	case a.Refusal != "":
		main = modalNegative(main, "willing")
		extra = append(extra, a.Refusal)
	case len(a.Failed) > 0:
		main = modalNegative(main, "able")
		if why := explanation(a.Failed[0]); why != "" {
			extra = append(extra, why)
		}
	}
	if adverb := j.timeWord(leaf); adverb != "" {
		main = adverb + " " + main
	}

	slow := leaf.Speed >= 0.5
	if slow && override.Before != "" && a.Succeeded() {
		sent, err := j.sentence(override.Before, a, s)
		if err != nil {
			return err
		}
		j.out.Add(paragraph(sent))
	}

	body := &realize.Paragraph{}
	for _, tmpl := range append([]string{main}, extra...) {
		sent, err := j.sentence(tmpl, a, s)
		if err != nil {
			return err
		}
		body.Add(sent)
	}
	if len(leaf.Bundle) > 1 {
		body.Add(realize.NewSentence("[this] [happen/v/sg] "+strconv.Itoa(len(leaf.Bundle))+" times", s))
	}
	j.out.Add(body)

	if slow && override.After != "" && a.Succeeded() {
		sent, err := j.sentence(override.After, a, s)
		if err != nil {
			return err
		}
		j.out.Add(paragraph(sent))
	}

	if a.Category == world.Sense && a.Succeeded() && j.spin.Focalizer != "" && a.Agent == j.spin.Focalizer {
		j.describe(a, s, tally)
	}
	return nil
}

// selectTemplate picks, in order: the verb override, the first matching
// rule, the action's own template, then a synthesized default
func (j *job) selectTemplate(a *world.Action, override Override, tally int) string {
	if override.Main != "" {
		return override.Main
	}
	sig := a.Signature()
	for _, r := range j.Rules {
		if r.Pattern.MatchString(sig) {
			return r.Template
		}
	}
	if len(a.Template) > 0 {
		return a.Template[tally%len(a.Template)]
	}
	return defaultTemplate(a, j.concept)
}

// timeWord is the adverbial marking non-monotonic or simultaneous order
func (j *job) timeWord(leaf *reply.ActionLeaf) string {
	if !j.spin.TimeWords || !leaf.HasPrior {
		return ""
	}
	switch {
	case leaf.Event == leaf.Prior:
		return "meanwhile,"
	case leaf.Event < leaf.Prior:
		return "before that,"
	case j.spin.Order != spin.Chronicle:
		return "then,"
	}
	return ""
}

// roleToken matches a bracketed token whose head may be a role name
var roleToken = regexp.MustCompile(`\[([a-z_]+)((?:/[^\]\s]*)?)\]`)

// substitute fills role placeholders: item roles become tags, value roles
// become their text
func (j *job) substitute(tmpl string, a *world.Action) (string, error) {
	var missing error
	out := roleToken.ReplaceAllStringFunc(tmpl, func(tok string) string {
		m := roleToken.FindStringSubmatch(tok)
		head, rest := m[1], m[2]
		role, ok := world.ParseRole(head)
		if !ok || rest == "/v" || (len(rest) > 2 && rest[:3] == "/v/") {
			return tok
		}
		v, ok := a.Role(role)
		if !ok {
			if missing == nil {
				missing = fmt.Errorf("%w: action %d (%s) has no %s", ErrTemplate, a.ID, a.Verb, head)
			}
			j.logger.Warn("template names a missing role",
				zap.Int("action", a.ID), zap.String("verb", a.Verb), zap.String("role", head))
			return "(no " + head + ")"
		}
		if role.IsItem() {
			return "[" + v + rest + "]"
		}
		return v
	})
	if missing != nil && j.Strict {
		return "", missing
	}
	return out, nil
}

func (j *job) sentence(tmpl string, a *world.Action, s realize.Settings) (*realize.Sentence, error) {
	text, err := j.substitute(tmpl, a)
	if err != nil {
		return nil, err
	}
	return realize.NewSentence(text, s), nil
}

// ============================================================================
// Other leaves
// ============================================================================

func (j *job) room(leaf *reply.RoomLeaf, f frame) error {
	s := j.settings(f, leaf.Event, leaf.Event)
	tmpl := "[" + string(leaf.Agent) + "/s] [be/v] somewhere"
	if leaf.Room != "" {
		tmpl = "[" + string(leaf.Agent) + "/s] [be/v] in [" + string(leaf.Room) + "/o]"
	}
	j.out.Add(paragraph(realize.NewSentence(tmpl, s)))
	return nil
}

var remarks = map[reply.Remark]string{
	reply.Remember:    "let's remember",
	reply.Recollected: "that was a fine recollection",
}

func (j *job) commentary(leaf *reply.CommentaryLeaf) {
	s := realize.Settings{ER: tense.Simple, RS: tense.Present, Narrator: j.spin.Narrator, Narratee: j.spin.Narratee}
	j.out.Add(paragraph(realize.NewSentence(remarks[leaf.Remark], s)))
}
