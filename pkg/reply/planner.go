package reply

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/kittclouds/telling/pkg/spin"
	"github.com/kittclouds/telling/pkg/tense"
	"github.com/kittclouds/telling/pkg/world"
	"go.uber.org/zap"
)

const (
	// minSalience is the lowest salience an action may have and be told
	minSalience = 0.2
	// highSalience is where actions start to be told more slowly
	highSalience = 0.75
)

// Planner builds reply plans
type Planner struct {
	logger *zap.Logger
}

// NewPlanner creates a planner; a nil logger discards output
func NewPlanner(logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{logger: logger}
}

// Memory reports which actions earlier replies already told
type Memory interface {
	WasTold(id int) bool
}

// Plan selects, culls, aggregates and orders the actions to tell.
// ids are the actions of the current turn.
func (p *Planner) Plan(ids []int, c world.Concept, s spin.Spin) (Node, error) {
	return p.PlanReply(ids, c, s, nil)
}

// PlanReply is Plan for a session: flashbacks never recall an action
// that mem says was already told. mem may be nil.
func (p *Planner) PlanReply(ids []int, c world.Concept, s spin.Spin, mem Memory) (Node, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("plan reply: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("plan reply: no concept")
	}

	speech := speechPoint(s.Time)
	ref := tense.Sentinel(tense.Follow)
	if s.Perfect {
		ref = tense.Sentinel(tense.RightAfter)
	}

	actions := gather(ids, c, s.Window)
	seen := roaring.New()
	groups := p.cull(actions, c, s)
	groups = p.aggregate(groups, c, s)
	if len(groups) == 0 {
		p.logger.Debug("nothing to tell", zap.Ints("ids", ids))
		return &OkLeaf{Event: c.Now()}, nil
	}

	switch s.Order {
	case spin.Retrograde:
		slices.Reverse(groups)
		if speech.Anchor == tense.Follow {
			speech = tense.Tick(latestStart(groups))
		}
	case spin.Achrony:
		rng := rand.New(rand.NewPCG(uint64(s.Seed), 0))
		rng.Shuffle(len(groups), func(i, j int) {
			groups[i], groups[j] = groups[j], groups[i]
		})
	}

	var children []Node
	prior, hasPrior := 0, false
	for _, g := range groups {
		a := g[0]
		for _, b := range g {
			markSeen(seen, b.ID)
		}
		speed := leafSpeed(a, s)
		if speed == 0 {
			p.logger.Debug("skipping zero-speed action", zap.Int("id", a.ID), zap.String("verb", a.Verb))
			continue
		}
		leaf := &ActionLeaf{
			Action:   a,
			Event:    a.Start,
			Prior:    prior,
			HasPrior: hasPrior,
			Speed:    speed,
		}
		if len(g) > 1 {
			leaf.Bundle = g
		}
		children = append(children, leaf)
		prior, hasPrior = a.Start, true
	}

	if len(children) == 0 {
		return &OkLeaf{Event: c.Now()}, nil
	}

	if s.Order == spin.Analepsis {
		first := children[0].(*ActionLeaf).Action
		if fb := flashback(first, c, seen, mem, s); fb != nil {
			p.logger.Debug("inserting flashback", zap.Int("after", first.ID))
			children = slices.Insert(children, 1, Node(fb))
		}
	}

	return &Internal{Segment: Telling, Ref: ref, Speech: speech, Children: children}, nil
}

// latestStart is the start of the most recent action in groups,
// bundle members included
func latestStart(groups [][]*world.Action) int {
	latest := groups[0][0].Start
	for _, g := range groups {
		for _, a := range g {
			latest = max(latest, a.Start)
		}
	}
	return latest
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

// gather collects the candidate actions ordered by start, then id
func gather(ids []int, c world.Concept, w spin.Window) []*world.Action {
	known := c.Actions()
	var out []*world.Action
	if w.Current {
		dup := make(map[int]bool, len(ids))
		for _, id := range ids {
			if a, ok := known[id]; ok && !dup[id] {
				dup[id] = true
				out = append(out, a)
			}
		}
		world.SortByStart(out)
		return out
	}

	for _, a := range known {
		out = append(out, a)
	}
	world.SortByStart(out)
	if len(out) > w.N {
		out = out[len(out)-w.N:]
	}
	return out
}

// cull drops redundant, insignificant and post-final actions. Each
// survivor becomes a group of one.
func (p *Planner) cull(actions []*world.Action, c world.Concept, s spin.Spin) [][]*world.Action {
	var out [][]*world.Action
	for _, a := range actions {
		switch {
		case a.Salience < minSalience:
			p.logger.Debug("culled low salience", zap.Int("id", a.ID), zap.Float64("salience", a.Salience))
		case examinesOwnRoom(a, c, s.Focalizer):
			p.logger.Debug("culled room examine", zap.Int("id", a.ID))
		default:
			out = append(out, []*world.Action{a})
		}
		if a.Final {
			break
		}
	}
	return out
}

// examinesOwnRoom is a focalizer looking around the room it stands in,
// which the room description already covers
func examinesOwnRoom(a *world.Action, c world.Concept, focalizer world.Tag) bool {
	if a.Category != world.Sense || a.Verb != "examine" || focalizer == "" || a.Agent != focalizer {
		return false
	}
	room, ok := c.RoomOf(a.Agent, a.Start)
	return ok && room == a.Direct
}

// aggregate bundles, per iterative quality, the same verb done by
// agents with that quality. The bundle takes the place of its first
// member.
func (p *Planner) aggregate(groups [][]*world.Action, c world.Concept, s spin.Spin) [][]*world.Action {
	for _, f := range s.Frequency {
		if !s.Iterative(f.Selector) {
			continue
		}
		byVerb := make(map[string][]int)
		var verbs []string
		for i, g := range groups {
			a := g[0]
			if len(g) > 1 {
				continue
			}
			agent, ok := c.ItemAt(a.Agent, a.Start)
			if !ok || !agent.HasQuality(f.Selector) {
				continue
			}
			if _, seen := byVerb[a.Verb]; !seen {
				verbs = append(verbs, a.Verb)
			}
			byVerb[a.Verb] = append(byVerb[a.Verb], i)
		}

		drop := make(map[int]bool)
		for _, verb := range verbs {
			members := byVerb[verb]
			if len(members) < 2 {
				continue
			}
			bundle := make([]*world.Action, 0, len(members))
			for _, i := range members {
				bundle = append(bundle, groups[i][0])
				drop[i] = true
			}
			groups[members[0]] = bundle
			delete(drop, members[0])
			p.logger.Debug("aggregated iterative actions",
				zap.String("quality", f.Selector), zap.String("verb", verb), zap.Int("count", len(bundle)))
		}

		kept := groups[:0]
		for i, g := range groups {
			if !drop[i] {
				kept = append(kept, g)
			}
		}
		groups = kept
	}
	return groups
}

// leafSpeed slows salient actions down and silences other actors'
// waiting
func leafSpeed(a *world.Action, s spin.Spin) float64 {
	if a.Verb == "wait" && a.Agent != s.Focalizer {
		return 0
	}
	if a.Salience > highSalience {
		return s.Speed + (1-s.Speed)*(a.Salience-highSalience)/(1-highSalience)
	}
	return s.Speed
}

// flashback recalls the latest earlier action on the same direct object
// that neither this reply nor an earlier one has told
func flashback(first *world.Action, c world.Concept, seen *roaring.Bitmap, mem Memory, s spin.Spin) *Internal {
	if first.Direct == "" {
		return nil
	}
	var recalled *world.Action
	for _, a := range c.Actions() {
		if a.Start >= first.Start || a.Direct != first.Direct || wasSeen(seen, a.ID) {
			continue
		}
		if a.Salience < minSalience || (mem != nil && mem.WasTold(a.ID)) {
			continue
		}
		if recalled == nil || a.Start > recalled.Start || (a.Start == recalled.Start && a.ID > recalled.ID) {
			recalled = a
		}
	}
	if recalled == nil {
		return nil
	}
	markSeen(seen, recalled.ID)

	room, _ := c.RoomOf(recalled.Agent, recalled.Start)
	speed := leafSpeed(recalled, s)
	if speed == 0 {
		speed = s.Speed
	}
	return &Internal{
		Segment: Flashback,
		Ref:     tense.Tick(first.Start),
		Children: []Node{
			&CommentaryLeaf{Remark: Remember},
			&RoomLeaf{Agent: recalled.Agent, Room: room, Event: recalled.Start, Speed: speed},
			&ActionLeaf{
				Action: recalled,
				Event:  recalled.Start,
				Speed:  speed,
			},
			&CommentaryLeaf{Remark: Recollected},
		},
	}
}

func markSeen(seen *roaring.Bitmap, id int) {
	if id >= 0 {
		seen.Add(uint32(id))
	}
}

func wasSeen(seen *roaring.Bitmap, id int) bool {
	return id >= 0 && seen.Contains(uint32(id))
}
