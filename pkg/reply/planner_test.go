package reply

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kittclouds/telling/pkg/discourse"
	"github.com/kittclouds/telling/pkg/spin"
	"github.com/kittclouds/telling/pkg/tense"
	"github.com/kittclouds/telling/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorld(actions ...*world.Action) *world.Model {
	m := world.NewModel()
	m.Record(0, &world.Item{Tag: "@cellar", Called: "cellar", Article: "the", Kind: world.Room})
	m.Record(0, &world.Item{Tag: "@adventurer", Called: "adventurer", Article: "the", Kind: world.Actor, Parent: "@cellar"})
	m.Record(0, &world.Item{Tag: "@guard1", Called: "guard", Article: "a", Kind: world.Actor, Parent: "@cellar", Qualities: []string{"guard"}})
	m.Record(0, &world.Item{Tag: "@guard2", Called: "guard", Article: "a", Kind: world.Actor, Parent: "@cellar", Qualities: []string{"guard"}})
	m.Record(0, &world.Item{Tag: "@lamp", Called: "lamp", Article: "a", Parent: "@cellar"})
	for _, a := range actions {
		m.Learn(a)
	}
	return m
}

func act(id, start int, verb string, agent world.Tag) *world.Action {
	return &world.Action{ID: id, Verb: verb, Category: world.Configure, Agent: agent, Start: start, End: start + 1, Salience: 0.5}
}

// told lists the ids of the action leaves of n in order, flashbacks
// included
func told(n Node) []int {
	var ids []int
	for _, l := range Leaves(n) {
		if a, ok := l.(*ActionLeaf); ok {
			ids = append(ids, a.Action.ID)
		}
	}
	return ids
}

func TestPlanRejectsInvalidSpin(t *testing.T) {
	s := spin.Default()
	s.Speed = 2
	_, err := NewPlanner(nil).Plan([]int{1}, newWorld(), s)
	assert.True(t, errors.Is(err, spin.ErrInvalidSpin))
}

func TestPlanNothingToTell(t *testing.T) {
	m := newWorld(act(1, 3, "take", "@adventurer"))
	m.SetNow(9)

	n, err := NewPlanner(nil).Plan([]int{42}, m, spin.Default())
	require.NoError(t, err)
	assert.Equal(t, &OkLeaf{Event: 9}, n)
}

func TestPlanChronicleIsDeterministic(t *testing.T) {
	m := newWorld(
		act(3, 7, "drop", "@adventurer"),
		act(1, 2, "take", "@adventurer"),
		act(2, 5, "jump", "@adventurer"),
	)
	p := NewPlanner(nil)

	first, err := p.Plan([]int{3, 1, 2}, m, spin.Default())
	require.NoError(t, err)
	second, err := p.Plan([]int{3, 1, 2}, m, spin.Default())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("plans differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, []int{1, 2, 3}, told(first))

	root := first.(*Internal)
	assert.Equal(t, Telling, root.Segment)
	assert.Equal(t, tense.Sentinel(tense.Follow), root.Ref)
	assert.Equal(t, tense.Sentinel(tense.Follow), root.Speech)

	second1 := root.Children[1].(*ActionLeaf)
	assert.True(t, second1.HasPrior)
	assert.Equal(t, 2, second1.Prior)
	assert.False(t, root.Children[0].(*ActionLeaf).HasPrior)
}

func TestPlanRetrogradeReverses(t *testing.T) {
	m := newWorld(
		act(1, 2, "take", "@adventurer"),
		act(2, 5, "jump", "@adventurer"),
		act(3, 7, "drop", "@adventurer"),
	)
	s := spin.Default()
	s.Order = spin.Retrograde

	n, err := NewPlanner(nil).Plan([]int{1, 2, 3}, m, s)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, told(n))
	assert.Equal(t, tense.Tick(7), n.(*Internal).Speech, "follow speech time binds to the latest action")

	s.Time = spin.After
	n, err = NewPlanner(nil).Plan([]int{1, 2, 3}, m, s)
	require.NoError(t, err)
	assert.Equal(t, tense.Sentinel(tense.Max), n.(*Internal).Speech)
}

func TestPlanRetrogradeBindsToLatestBundleMember(t *testing.T) {
	m := newWorld(
		act(1, 1, "yawn", "@guard1"),
		act(2, 2, "yawn", "@adventurer"),
		act(3, 9, "yawn", "@guard2"),
	)
	s := spin.Default()
	s.Order = spin.Retrograde
	s.Frequency = []spin.Frequency{{Selector: "guard", Mode: spin.Iterative}}

	n, err := NewPlanner(nil).Plan([]int{1, 2, 3}, m, s)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, told(n))
	assert.Equal(t, tense.Tick(9), n.(*Internal).Speech)

	bundle := n.(*Internal).Children[1].(*ActionLeaf).Bundle
	require.Len(t, bundle, 2)
	assert.Equal(t, 9, bundle[1].Start)
}

func TestPlanCulls(t *testing.T) {
	dull := act(2, 3, "scratch", "@adventurer")
	dull.Salience = 0.1

	look := act(3, 4, "examine", "@adventurer")
	look.Category = world.Sense
	look.Direct = "@cellar"

	final := act(4, 5, "die", "@adventurer")
	final.Final = true

	m := newWorld(act(1, 1, "take", "@adventurer"), dull, look, final, act(5, 6, "rise", "@adventurer"))
	s := spin.Default()
	s.Focalizer = "@adventurer"

	n, err := NewPlanner(nil).Plan([]int{1, 2, 3, 4, 5}, m, s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, told(n))

	// someone else's viewpoint keeps the examine
	s.Focalizer = "@guard1"
	n, err = NewPlanner(nil).Plan([]int{1, 2, 3, 4, 5}, m, s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, told(n))

	for _, l := range Leaves(n) {
		assert.GreaterOrEqual(t, l.(*ActionLeaf).Action.Salience, 0.2)
	}
}

func TestPlanAggregatesIterative(t *testing.T) {
	m := newWorld(
		act(1, 1, "pace", "@guard1"),
		act(2, 2, "take", "@adventurer"),
		act(3, 3, "pace", "@guard2"),
		act(4, 4, "pace", "@guard1"),
		act(5, 5, "cough", "@guard2"),
	)
	s := spin.Default()
	s.Frequency = []spin.Frequency{{Selector: "guard", Mode: spin.Iterative}}

	n, err := NewPlanner(nil).Plan([]int{1, 2, 3, 4, 5}, m, s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 5}, told(n))

	bundle := n.(*Internal).Children[0].(*ActionLeaf).Bundle
	require.Len(t, bundle, 3)
	assert.Equal(t, []int{1, 3, 4}, []int{bundle[0].ID, bundle[1].ID, bundle[2].ID})
	assert.Nil(t, n.(*Internal).Children[2].(*ActionLeaf).Bundle)

	// default mode leaves them alone
	s.Frequency = []spin.Frequency{{Selector: "guard", Mode: spin.Singulative}}
	n, err = NewPlanner(nil).Plan([]int{1, 2, 3, 4, 5}, m, s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, told(n))
}

func TestPlanSpeed(t *testing.T) {
	vivid := act(1, 1, "leap", "@adventurer")
	vivid.Salience = 1
	notable := act(2, 2, "shout", "@adventurer")
	notable.Salience = 0.875
	m := newWorld(vivid, notable, act(3, 3, "wait", "@guard1"), act(4, 4, "wait", "@adventurer"))

	s := spin.Default()
	s.Speed = 0.5
	s.Focalizer = "@adventurer"

	n, err := NewPlanner(nil).Plan([]int{1, 2, 3, 4}, m, s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, told(n), "other actors' waiting is never told")

	speeds := []float64{}
	for _, l := range Leaves(n) {
		speeds = append(speeds, l.(*ActionLeaf).Speed)
	}
	assert.InDeltaSlice(t, []float64{1, 0.75, 0.5}, speeds, 1e-9)

	// the dropped wait does not become anyone's prior
	last := n.(*Internal).Children[2].(*ActionLeaf)
	assert.Equal(t, 2, last.Prior)
}

func TestPlanAnalepsis(t *testing.T) {
	earlier := act(1, 1, "polish", "@adventurer")
	earlier.Direct = "@lamp"
	unrelated := act(2, 2, "yawn", "@adventurer")
	now := act(3, 5, "take", "@adventurer")
	now.Direct = "@lamp"
	m := newWorld(earlier, unrelated, now, act(4, 6, "leave", "@adventurer"))

	s := spin.Default()
	s.Order = spin.Analepsis

	n, err := NewPlanner(nil).Plan([]int{3, 4}, m, s)
	require.NoError(t, err)

	root := n.(*Internal)
	require.Len(t, root.Children, 3)
	fb, ok := root.Children[1].(*Internal)
	require.True(t, ok, "flashback follows the first leaf")

	assert.Equal(t, Flashback, fb.Segment)
	assert.Equal(t, tense.Tick(5), fb.Ref)
	assert.False(t, fb.Speech.IsSet())

	want := []Node{
		&CommentaryLeaf{Remark: Remember},
		&RoomLeaf{Agent: "@adventurer", Room: "@cellar", Event: 1, Speed: 0.75},
		&ActionLeaf{Action: earlier, Event: 1, Speed: 0.75},
		&CommentaryLeaf{Remark: Recollected},
	}
	if diff := cmp.Diff(want, fb.Children); diff != "" {
		t.Errorf("flashback mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{3, 1, 4}, told(n))

	// an already-told earlier action is not recalled
	n, err = NewPlanner(nil).Plan([]int{1, 3, 4}, m, s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, told(n))
}

func TestPlanFlashbackSkipsToldActions(t *testing.T) {
	oiled := act(1, 1, "oil", "@adventurer")
	oiled.Direct = "@lamp"
	polished := act(2, 2, "polish", "@adventurer")
	polished.Direct = "@lamp"
	now := act(3, 5, "take", "@adventurer")
	now.Direct = "@lamp"
	m := newWorld(oiled, polished, now)

	s := spin.Default()
	s.Order = spin.Analepsis

	d := discourse.New()
	n, err := NewPlanner(nil).PlanReply([]int{3}, m, s, d)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, told(n))

	d.Tell(2)
	n, err = NewPlanner(nil).PlanReply([]int{3}, m, s, d)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, told(n))

	d.Tell(1)
	n, err = NewPlanner(nil).PlanReply([]int{3}, m, s, d)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, told(n))
}

func TestPlanWindow(t *testing.T) {
	m := newWorld(
		act(1, 1, "take", "@adventurer"),
		act(2, 2, "jump", "@adventurer"),
		act(3, 3, "drop", "@adventurer"),
	)
	s := spin.Default()
	s.Window = spin.LastWindow(2)

	n, err := NewPlanner(nil).Plan(nil, m, s)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, told(n))
}

func TestPlanAchronyIsSeeded(t *testing.T) {
	var actions []*world.Action
	var ids []int
	for i := 1; i <= 8; i++ {
		actions = append(actions, act(i, i, "step", "@adventurer"))
		ids = append(ids, i)
	}
	m := newWorld(actions...)
	s := spin.Default()
	s.Order = spin.Achrony
	s.Seed = 99

	a, err := NewPlanner(nil).Plan(ids, m, s)
	require.NoError(t, err)
	b, err := NewPlanner(nil).Plan(ids, m, s)
	require.NoError(t, err)

	assert.Equal(t, told(a), told(b))
	assert.ElementsMatch(t, ids, told(a))
}

func TestPlanTensePoints(t *testing.T) {
	m := newWorld(act(1, 1, "take", "@adventurer"))
	s := spin.Default()
	s.Perfect = true
	s.Time = spin.Before

	n, err := NewPlanner(nil).Plan([]int{1}, m, s)
	require.NoError(t, err)
	root := n.(*Internal)
	assert.Equal(t, tense.Sentinel(tense.RightAfter), root.Ref)
	assert.Equal(t, tense.Sentinel(tense.Min), root.Speech)
}
