package world

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCellar(t *testing.T) *Story {
	t.Helper()
	data, err := os.ReadFile("testdata/cellar.yaml")
	require.NoError(t, err)
	story, err := LoadStory(data)
	require.NoError(t, err)
	return story
}

func TestLoadStoryItems(t *testing.T) {
	story := loadCellar(t)
	m := story.Model

	assert.Equal(t, []int{1, 2, 3}, story.Tell)
	assert.Equal(t, 9, m.Now())

	cellar, ok := m.ItemAt("@cellar", 0)
	require.True(t, ok)
	assert.Equal(t, Room, cellar.Kind)
	assert.Equal(t, "the", cellar.Article, "definite unless stated")
	assert.Equal(t, []string{"[@cellar/s] [smell/v] of mould"}, cellar.Senses[Smell])
	assert.Equal(t, Tag("@hall"), cellar.Exits["north"])
	assert.Equal(t, "through the arch", cellar.View["@hall"])

	adventurer, ok := m.ItemAt("@adventurer", 0)
	require.True(t, ok)
	assert.Equal(t, Female, adventurer.Gender)
	assert.True(t, m.Has(Actor, "@adventurer"))

	coins, ok := m.ItemAt("@coins", 0)
	require.True(t, ok)
	assert.Equal(t, Plural, coins.Number)
	assert.Equal(t, Neuter, cellar.Gender)
}

func TestLoadStoryStates(t *testing.T) {
	m := loadCellar(t).Model

	lamp, _ := m.ItemAt("@lamp", 2)
	assert.Equal(t, Tag("@cellar"), lamp.Parent)
	assert.Equal(t, false, lamp.Features["lit"])

	lamp, _ = m.ItemAt("@lamp", 4)
	assert.Equal(t, Tag("@adventurer"), lamp.Parent)
	assert.Equal(t, false, lamp.Features["lit"], "states carry earlier fields forward")

	lamp, _ = m.ItemAt("@lamp", 6)
	assert.Equal(t, Tag("@adventurer"), lamp.Parent)
	assert.Equal(t, true, lamp.Features["lit"])
	assert.Equal(t, "brass lamp", lamp.Called)

	_, ok := m.ItemAt("@coins", 8)
	assert.False(t, ok)
	assert.Equal(t, []Tag{"@adventurer", "@lamp", "@coins"}, m.Children("@cellar", 2))
}

func TestLoadStoryActions(t *testing.T) {
	actions := loadCellar(t).Model.Actions()
	require.Len(t, actions, 4)

	take := actions[1]
	assert.Equal(t, Configure, take.Category)
	assert.Equal(t, []string{"[agent/s] [pick/v] [direct/o] up"}, take.Template)
	assert.Equal(t, 0.5, take.Salience, "default salience")
	assert.Equal(t, 4, take.End, "end defaults past start")
	assert.Equal(t, Tag("@adventurer"), take.NewParent)

	light := actions[2]
	assert.Len(t, light.Template, 2)
	assert.Equal(t, 0.9, light.Salience)
	assert.Equal(t, "true", light.NewValue)

	open := actions[3]
	assert.Equal(t, []Failure{{Reason: "locked", Role: Direct}}, open.Failed)
	assert.False(t, open.Succeeded())

	look := actions[4]
	assert.Equal(t, Sense, look.Category)
	assert.Equal(t, Smell, look.Modality)
}

func TestLoadStoryDefaultsTellToEveryAction(t *testing.T) {
	story, err := LoadStory([]byte(`
actions:
  - {id: 2, verb: wave, category: behave, agent: "@bob", start: 1}
  - {id: 1, verb: nod, category: behave, agent: "@bob", start: 2}
`))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, story.Tell)
}

func TestLoadStoryErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "items: [unclosed"},
		{"tag without @", "items:\n  - tag: lamp\n"},
		{"unknown category", "actions:\n  - {id: 1, verb: x, category: dance}\n"},
		{"unknown failure role", "actions:\n  - {id: 1, verb: x, category: behave, failed: [{reason: r, role: culprit}]}\n"},
		{"unknown modality", "actions:\n  - {id: 1, verb: x, category: sense, modality: sonar}\n"},
		{"unknown sense", "items:\n  - tag: \"@x\"\n    senses: {sonar: [ping]}\n"},
		{"template map", "actions:\n  - {id: 1, verb: x, category: behave, template: {a: b}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStory([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
