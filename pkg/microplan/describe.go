package microplan

import (
	"slices"
	"strings"

	"github.com/kittclouds/telling/pkg/realize"
	"github.com/kittclouds/telling/pkg/world"
)

// compass orders exit directions; unlisted directions sort after these
var compass = []string{
	"north", "northeast", "east", "southeast",
	"south", "southwest", "west", "northwest",
	"up", "down", "in", "out",
}

// describe tells what the focalizer perceived with a successful sense
// action: a heading for a room, the authored sensory text, what is
// inside, what can be seen in other rooms and where the exits lead
func (j *job) describe(a *world.Action, s realize.Settings, tally int) {
	target := a.Direct
	if target == "" {
		room, ok := j.concept.RoomOf(a.Agent, a.Start)
		if !ok {
			return
		}
		target = room
	}
	item, ok := j.concept.ItemAt(target, a.Start)
	if !ok {
		return
	}
	isRoom := item.Kind == world.Room

	if isRoom && j.spin.RoomNameHeadings && item.Called != "" {
		j.out.Add(&realize.Heading{Text: item.Called})
	}

	body := &realize.Paragraph{}
	if texts := item.Senses[a.Modality]; len(texts) > 0 {
		body.Add(realize.NewSentence(texts[tally%len(texts)], s))
	}

	if a.Modality == world.Sight {
		var contents []world.Tag
		for _, tag := range j.concept.Children(target, a.Start) {
			if tag != a.Agent {
				contents = append(contents, tag)
			}
		}
		if len(contents) > 0 {
			where := "[here]"
			if !isRoom {
				where = "in [" + string(target) + "/o]"
			}
			body.Add(realize.NewSentence(subjectList(contents)+" [be/v] "+where, s))
		}

		views := make([]world.Tag, 0, len(item.View))
		for room := range item.View {
			views = append(views, room)
		}
		slices.Sort(views)
		for _, room := range views {
			seen := j.concept.Children(room, a.Start)
			if len(seen) == 0 {
				continue
			}
			body.Add(realize.NewSentence(subjectList(seen)+" [be/v] visible "+item.View[room], s))
		}
	}

	if isRoom && j.spin.KnownDirections && len(item.Exits) > 0 {
		body.Add(realize.NewSentence(exitSentence(item.Exits), s))
	}

	if len(body.Sentences) > 0 {
		j.out.Add(body)
	}
}

// subjectList joins tags as coordinated subjects: "[@a/s], [@b/s] and [@c/s]"
func subjectList(tags []world.Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "[" + string(t) + "/s]"
	}
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

func exitSentence(exits map[string]world.Tag) string {
	dirs := make([]string, 0, len(exits))
	for d := range exits {
		dirs = append(dirs, d)
	}
	slices.SortFunc(dirs, func(a, b string) int {
		ra, rb := compassRank(a), compassRank(b)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})

	if len(dirs) == 1 {
		return "[an_exit] [lead/v/sg] " + dirs[0]
	}
	return "[exits/pl] [lead/v] " + strings.Join(dirs[:len(dirs)-1], ", ") + " and " + dirs[len(dirs)-1]
}

func compassRank(d string) int {
	if i := slices.Index(compass, d); i >= 0 {
		return i
	}
	return len(compass)
}
