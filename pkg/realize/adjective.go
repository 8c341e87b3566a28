package realize

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kittclouds/telling/pkg/world"
)

// Formatter renders one feature value as an adjective phrase
type Formatter interface {
	Format(value any) string
}

// BoolPair renders a boolean as one of two words
type BoolPair struct {
	True, False string
}

func (b BoolPair) Format(value any) string {
	if truthy(value) {
		return b.True
	}
	return b.False
}

// gradeWords is the 11-point scale used for values in [0,1]
var gradeWords = [11]string{
	"not at all", "barely", "slightly", "somewhat", "moderately",
	"fairly", "rather", "quite", "very", "extremely", "completely",
}

// Graded renders a value in [0,1] as a degree adverb plus Word
type Graded struct {
	Word string
}

func (g Graded) Format(value any) string {
	f, ok := number(value)
	if !ok {
		return "something"
	}
	f = math.Max(0, math.Min(1, f))
	return gradeWords[int(math.Round(f*10))] + " " + g.Word
}

// Passthrough renders the value as text
type Passthrough struct{}

func (Passthrough) Format(value any) string {
	return fmt.Sprint(value)
}

// DefaultFormatters covers the common item features
func DefaultFormatters() map[string]Formatter {
	return map[string]Formatter{
		"lit":    BoolPair{"lit", "unlit"},
		"open":   BoolPair{"open", "closed"},
		"locked": BoolPair{"locked", "unlocked"},
		"on":     BoolPair{"on", "off"},
		"broken": BoolPair{"broken", "intact"},
		"full":   Graded{"full"},
		"bright": Graded{"bright"},
		"warm":   Graded{"warm"},
	}
}

// Adjective describes a feature of an item: [@lamp/lit/a]
type Adjective struct {
	Tag     world.Tag
	Feature string
	End     bool
}

func (Adjective) Kind() TokenKind { return KindAdjective }

func (a Adjective) realize(ctx *Context, s *Settings, _ *clause) string {
	item, ok := lookup(ctx, a.Tag, s.at(a.End))
	if !ok {
		return "something"
	}
	value, ok := item.Feature(a.Feature)
	if !ok {
		return "something"
	}
	if f, ok := ctx.Formatters[a.Feature]; ok {
		return f.Format(value)
	}

	// no formatter: infer one from the value's type
	switch value.(type) {
	case bool:
		return BoolPair{a.Feature, "not " + a.Feature}.Format(value)
	case float64, float32:
		return Graded{a.Feature}.Format(value)
	}
	return Passthrough{}.Format(value)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	case int:
		return v != 0
	}
	if f, ok := number(value); ok {
		return f != 0
	}
	return false
}

// number reads value as a float; NaN is not a number
func number(value any) (float64, bool) {
	f, ok := toFloat(value)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}
