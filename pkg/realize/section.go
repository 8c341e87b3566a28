package realize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kittclouds/telling/pkg/style"
)

// ============================================================================
// Sentence
// ============================================================================

// Sentence is a tokenized template bound to its grammatical settings
type Sentence struct {
	Template string
	Tokens   []Token
	Settings Settings
}

// NewSentence tokenizes template once, at construction
func NewSentence(template string, s Settings) *Sentence {
	return &Sentence{Template: template, Tokens: Tokenize(template), Settings: s}
}

// Realize renders the sentence. A continuing sentence follows a clause
// that ended in a comma and is not capitalized.
func (s *Sentence) Realize(ctx *Context, continuing bool) string {
	var c clause
	phrases := make([]string, 0, len(s.Tokens))
	for _, tok := range s.Tokens {
		text := tok.realize(ctx, &s.Settings, &c)
		if c.caps {
			text = strings.ToUpper(text)
		}
		if text != "" {
			phrases = append(phrases, text)
		}
	}

	phrases = style.Chain(ctx.TokenFilters, phrases)
	phrases = orthography(phrases, continuing)
	phrases = style.Chain(ctx.SentenceFilters, phrases)
	return normalizeSpacing(strings.Join(phrases, " "))
}

// ============================================================================
// Orthography
// ============================================================================

// orthography capitalizes the first phrase and ends the last with
// terminal punctuation
func orthography(phrases []string, continuing bool) []string {
	if len(phrases) == 0 {
		return phrases
	}
	out := append([]string(nil), phrases...)
	if !continuing {
		out[0] = capitalize(out[0])
	}
	last := len(out) - 1
	if !isTerminated(out[last]) {
		out[last] += "."
	}
	return out
}

func capitalize(s string) string {
	for i, r := range s {
		if unicode.IsLetter(r) {
			if unicode.IsUpper(r) {
				return s
			}
			return s[:i] + string(unicode.ToUpper(r)) + s[i+utf8.RuneLen(r):]
		}
		if unicode.IsDigit(r) {
			return s
		}
	}
	return s
}

func isTerminated(s string) bool {
	s = strings.TrimRight(s, `"')`)
	if s == "" {
		return false
	}
	return strings.ContainsRune(".!?,;:", rune(s[len(s)-1]))
}

// normalizeSpacing removes spaces before punctuation, collapses runs of
// spaces and moves periods and commas inside closing quotes
func normalizeSpacing(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	for _, p := range []string{",", ".", ";", ":", "!", "?"} {
		s = strings.ReplaceAll(s, " "+p, p)
	}
	s = strings.ReplaceAll(s, `".`, `."`)
	s = strings.ReplaceAll(s, `",`, `,"`)
	return s
}

// ============================================================================
// Blocks
// ============================================================================

// Block is a heading or a paragraph
type Block interface {
	Realize(ctx *Context) string
}

// Heading is a title line, such as a room name
type Heading struct {
	Text string
}

func (h *Heading) Realize(ctx *Context) string {
	if h.Text == "" {
		return ""
	}
	return ctx.Typography.HeadingOpen + titleCase(h.Text) + ctx.Typography.HeadingClose
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if i > 0 && minorWords[w] {
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

var minorWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true,
	"on": true, "and": true, "to": true, "at": true,
}

// Paragraph is a run of sentences
type Paragraph struct {
	Sentences []*Sentence
}

// Add appends sentences
func (p *Paragraph) Add(sentences ...*Sentence) {
	p.Sentences = append(p.Sentences, sentences...)
}

func (p *Paragraph) Realize(ctx *Context) string {
	texts := make([]string, 0, len(p.Sentences))
	continuing := false
	for _, s := range p.Sentences {
		text := s.Realize(ctx, continuing)
		if text == "" {
			continue
		}
		texts = append(texts, text)
		continuing = strings.HasSuffix(text, ",")
	}
	texts = style.Chain(ctx.ParagraphFilters, texts)
	return strings.Join(texts, " ")
}

// ============================================================================
// Section
// ============================================================================

// Section is the realized document: an ordered list of blocks
type Section struct {
	Blocks []Block
}

// Add appends blocks
func (s *Section) Add(blocks ...Block) {
	s.Blocks = append(s.Blocks, blocks...)
}

// Append moves every block of other to the end of s
func (s *Section) Append(other *Section) {
	if other != nil {
		s.Blocks = append(s.Blocks, other.Blocks...)
	}
}

// Realize lays the blocks out. Paragraphs are indented except the first
// one and the one right after a heading, unless IndentFirst is set.
func (s *Section) Realize(ctx *Context) string {
	ty := ctx.Typography
	var b strings.Builder
	var prev Block
	for _, block := range s.Blocks {
		text := block.Realize(ctx)
		if text == "" {
			continue
		}
		_, heading := block.(*Heading)
		_, afterHeading := prev.(*Heading)

		if prev != nil {
			switch {
			case heading:
				b.WriteString(ty.HeadingBefore)
			case afterHeading:
				b.WriteString(ty.HeadingAfter)
			default:
				b.WriteString(ty.ParagraphBreak)
			}
		}
		if !heading && (ty.IndentFirst || (prev != nil && !afterHeading)) {
			b.WriteString(ty.Indent)
		}
		b.WriteString(text)
		prev = block
	}
	return b.String()
}
