package style

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Replacer substitutes whole-word phrases in one pass using a single
// Aho-Corasick automaton over all patterns.
type Replacer struct {
	ac           ahocorasick.AhoCorasick
	replacements []string // index-aligned with AC patterns
}

// NewReplacer builds a replacer from pattern -> replacement pairs.
// Matching is ASCII case-insensitive; the replacement copies the case of
// the matched text's first letter.
func NewReplacer(pairs map[string]string) *Replacer {
	patterns := make([]string, 0, len(pairs))
	for p := range pairs {
		patterns = append(patterns, strings.ToLower(p))
	}
	sort.Strings(patterns)

	replacements := make([]string, len(patterns))
	for i, p := range patterns {
		for k, v := range pairs {
			if strings.ToLower(k) == p {
				replacements[i] = v
				break
			}
		}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return &Replacer{
		ac:           builder.Build(patterns),
		replacements: replacements,
	}
}

// Replace rewrites every match in s
func (r *Replacer) Replace(s string) string {
	matches := r.ac.FindAll(s)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m.Start()])
		b.WriteString(matchCase(s[m.Start():m.End()], r.replacements[m.Pattern()]))
		last = m.End()
	}
	b.WriteString(s[last:])
	return b.String()
}

// Apply implements Filter
func (r *Replacer) Apply(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = r.Replace(p)
	}
	return out
}

// matchCase capitalizes repl when the original starts upper-case
func matchCase(orig, repl string) string {
	first, _ := utf8.DecodeRuneInString(orig)
	if !unicode.IsUpper(first) || repl == "" {
		return repl
	}
	r, size := utf8.DecodeRuneInString(repl)
	return string(unicode.ToUpper(r)) + repl[size:]
}

// ============================================================================
// Built-in replacement tables
// ============================================================================

var contractionPairs = map[string]string{
	"do not":    "don't",
	"does not":  "doesn't",
	"did not":   "didn't",
	"is not":    "isn't",
	"are not":   "aren't",
	"was not":   "wasn't",
	"were not":  "weren't",
	"has not":   "hasn't",
	"have not":  "haven't",
	"had not":   "hadn't",
	"will not":  "won't",
	"would not": "wouldn't",
	"shall not": "shan't",
	"can not":   "can't",
	"cannot":    "can't",
}

var britishPairs = map[string]string{
	"color":     "colour",
	"colors":    "colours",
	"gray":      "grey",
	"center":    "centre",
	"armor":     "armour",
	"neighbor":  "neighbour",
	"theater":   "theatre",
	"traveled":  "travelled",
	"traveling": "travelling",
	"realize":   "realise",
	"realized":  "realised",
	"recognize": "recognise",
	"jewelry":   "jewellery",
	"odor":      "odour",
}

// Contractions contracts negated auxiliaries ("is not" -> "isn't")
func Contractions() *Replacer {
	return NewReplacer(contractionPairs)
}

// British respells a handful of common American spellings
func British() *Replacer {
	return NewReplacer(britishPairs)
}
