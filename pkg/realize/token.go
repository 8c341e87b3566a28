package realize

import (
	"strings"
	"unicode"

	"github.com/kittclouds/telling/pkg/tense"
	"github.com/kittclouds/telling/pkg/world"
)

// TokenKind distinguishes the kinds of sentence token
type TokenKind uint8

const (
	KindLiteral TokenKind = iota
	KindNoun
	KindPronoun
	KindVerb
	KindAdjective
	KindDeictic
	KindNP
	KindCaps
)

var tokenKindNames = []string{"literal", "noun", "pronoun", "verb", "adjective", "deictic", "np", "caps"}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "unknown"
}

// Token is one word slot of a sentence
type Token interface {
	Kind() TokenKind
	realize(ctx *Context, s *Settings, c *clause) string
}

// ============================================================================
// Literal, noun phrase, deictic, caps
// ============================================================================

// Literal is text emitted unchanged
type Literal struct {
	Text string
}

func (Literal) Kind() TokenKind { return KindLiteral }

func (l Literal) realize(*Context, *Settings, *clause) string { return l.Text }

// NP is a literal noun phrase written with underscores, such as
// [all_the_lights]. Unless marked as an object it acts as the subject.
type NP struct {
	Text   string
	Number world.Number
	Object bool
}

func (NP) Kind() TokenKind { return KindNP }

func (np NP) realize(_ *Context, _ *Settings, c *clause) string {
	if !np.Object {
		c.beginSubject()
		c.literal = true
		c.number = np.Number
	}
	return np.Text
}

// Deixis names a proximal/distal word pair
type Deixis uint8

const (
	Here Deixis = iota
	Now
	This
	These
)

var deictics = [...][2]string{
	Here:  {"here", "there"},
	Now:   {"now", "then"},
	This:  {"this", "that"},
	These: {"these", "those"},
}

// Deictic is proximal in the present and distal otherwise
type Deictic struct {
	Word Deixis
}

func (Deictic) Kind() TokenKind { return KindDeictic }

func (d Deictic) realize(_ *Context, s *Settings, _ *clause) string {
	if s.RS == tense.Present {
		return deictics[d.Word][0]
	}
	return deictics[d.Word][1]
}

// Caps switches upper-casing on or off for the following tokens
type Caps struct {
	On bool
}

func (Caps) Kind() TokenKind { return KindCaps }

func (cp Caps) realize(_ *Context, _ *Settings, c *clause) string {
	c.caps = cp.On
	return ""
}

// affixed keeps punctuation written against a bracketed token, as in
// "[@lamp/o]," or "([here])"
type affixed struct {
	prefix, suffix string
	Token
}

func (a affixed) realize(ctx *Context, s *Settings, c *clause) string {
	text := a.Token.realize(ctx, s, c)
	if text == "" {
		return a.prefix + a.suffix
	}
	return a.prefix + text + a.suffix
}

// ============================================================================
// Tokenizer
// ============================================================================

// Tokenize splits a template on whitespace and classifies each word
func Tokenize(template string) []Token {
	words := strings.Fields(template)
	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, parseWord(w))
	}
	return tokens
}

func parseWord(word string) Token {
	open := strings.IndexByte(word, '[')
	end := strings.LastIndexByte(word, ']')
	if open < 0 || end < open {
		return Literal{Text: word}
	}
	tok := parseBracketed(word[open+1 : end])
	if tok == nil {
		return Literal{Text: word}
	}
	prefix, suffix := word[:open], word[end+1:]
	if prefix == "" && suffix == "" {
		return tok
	}
	return affixed{prefix: prefix, suffix: suffix, Token: tok}
}

// parseBracketed classifies the inside of one bracketed token, or
// returns nil when it is not a token
func parseBracketed(inner string) Token {
	parts := strings.Split(inner, "/")
	head, flags := parts[0], parts[1:]
	if head == "" {
		return nil
	}

	if len(flags) == 0 {
		switch head {
		case "here":
			return Deictic{Word: Here}
		case "now":
			return Deictic{Word: Now}
		case "this":
			return Deictic{Word: This}
		case "these":
			return Deictic{Word: These}
		case "begin-caps":
			return Caps{On: true}
		case "end-caps":
			return Caps{On: false}
		}
	}

	if world.IsTag(head) {
		return parseItemToken(world.Tag(head), flags)
	}

	if len(flags) > 0 && flags[0] == "v" {
		return parseVerb(head, flags[1:])
	}

	if isPhrase(head) {
		np := NP{Text: strings.ReplaceAll(head, "_", " ")}
		for _, f := range flags {
			switch f {
			case "pl":
				np.Number = world.Plural
			case "o":
				np.Object = true
			case "s":
				np.Object = false
			default:
				return nil
			}
		}
		return np
	}
	return nil
}

// parseItemToken handles tokens that start with a tag
func parseItemToken(tag world.Tag, flags []string) Token {
	if len(flags) == 0 {
		return Noun{Tag: tag, Case: Objective}
	}

	// [TAG/FEATURE/a] with an optional end
	if len(flags) >= 2 && flags[1] == "a" {
		adj := Adjective{Tag: tag, Feature: flags[0]}
		for _, f := range flags[2:] {
			if f == "end" {
				adj.End = true
			}
		}
		return adj
	}

	switch flags[0] {
	case "p":
		return Pronoun{Tag: tag}
	case "s", "o", "g":
		n := Noun{Tag: tag}
		switch flags[0] {
		case "s":
			n.Case = Nominative
		case "o":
			n.Case = Objective
		case "g":
			n.Case = Possessive
		}
		for _, f := range flags[1:] {
			switch f {
			case "pro":
				n.Pronoun = true
			case "end":
				n.End = true
			}
		}
		return n
	}
	return nil
}

func parseVerb(word string, flags []string) Token {
	v := Verb{Word: word}
	for _, f := range flags {
		switch f {
		case "not":
			v.Not = true
		case "do":
			v.Do = true
		case "sg":
			v.Number, v.HasNumber = world.Singular, true
		case "pl":
			v.Number, v.HasNumber = world.Plural, true
		case "ing":
			v.Ing = true
		case "ed":
			v.Ed = true
		case "pass":
			v.Passive = true
		case "inf":
			v.Infinitive = true
		}
	}
	return v
}

// isPhrase reports whether s is made of letters, underscores, apostrophes
// and hyphens only
func isPhrase(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '_' && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}
