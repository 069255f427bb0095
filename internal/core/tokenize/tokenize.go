// Package tokenize turns raw response text into case-folded word tokens.
//
// A token is a maximal run of word runes (letters, numbers and connector
// punctuation such as '_') in the normalized text. Everything else separates
// tokens. There is no stemming: "whispered" and "whisper" are different tokens.
//
// Tokenize is idempotent: re-tokenizing the tokens joined by single spaces
// returns the same sequence.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer is stateless and safe for concurrent use
type Tokenizer struct{}

// New constructs a Tokenizer
func New() *Tokenizer { return &Tokenizer{} }

// Tokenize returns the token sequence for text; empty or symbol-only text yields an empty, non-nil slice
func (t *Tokenizer) Tokenize(text string) []string {
	return Words(Normalize(text))
}

// Normalize exposes the folded text used for substring tests
func (t *Tokenizer) Normalize(text string) string { return Normalize(text) }

// Words splits already-normalized text into word tokens
func Words(norm string) []string {
	out := make([]string, 0, len(norm)/5+1)
	start := -1
	for i, r := range norm {
		if isWord(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, norm[start:i])
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, norm[start:])
	}
	return out
}

// isWord reports whether r belongs inside a token: letters, numbers,
// combining marks and connector punctuation. Hyphen and apostrophe split
func isWord(r rune) bool {
	if r == utf8.RuneError || r == 0 {
		return false
	}
	return unicode.IsLetter(r) ||
		unicode.IsNumber(r) ||
		unicode.In(r, unicode.Mn, unicode.Pc)
}

// FirstField returns the first whitespace-separated field of the raw text, unfolded,
// so opening glyphs and capitalization survive ("†⟡", "The", "In")
func FirstField(text string) string {
	f := strings.Fields(Sanitize(text))
	if len(f) == 0 {
		return ""
	}
	return f[0]
}
