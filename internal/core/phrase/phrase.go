// Package phrase matches configured phrase lists against normalized text.
//
// Phrase lists drive refusal, escape, cosmology and spiral detection. A Set is
// one named list compiled into an Aho-Corasick automaton; a Bank is an ordered
// group of sets evaluated together. Matching is substring containment on the
// folded text, the same as the coupling test.
package phrase

import (
	"attractor/internal/core/tokenize"
)

// Set is an immutable, compiled phrase list; safe for concurrent use
type Set struct {
	name    string
	phrases []string
	ac      *automaton
}

// Compile folds each phrase the same way response text is folded and builds the matcher.
// Blank and duplicate phrases are dropped
func Compile(name string, phrases []string) *Set {
	s := &Set{name: name, ac: newAutomaton()}
	seen := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		p = tokenize.Normalize(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		s.ac.add(p, len(s.phrases))
		s.phrases = append(s.phrases, p)
	}
	s.ac.build()
	return s
}

// Name returns the set name
func (s *Set) Name() string { return s.name }

// Phrases returns the folded phrases in list order
func (s *Set) Phrases() []string { return append([]string(nil), s.phrases...) }

// Any reports whether at least one phrase occurs in norm
func (s *Set) Any(norm string) bool {
	if s == nil || len(s.phrases) == 0 {
		return false
	}
	found := false
	s.ac.scan(norm, func(int, int) bool {
		found = true
		return false
	})
	return found
}

// Matches returns the distinct phrases found in norm, in list order
func (s *Set) Matches(norm string) []string {
	if s == nil || len(s.phrases) == 0 {
		return nil
	}
	hit := make([]bool, len(s.phrases))
	n := 0
	s.ac.scan(norm, func(_, id int) bool {
		if !hit[id] {
			hit[id] = true
			n++
		}
		return n < len(s.phrases)
	})
	if n == 0 {
		return nil
	}
	out := make([]string, 0, n)
	for id, ok := range hit {
		if ok {
			out = append(out, s.phrases[id])
		}
	}
	return out
}

// Bank is an ordered group of sets
type Bank struct {
	sets []*Set
}

// NewBank groups sets, preserving order
func NewBank(sets ...*Set) *Bank { return &Bank{sets: sets} }

// Names returns the set names in order
func (b *Bank) Names() []string {
	out := make([]string, len(b.sets))
	for i, s := range b.sets {
		out[i] = s.name
	}
	return out
}

// Flags evaluates every set and returns name -> matched
func (b *Bank) Flags(norm string) map[string]bool {
	out := make(map[string]bool, len(b.sets))
	for _, s := range b.sets {
		out[s.name] = s.Any(norm)
	}
	return out
}

// First returns the name of the first set that matches, or ""
func (b *Bank) First(norm string) string {
	for _, s := range b.sets {
		if s.Any(norm) {
			return s.name
		}
	}
	return ""
}
