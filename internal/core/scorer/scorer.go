// Package scorer computes per-category lexical counts and densities over a token sequence.
package scorer

import (
	"strings"

	"attractor/internal/core/tokenize"
	perr "attractor/internal/platform/errors"
)

// Mode selects how repeated tokens are counted
type Mode uint8

const (
	// Multiset counts every occurrence; the denominator is the token count
	Multiset Mode = iota
	// Distinct counts each distinct matching token once; the denominator is the distinct token count
	Distinct
)

// ParseMode accepts "multiset" or "distinct"; empty means Multiset
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "multiset":
		return Multiset, nil
	case "distinct":
		return Distinct, nil
	}
	return Multiset, perr.WithField(perr.Configf("unknown counting mode %q", s), "counting_mode")
}

func (m Mode) String() string {
	if m == Distinct {
		return "distinct"
	}
	return "multiset"
}

// MarshalText renders the mode name
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText parses the mode name
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Category is a named vocabulary. Terms are single word tokens
type Category struct {
	Name  string
	Terms []string
}

// Options tune a Scorer. Positive and Negative name the categories the net score
// is built from; either may be empty, in which case it contributes zero
type Options struct {
	Mode     Mode
	Positive string
	Negative string
}

// CategoryScore is the per-category result
type CategoryScore struct {
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

// Vector is the score of one token sequence
type Vector struct {
	Tokens     int                      `json:"total_tokens"`
	Categories map[string]CategoryScore `json:"categories"`
	NetScore   float64                  `json:"net_score"`
}

// Density returns the density of a category, 0 if unknown
func (v Vector) Density(category string) float64 { return v.Categories[category].Density }

// Count returns the count of a category, 0 if unknown
func (v Vector) Count(category string) int { return v.Categories[category].Count }

// Scorer is immutable after New and safe for concurrent use
type Scorer struct {
	names    []string
	index    map[string][]int // folded term -> category indexes
	opt      Options
	pos, neg int
}

// New compiles the vocabularies. Terms are folded like tokens; an empty
// vocabulary is allowed and always scores zero
func New(categories []Category, opt Options) (*Scorer, error) {
	s := &Scorer{
		names: make([]string, 0, len(categories)),
		index: make(map[string][]int),
		opt:   opt,
		pos:   -1,
		neg:   -1,
	}
	seen := make(map[string]struct{}, len(categories))
	for i, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, perr.Configf("category %d has no name", i)
		}
		if _, dup := seen[name]; dup {
			return nil, perr.WithField(perr.Configf("duplicate category %q", name), name)
		}
		seen[name] = struct{}{}
		s.names = append(s.names, name)

		for _, term := range c.Terms {
			t := tokenize.Normalize(term)
			if t == "" {
				continue
			}
			if idx := s.index[t]; len(idx) > 0 && idx[len(idx)-1] == i {
				continue
			}
			s.index[t] = append(s.index[t], i)
		}
	}

	var err error
	if s.pos, err = s.lookupCategory(opt.Positive, "positive"); err != nil {
		return nil, err
	}
	if s.neg, err = s.lookupCategory(opt.Negative, "negative"); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scorer) lookupCategory(name, role string) (int, error) {
	if name == "" {
		return -1, nil
	}
	for i, n := range s.names {
		if n == name {
			return i, nil
		}
	}
	return -1, perr.WithField(perr.Configf("%s net category %q is not declared", role, name), role)
}

// Mode returns the counting mode
func (s *Scorer) Mode() Mode { return s.opt.Mode }

// Categories returns the category names in declaration order
func (s *Scorer) Categories() []string { return append([]string(nil), s.names...) }

// Lookup returns the categories a token belongs to
func (s *Scorer) Lookup(token string) []string {
	idx := s.index[token]
	if len(idx) == 0 {
		return nil
	}
	out := make([]string, len(idx))
	for i, ci := range idx {
		out[i] = s.names[ci]
	}
	return out
}

// Score counts category hits in tokens. A token in several categories counts in each
func (s *Scorer) Score(tokens []string) Vector {
	counts := make([]int, len(s.names))
	total := len(tokens)

	if s.opt.Mode == Distinct {
		uniq := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			uniq[tok] = struct{}{}
		}
		total = len(uniq)
		for tok := range uniq {
			for _, ci := range s.index[tok] {
				counts[ci]++
			}
		}
	} else {
		for _, tok := range tokens {
			for _, ci := range s.index[tok] {
				counts[ci]++
			}
		}
	}

	v := Vector{Tokens: total, Categories: make(map[string]CategoryScore, len(s.names))}
	denom := float64(max(total, 1))
	for i, name := range s.names {
		v.Categories[name] = CategoryScore{Count: counts[i], Density: float64(counts[i]) / denom}
	}
	var pos, neg int
	if s.pos >= 0 {
		pos = counts[s.pos]
	}
	if s.neg >= 0 {
		neg = counts[s.neg]
	}
	v.NetScore = float64(pos-neg) / denom
	return v
}
