// Package coupling tests whether designated term pairs co-occur in a response.
// A pair is coupled when both terms appear as substrings of the folded text.
// Proximity and order are not considered.
package coupling

import (
	"strings"

	"attractor/internal/core/tokenize"
	perr "attractor/internal/platform/errors"
)

// Pair is an unordered term pair
type Pair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

// Key renders the pair as "a+b"
func (p Pair) Key() string { return p.A + "+" + p.B }

// PairResult is the outcome for one pair
type PairResult struct {
	Pair    string `json:"pair"`
	Matched bool   `json:"matched"`
}

// Result holds every pair outcome; Coupled mirrors the first (primary) pair
type Result struct {
	Coupled bool         `json:"coupled"`
	Pairs   []PairResult `json:"pairs"`
}

// Detector is immutable and safe for concurrent use
type Detector struct {
	pairs []Pair
}

// New folds the pair terms; a blank term is a configuration error
func New(pairs []Pair) (*Detector, error) {
	d := &Detector{pairs: make([]Pair, 0, len(pairs))}
	for i, p := range pairs {
		a, b := tokenize.Normalize(p.A), tokenize.Normalize(p.B)
		if a == "" || b == "" {
			return nil, perr.WithField(perr.Configf("coupling pair %d has a blank term", i), "coupling_pairs")
		}
		d.pairs = append(d.pairs, Pair{A: a, B: b})
	}
	return d, nil
}

// Pairs returns the folded pairs, primary first
func (d *Detector) Pairs() []Pair { return append([]Pair(nil), d.pairs...) }

// Detect folds text and evaluates every pair
func (d *Detector) Detect(text string) Result {
	return d.DetectNormalized(tokenize.Normalize(text))
}

// DetectNormalized evaluates every pair on already-folded text
func (d *Detector) DetectNormalized(norm string) Result {
	r := Result{Pairs: make([]PairResult, len(d.pairs))}
	for i, p := range d.pairs {
		ok := strings.Contains(norm, p.A) && strings.Contains(norm, p.B)
		r.Pairs[i] = PairResult{Pair: p.Key(), Matched: ok}
	}
	if len(r.Pairs) > 0 {
		r.Coupled = r.Pairs[0].Matched
	}
	return r
}
