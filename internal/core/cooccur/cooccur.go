// Package cooccur builds a weighted co-occurrence graph over a fixed set of key terms.
//
// Each record contributes at most once to a term frequency and to a pair
// weight. A term is present when the record's token set holds the term itself
// or the term plus one of the configured suffixes ("whisper" matches
// "whispers" and "whispered").
package cooccur

import (
	"sort"

	"attractor/internal/core/tokenize"
)

// DefaultSuffixes are the inflections matched for each key term
var DefaultSuffixes = []string{"s", "ed", "ing"}

// Node is a visible term
type Node struct {
	Term      string `json:"term"`
	Frequency int    `json:"frequency"`
}

// Edge is a visible unordered pair; A sorts before B
type Edge struct {
	A      string `json:"term_a"`
	B      string `json:"term_b"`
	Weight int    `json:"weight"`
}

// Graph is the thresholded view
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Builder accumulates full counts. It is not safe for concurrent Add
type Builder struct {
	terms  []string
	idx    map[string]int
	forms  map[string][]int // surface form -> every term it marks
	freq   []int
	weight map[[2]int]int // i < j
	recs   int
}

// NewBuilder folds and dedups the key terms; nil suffixes means exact forms only
func NewBuilder(terms, suffixes []string) *Builder {
	b := &Builder{
		idx:    make(map[string]int, len(terms)),
		forms:  make(map[string][]int, len(terms)*(len(suffixes)+1)),
		weight: make(map[[2]int]int),
	}
	for _, t := range terms {
		t = tokenize.Normalize(t)
		if t == "" {
			continue
		}
		if _, dup := b.idx[t]; dup {
			continue
		}
		i := len(b.terms)
		b.idx[t] = i
		b.terms = append(b.terms, t)
	}
	// a form can mark several terms: "whispers" is whisper+s and may be a term itself
	for i, t := range b.terms {
		b.forms[t] = append(b.forms[t], i)
		for _, sfx := range suffixes {
			if sfx != "" {
				b.forms[t+sfx] = append(b.forms[t+sfx], i)
			}
		}
	}
	b.freq = make([]int, len(b.terms))
	return b
}

// Terms returns the folded key terms
func (b *Builder) Terms() []string { return append([]string(nil), b.terms...) }

// Records returns how many records were added
func (b *Builder) Records() int { return b.recs }

// Add records one token sequence
func (b *Builder) Add(tokens []string) {
	b.recs++
	present := make([]bool, len(b.terms))
	for _, tok := range tokens {
		for _, i := range b.forms[tok] {
			present[i] = true
		}
	}
	var hit []int
	for i, ok := range present {
		if ok {
			hit = append(hit, i)
			b.freq[i]++
		}
	}
	for x := 0; x < len(hit); x++ {
		for y := x + 1; y < len(hit); y++ {
			b.weight[[2]int{hit[x], hit[y]}]++
		}
	}
}

// Frequency returns the number of records containing term
func (b *Builder) Frequency(term string) int {
	i, ok := b.idx[tokenize.Normalize(term)]
	if !ok {
		return 0
	}
	return b.freq[i]
}

// Weight returns the number of records containing both terms; symmetric, 0 for a self pair
func (b *Builder) Weight(t1, t2 string) int {
	i, ok1 := b.idx[tokenize.Normalize(t1)]
	j, ok2 := b.idx[tokenize.Normalize(t2)]
	if !ok1 || !ok2 || i == j {
		return 0
	}
	if i > j {
		i, j = j, i
	}
	return b.weight[[2]int{i, j}]
}

// Graph exposes nodes with frequency > minFreq and edges with weight > minWeight
// whose endpoints are both exposed. Nodes sort by frequency, edges by weight, ties by term
func (b *Builder) Graph(minFreq, minWeight int) Graph {
	g := Graph{Nodes: []Node{}, Edges: []Edge{}}
	visible := make([]bool, len(b.terms))
	for i, f := range b.freq {
		if f > minFreq {
			visible[i] = true
			g.Nodes = append(g.Nodes, Node{Term: b.terms[i], Frequency: f})
		}
	}
	for k, w := range b.weight {
		if w > minWeight && visible[k[0]] && visible[k[1]] {
			g.Edges = append(g.Edges, b.edge(k, w))
		}
	}
	sort.Slice(g.Nodes, func(i, j int) bool {
		if g.Nodes[i].Frequency != g.Nodes[j].Frequency {
			return g.Nodes[i].Frequency > g.Nodes[j].Frequency
		}
		return g.Nodes[i].Term < g.Nodes[j].Term
	})
	sortEdges(g.Edges)
	return g
}

// TopPairs returns the n heaviest pairs from the full counts, ignoring thresholds
func (b *Builder) TopPairs(n int) []Edge {
	out := make([]Edge, 0, len(b.weight))
	for k, w := range b.weight {
		out = append(out, b.edge(k, w))
	}
	sortEdges(out)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (b *Builder) edge(k [2]int, w int) Edge {
	a, c := b.terms[k[0]], b.terms[k[1]]
	if c < a {
		a, c = c, a
	}
	return Edge{A: a, B: c, Weight: w}
}

func sortEdges(es []Edge) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].Weight != es[j].Weight {
			return es[i].Weight > es[j].Weight
		}
		if es[i].A != es[j].A {
			return es[i].A < es[j].A
		}
		return es[i].B < es[j].B
	})
}
