package service

import (
	"sort"

	"attractor/internal/core/basin"
	"attractor/internal/core/lexicon"
	"attractor/internal/services/analyze/domain"
)

// groupAcc accumulates one group; built per run and discarded
type groupAcc struct {
	name       string
	n          int
	density    map[string]float64
	net        float64
	coupled    int
	pairs      map[string]int
	markers    map[string]int
	escapes    map[string]int
	firstWords map[string]int
	effortN    int
	effortSum  float64
	effortMax  int
}

func newGroupAcc(name string) *groupAcc {
	return &groupAcc{
		name:       name,
		density:    map[string]float64{},
		pairs:      map[string]int{},
		markers:    map[string]int{},
		escapes:    map[string]int{},
		firstWords: map[string]int{},
	}
}

func (g *groupAcc) add(sc scored) {
	r := sc.out
	g.n++
	for name, c := range r.Categories {
		g.density[name] += c.Density
	}
	g.net += r.NetScore
	if r.Coupled {
		g.coupled++
	}
	for _, p := range r.Pairs {
		if p.Matched {
			g.pairs[p.Pair]++
		}
	}
	for m, hit := range r.Markers {
		if hit {
			g.markers[m]++
		}
	}
	if r.EscapeKind != "" {
		g.escapes[r.EscapeKind]++
	}
	if r.FirstWord != "" {
		g.firstWords[r.FirstWord]++
	}
	if r.ReasoningEffort != nil {
		e := *r.ReasoningEffort
		g.effortN++
		g.effortSum += float64(e)
		g.effortMax = max(g.effortMax, e)
	}
}

// stat reduces the accumulator; every category, pair, marker and escape kind of
// the profile appears in the row, zero when absent
func (g *groupAcc) stat(lx *lexicon.Compiled) domain.GroupStat {
	p := lx.Profile
	st := domain.GroupStat{
		Group:        g.name,
		N:            g.n,
		MeanDensity:  make(map[string]float64, len(p.Categories)),
		PairRates:    map[string]float64{},
		MarkerCounts: make(map[string]int, len(p.Markers)),
		MarkerRates:  make(map[string]float64, len(p.Markers)),
		EscapeKinds:  make(map[string]int, len(p.EscapeKinds)),
	}
	for _, c := range p.Categories {
		st.MeanDensity[c.Name] = ratio(g.density[c.Name], g.n)
	}
	for _, pr := range lx.Coupling.Pairs() {
		st.PairRates[pr.Key()] = ratio(float64(g.pairs[pr.Key()]), g.n)
	}
	for _, m := range p.Markers {
		st.MarkerCounts[m.Name] = g.markers[m.Name]
		st.MarkerRates[m.Name] = ratio(float64(g.markers[m.Name]), g.n)
	}
	for _, k := range p.EscapeKinds {
		st.EscapeKinds[k.Name] = g.escapes[k.Name]
	}
	st.MeanNetScore = ratio(g.net, g.n)
	st.CouplingRate = ratio(float64(g.coupled), g.n)
	st.MeanReasoningEffort = ratio(g.effortSum, g.effortN)
	st.MaxReasoningEffort = g.effortMax
	st.TopFirstWords = topWords(g.firstWords, p.Report.FirstWords)

	st.Basin = lx.Classifier.Classify(basin.Input{
		MeanVoidDensity:       st.MeanDensity[p.Basin.VoidCategory],
		MeanAnalyticalDensity: st.MeanDensity[p.Basin.AnalyticalCategory],
		CouplingRate:          st.CouplingRate,
		CosmologyRate:         st.MarkerRates[p.Basin.CosmologyMarker],
	})
	return st
}

// orderGroups lists configured groups first, in configured order, then the rest alphabetically.
// Configured groups with no records are left out
func orderGroups(present map[string]*groupAcc, configured []string) []string {
	out := make([]string, 0, len(present))
	seen := make(map[string]bool, len(present))
	for _, g := range configured {
		if _, ok := present[g]; ok && !seen[g] {
			out = append(out, g)
			seen[g] = true
		}
	}
	rest := make([]string, 0, len(present))
	for g := range present {
		if !seen[g] {
			rest = append(rest, g)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// topWords ranks by count, ties alphabetical; n <= 0 returns an empty list
func topWords(counts map[string]int, n int) []domain.WordCount {
	out := make([]domain.WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, domain.WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n <= 0 {
		return []domain.WordCount{}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func ratio(num float64, den int) float64 {
	if den == 0 {
		return 0
	}
	return num / float64(den)
}
