// Package lexicon holds the analysis profile: vocabularies, coupling pairs,
// phrase markers, graph terms, thresholds and the rolling window.
//
// A Profile is plain data read from the embedded default or from a YAML or
// JSON file. Compile validates it and builds the immutable core components a
// run is driven by.
package lexicon

import (
	"attractor/internal/core/basin"
	"attractor/internal/core/coupling"
)

// Category is a named vocabulary of single-word terms
type Category struct {
	Name  string   `json:"name" yaml:"name"`
	Terms []string `json:"terms" yaml:"terms"`
}

// PhraseList is a named list of phrases matched by substring
type PhraseList struct {
	Name    string   `json:"name" yaml:"name"`
	Phrases []string `json:"phrases" yaml:"phrases"`
}

// Net names the categories the net score subtracts
type Net struct {
	Positive string `json:"positive" yaml:"positive"`
	Negative string `json:"negative" yaml:"negative"`
}

// Graph configures the co-occurrence graph
type Graph struct {
	Terms            []string `json:"terms" yaml:"terms"`
	Suffixes         []string `json:"suffixes" yaml:"suffixes"`
	MinNodeFrequency int      `json:"min_node_frequency" yaml:"min_node_frequency"`
	MinEdgeWeight    int      `json:"min_edge_weight" yaml:"min_edge_weight"`
	TopPairs         int      `json:"top_pairs" yaml:"top_pairs"`
}

// Temporal configures day and hour bucketing
type Temporal struct {
	Window int `json:"window" yaml:"window"`
}

// Basin wires category and marker names into the classifier inputs
type Basin struct {
	VoidCategory       string           `json:"void_category" yaml:"void_category"`
	AnalyticalCategory string           `json:"analytical_category" yaml:"analytical_category"`
	CosmologyMarker    string           `json:"cosmology_marker" yaml:"cosmology_marker"`
	Thresholds         basin.Thresholds `json:"thresholds" yaml:"thresholds"`
}

// Report tunes the summary tables
type Report struct {
	GroupOrder       []string `json:"group_order" yaml:"group_order"`
	FirstWords       int      `json:"first_words" yaml:"first_words"`
	LexiconTopTokens int      `json:"lexicon_top_tokens" yaml:"lexicon_top_tokens"`
}

// Profile is the full analysis configuration
type Profile struct {
	Name          string          `json:"name" yaml:"name"`
	Version       int             `json:"version" yaml:"version"`
	CountingMode  string          `json:"counting_mode" yaml:"counting_mode"`
	Categories    []Category      `json:"categories" yaml:"categories"`
	Net           Net             `json:"net" yaml:"net"`
	CouplingPairs []coupling.Pair `json:"coupling_pairs" yaml:"coupling_pairs"`
	Markers       []PhraseList    `json:"markers" yaml:"markers"`
	EscapeKinds   []PhraseList    `json:"escape_kinds" yaml:"escape_kinds"`
	Graph         Graph           `json:"graph" yaml:"graph"`
	Temporal      Temporal        `json:"temporal" yaml:"temporal"`
	Basin         Basin           `json:"basin" yaml:"basin"`
	Report        Report          `json:"report" yaml:"report"`
}

// Category returns the named category, or nil
func (p *Profile) Category(name string) *Category {
	for i := range p.Categories {
		if p.Categories[i].Name == name {
			return &p.Categories[i]
		}
	}
	return nil
}

// CategoryNames lists category names in declaration order
func (p *Profile) CategoryNames() []string {
	out := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		out[i] = c.Name
	}
	return out
}

// MarkerNames lists marker names in declaration order
func (p *Profile) MarkerNames() []string {
	out := make([]string, len(p.Markers))
	for i, m := range p.Markers {
		out[i] = m.Name
	}
	return out
}

// Clone returns a deep copy, so overrides never leak into a shared profile
func (p *Profile) Clone() *Profile {
	c := *p
	c.Categories = make([]Category, len(p.Categories))
	for i, cat := range p.Categories {
		c.Categories[i] = Category{Name: cat.Name, Terms: append([]string(nil), cat.Terms...)}
	}
	c.CouplingPairs = append([]coupling.Pair(nil), p.CouplingPairs...)
	c.Markers = clonePhraseLists(p.Markers)
	c.EscapeKinds = clonePhraseLists(p.EscapeKinds)
	c.Graph.Terms = append([]string(nil), p.Graph.Terms...)
	c.Graph.Suffixes = append([]string(nil), p.Graph.Suffixes...)
	c.Report.GroupOrder = append([]string(nil), p.Report.GroupOrder...)
	return &c
}

func clonePhraseLists(in []PhraseList) []PhraseList {
	if in == nil {
		return nil
	}
	out := make([]PhraseList, len(in))
	for i, l := range in {
		out[i] = PhraseList{Name: l.Name, Phrases: append([]string(nil), l.Phrases...)}
	}
	return out
}
