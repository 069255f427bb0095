package lexicon

import (
	"strings"

	"attractor/internal/core/scorer"
	"attractor/internal/core/tokenize"
	perr "attractor/internal/platform/errors"
)

// Validate checks the profile before any record is processed. Every failure is
// an ErrorCodeConfiguration error carrying the offending field
func (p *Profile) Validate() error {
	if _, err := scorer.ParseMode(p.CountingMode); err != nil {
		return err
	}
	if len(p.Categories) == 0 {
		return cfgErr("categories", "profile declares no categories")
	}
	seen := make(map[string]struct{}, len(p.Categories))
	for i, c := range p.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return cfgErr("categories", "category %d has no name", i)
		}
		if c.Name != strings.TrimSpace(c.Name) {
			return cfgErr("categories", "category name %q has surrounding whitespace", c.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return cfgErr("categories", "duplicate category %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if err := validateTerms(c); err != nil {
			return err
		}
	}

	for _, req := range []struct{ field, name string }{
		{"net.positive", p.Net.Positive},
		{"net.negative", p.Net.Negative},
		{"basin.void_category", p.Basin.VoidCategory},
		{"basin.analytical_category", p.Basin.AnalyticalCategory},
	} {
		c := p.Category(req.name)
		if c == nil {
			return cfgErr(req.field, "%s names undeclared category %q", req.field, req.name)
		}
		if len(c.Terms) == 0 {
			return cfgErr(req.field, "category %q used by %s is empty", req.name, req.field)
		}
	}

	for i, pr := range p.CouplingPairs {
		if strings.TrimSpace(pr.A) == "" || strings.TrimSpace(pr.B) == "" {
			return cfgErr("coupling_pairs", "coupling pair %d has a blank term", i)
		}
	}

	if err := validateLists("markers", p.Markers); err != nil {
		return err
	}
	if err := validateLists("escape_kinds", p.EscapeKinds); err != nil {
		return err
	}
	if m := p.Basin.CosmologyMarker; m != "" && !hasList(p.Markers, m) {
		return cfgErr("basin.cosmology_marker", "cosmology marker %q is not declared", m)
	}

	for _, t := range p.Graph.Terms {
		if tokenize.Normalize(t) == "" {
			return cfgErr("graph.terms", "graph term is blank")
		}
	}
	if p.Graph.MinNodeFrequency < 0 || p.Graph.MinEdgeWeight < 0 || p.Graph.TopPairs < 0 {
		return cfgErr("graph", "graph thresholds must not be negative")
	}
	if p.Temporal.Window < 1 {
		return cfgErr("temporal.window", "rolling window must be at least 1, got %d", p.Temporal.Window)
	}
	if p.Report.FirstWords < 0 || p.Report.LexiconTopTokens < 0 {
		return cfgErr("report", "report sizes must not be negative")
	}
	return p.Basin.Thresholds.Validate()
}

func validateTerms(c Category) error {
	seen := make(map[string]struct{}, len(c.Terms))
	for _, t := range c.Terms {
		f := tokenize.Normalize(t)
		if f == "" {
			return cfgErr(c.Name, "category %q has a blank term", c.Name)
		}
		if w := tokenize.Words(f); len(w) != 1 || w[0] != f {
			return cfgErr(c.Name, "category %q term %q is not a single word", c.Name, t)
		}
		if _, dup := seen[f]; dup {
			return cfgErr(c.Name, "category %q lists %q twice", c.Name, f)
		}
		seen[f] = struct{}{}
	}
	return nil
}

func validateLists(field string, lists []PhraseList) error {
	seen := make(map[string]struct{}, len(lists))
	for i, l := range lists {
		if strings.TrimSpace(l.Name) == "" {
			return cfgErr(field, "%s entry %d has no name", field, i)
		}
		if l.Name != strings.TrimSpace(l.Name) {
			return cfgErr(field, "%s name %q has surrounding whitespace", field, l.Name)
		}
		if _, dup := seen[l.Name]; dup {
			return cfgErr(field, "duplicate %s entry %q", field, l.Name)
		}
		seen[l.Name] = struct{}{}
		for _, ph := range l.Phrases {
			if tokenize.Normalize(ph) == "" {
				return cfgErr(field, "%s entry %q has a blank phrase", field, l.Name)
			}
		}
	}
	return nil
}

func hasList(lists []PhraseList, name string) bool {
	for _, l := range lists {
		if l.Name == name {
			return true
		}
	}
	return false
}

func cfgErr(field, format string, a ...any) error {
	return perr.WithField(perr.Configf("lexicon: "+format, a...), field)
}
