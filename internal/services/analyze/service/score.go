package service

import (
	"context"
	"sync"

	"attractor/internal/core/basin"
	"attractor/internal/core/temporal"
	"attractor/internal/core/tokenize"
	"attractor/internal/services/analyze/domain"
)

// scored keeps the tokens next to the wire score; graph and lexicon passes need them
type scored struct {
	out    domain.RecordScore
	tokens []string
	voidD  float64
	analD  float64
	cosmo  bool
}

func (s *Service) score(r domain.Record) scored {
	norm := tokenize.Normalize(r.Text)
	tokens := tokenize.Words(norm)
	vec := s.lx.Scorer.Score(tokens)
	cp := s.lx.Coupling.DetectNormalized(norm)
	markers := s.lx.Markers.Flags(norm)

	cats := make(map[string]domain.CategoryMetric, len(vec.Categories))
	for name, c := range vec.Categories {
		cats[name] = domain.CategoryMetric{Count: c.Count, Density: c.Density}
	}

	b := s.lx.Profile.Basin
	sc := scored{
		tokens: tokens,
		voidD:  vec.Density(b.VoidCategory),
		analD:  vec.Density(b.AnalyticalCategory),
		cosmo:  markers[b.CosmologyMarker],
	}
	sc.out = domain.RecordScore{
		ID:              r.ID,
		Group:           r.GroupOrDefault(),
		Model:           r.Model,
		Timestamp:       r.Timestamp,
		Hour:            r.Hour,
		ReasoningEffort: r.ReasoningEffort,
		TotalTokens:     vec.Tokens,
		Categories:      cats,
		NetScore:        vec.NetScore,
		Coupled:         cp.Coupled,
		Pairs:           cp.Pairs,
		Markers:         markers,
		EscapeKind:      s.lx.Escapes.First(norm),
		FirstWord:       tokenize.FirstField(r.Text),
	}
	sc.out.Basin = s.lx.Classifier.Classify(basin.Input{
		MeanVoidDensity:       sc.voidD,
		MeanAnalyticalDensity: sc.analD,
		CouplingRate:          indicator(cp.Coupled),
		CosmologyRate:         indicator(sc.cosmo),
	})
	return sc
}

// scoreAll scores records on a bounded pool; each result lands in its own slot
func (s *Service) scoreAll(ctx context.Context, recs []domain.Record) ([]scored, error) {
	out := make([]scored, len(recs))
	sem := make(chan struct{}, s.cfg.Workers)
	wg := sync.WaitGroup{}

	for i := range recs {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			out[i] = s.score(recs[i])
		}(i)
	}
	wg.Wait()
	return out, ctx.Err()
}

func (sc scored) point() temporal.Point {
	dens := make(map[string]float64, len(sc.out.Categories))
	for name, c := range sc.out.Categories {
		dens[name] = c.Density
	}
	return temporal.Point{
		Timestamp:       sc.out.Timestamp,
		Hour:            sc.out.Hour,
		Densities:       dens,
		NetScore:        sc.out.NetScore,
		Coupled:         sc.out.Coupled,
		Markers:         sc.out.Markers,
		ReasoningEffort: sc.out.ReasoningEffort,
	}
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
