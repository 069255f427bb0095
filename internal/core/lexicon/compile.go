package lexicon

import (
	"attractor/internal/core/basin"
	"attractor/internal/core/cooccur"
	"attractor/internal/core/coupling"
	"attractor/internal/core/phrase"
	"attractor/internal/core/scorer"
	"attractor/internal/core/temporal"
)

// Compiled is a validated profile with its core components built.
// Every component is immutable; NewGraph returns a fresh builder per run
type Compiled struct {
	Profile    *Profile
	Mode       scorer.Mode
	Scorer     *scorer.Scorer
	Coupling   *coupling.Detector
	Markers    *phrase.Bank
	Escapes    *phrase.Bank
	Classifier *basin.Classifier
	Temporal   *temporal.Aggregator
}

// Compile validates p and builds the components
func (p *Profile) Compile() (*Compiled, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	mode, err := scorer.ParseMode(p.CountingMode)
	if err != nil {
		return nil, err
	}

	cats := make([]scorer.Category, len(p.Categories))
	for i, c := range p.Categories {
		cats[i] = scorer.Category{Name: c.Name, Terms: c.Terms}
	}
	sc, err := scorer.New(cats, scorer.Options{Mode: mode, Positive: p.Net.Positive, Negative: p.Net.Negative})
	if err != nil {
		return nil, err
	}
	cd, err := coupling.New(p.CouplingPairs)
	if err != nil {
		return nil, err
	}
	cl, err := basin.New(p.Basin.Thresholds)
	if err != nil {
		return nil, err
	}
	agg, err := temporal.New(p.Temporal.Window, p.CategoryNames(), p.MarkerNames())
	if err != nil {
		return nil, err
	}

	return &Compiled{
		Profile:    p.Clone(),
		Mode:       mode,
		Scorer:     sc,
		Coupling:   cd,
		Markers:    bank(p.Markers),
		Escapes:    bank(p.EscapeKinds),
		Classifier: cl,
		Temporal:   agg,
	}, nil
}

// NewGraph returns an empty co-occurrence builder over the profile's key terms
func (c *Compiled) NewGraph() *cooccur.Builder {
	return cooccur.NewBuilder(c.Profile.Graph.Terms, c.Profile.Graph.Suffixes)
}

func bank(lists []PhraseList) *phrase.Bank {
	sets := make([]*phrase.Set, len(lists))
	for i, l := range lists {
		sets[i] = phrase.Compile(l.Name, l.Phrases)
	}
	return phrase.NewBank(sets...)
}
