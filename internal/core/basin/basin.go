// Package basin assigns an attractor basin label from aggregate lexical rates.
//
// Rules are evaluated in a fixed order and the first that holds wins:
//
//	analytical > Analytical                                  ANALYTICAL
//	void > VoidDeep and coupling > VoidDeepCoupling          VOID_DEEP
//	void > VoidShallow                                       VOID_SHALLOW
//	cosmology > Cosmology                                    MYSTICAL
//	otherwise                                                HYBRID_NEUTRAL
//
// Comparisons are strict, so a value equal to its threshold does not fire the
// rule. NaN never satisfies a comparison and falls through to HYBRID_NEUTRAL.
package basin

import (
	"math"

	perr "attractor/internal/platform/errors"
)

// Label is a basin classification
type Label string

const (
	Analytical    Label = "ANALYTICAL"
	VoidDeep      Label = "VOID_DEEP"
	VoidShallow   Label = "VOID_SHALLOW"
	Mystical      Label = "MYSTICAL"
	HybridNeutral Label = "HYBRID_NEUTRAL"
)

// Labels lists every label in rule order
func Labels() []Label {
	return []Label{Analytical, VoidDeep, VoidShallow, Mystical, HybridNeutral}
}

// Thresholds are the strict lower bounds for each rule
type Thresholds struct {
	Analytical       float64 `json:"analytical" yaml:"analytical"`
	VoidDeep         float64 `json:"void_deep" yaml:"void_deep"`
	VoidDeepCoupling float64 `json:"void_deep_coupling" yaml:"void_deep_coupling"`
	VoidShallow      float64 `json:"void_shallow" yaml:"void_shallow"`
	Cosmology        float64 `json:"cosmology" yaml:"cosmology"`
}

// DefaultThresholds returns the calibrated defaults
func DefaultThresholds() Thresholds {
	return Thresholds{
		Analytical:       0.15,
		VoidDeep:         0.15,
		VoidDeepCoupling: 0.30,
		VoidShallow:      0.10,
		Cosmology:        0.20,
	}
}

// Validate rejects NaN and infinite thresholds
func (t Thresholds) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"analytical", t.Analytical},
		{"void_deep", t.VoidDeep},
		{"void_deep_coupling", t.VoidDeepCoupling},
		{"void_shallow", t.VoidShallow},
		{"cosmology", t.Cosmology},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return perr.WithField(perr.Configf("basin threshold %s must be a finite number", f.name), f.name)
		}
	}
	return nil
}

// Input carries the rates a label is derived from. All values are fractions
type Input struct {
	MeanVoidDensity       float64 `json:"mean_void_density"`
	MeanAnalyticalDensity float64 `json:"mean_analytical_density"`
	CouplingRate          float64 `json:"coupling_rate"`
	CosmologyRate         float64 `json:"cosmology_rate"`
}

type rule struct {
	label Label
	holds func(in Input, t Thresholds) bool
}

var rules = []rule{
	{Analytical, func(in Input, t Thresholds) bool { return in.MeanAnalyticalDensity > t.Analytical }},
	{VoidDeep, func(in Input, t Thresholds) bool {
		return in.MeanVoidDensity > t.VoidDeep && in.CouplingRate > t.VoidDeepCoupling
	}},
	{VoidShallow, func(in Input, t Thresholds) bool { return in.MeanVoidDensity > t.VoidShallow }},
	{Mystical, func(in Input, t Thresholds) bool { return in.CosmologyRate > t.Cosmology }},
}

// Classifier applies the ordered rules; it is immutable and safe for concurrent use
type Classifier struct {
	t Thresholds
}

// New validates t and returns a classifier
func New(t Thresholds) (*Classifier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{t: t}, nil
}

// Default returns a classifier over DefaultThresholds
func Default() *Classifier { return &Classifier{t: DefaultThresholds()} }

// Thresholds returns the active thresholds
func (c *Classifier) Thresholds() Thresholds { return c.t }

// Classify returns the label of the first rule that holds
func (c *Classifier) Classify(in Input) Label {
	for _, r := range rules {
		if r.holds(in, c.t) {
			return r.label
		}
	}
	return HybridNeutral
}
