package lexicon

// Overrides replace individual profile settings; nil fields keep the profile value
type Overrides struct {
	CountingMode     *string
	Window           *int
	MinNodeFrequency *int
	MinEdgeWeight    *int

	Analytical       *float64
	VoidDeep         *float64
	VoidDeepCoupling *float64
	VoidShallow      *float64
	Cosmology        *float64
}

// Empty reports whether no override is set
func (o Overrides) Empty() bool { return o == Overrides{} }

// With returns a copy of p with o applied. The copy is not validated
func (p *Profile) With(o Overrides) *Profile {
	c := p.Clone()
	set(&c.CountingMode, o.CountingMode)
	set(&c.Temporal.Window, o.Window)
	set(&c.Graph.MinNodeFrequency, o.MinNodeFrequency)
	set(&c.Graph.MinEdgeWeight, o.MinEdgeWeight)

	th := &c.Basin.Thresholds
	set(&th.Analytical, o.Analytical)
	set(&th.VoidDeep, o.VoidDeep)
	set(&th.VoidDeepCoupling, o.VoidDeepCoupling)
	set(&th.VoidShallow, o.VoidShallow)
	set(&th.Cosmology, o.Cosmology)
	return c
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
