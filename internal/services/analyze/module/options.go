package module

import (
	"attractor/internal/core/lexicon"
	"attractor/internal/platform/config"
	"attractor/internal/services/analyze/service"
)

// Options holds configuration settings for the analyze module
type Options struct {
	ProfilePath string
	Overrides   lexicon.Overrides
	Service     service.Config
}

// FromConfig reads CORE_ANALYZE_* settings. Unparsable overrides are configuration
// errors rather than silent defaults
func FromConfig(cfg config.Conf) (Options, error) {
	af := cfg.Prefix("CORE_ANALYZE_")
	o := Options{
		ProfilePath: af.MayString("PROFILE", ""),
		Service: service.Config{
			Workers:          af.MayInt("WORKERS", 0),
			RequireTimestamp: af.MayBool("REQUIRE_TIMESTAMP", false),
			KeepRecords:      af.MayBool("KEEP_RECORDS", false),
			MaxRejections:    af.MayInt("MAX_REJECTIONS", 1000),
			Service:          cfg.MayString("LOG_SERVICE", ""),
		},
	}
	o.Overrides.CountingMode = af.OptString("COUNTING_MODE")

	ints := []struct {
		key string
		dst **int
	}{
		{"WINDOW", &o.Overrides.Window},
		{"MIN_NODE_FREQUENCY", &o.Overrides.MinNodeFrequency},
		{"MIN_EDGE_WEIGHT", &o.Overrides.MinEdgeWeight},
	}
	for _, f := range ints {
		v, err := af.OptInt(f.key)
		if err != nil {
			return Options{}, err
		}
		*f.dst = v
	}

	floats := []struct {
		key string
		dst **float64
	}{
		{"THRESHOLD_ANALYTICAL", &o.Overrides.Analytical},
		{"THRESHOLD_VOID_DEEP", &o.Overrides.VoidDeep},
		{"THRESHOLD_VOID_DEEP_COUPLING", &o.Overrides.VoidDeepCoupling},
		{"THRESHOLD_VOID_SHALLOW", &o.Overrides.VoidShallow},
		{"THRESHOLD_COSMOLOGY", &o.Overrides.Cosmology},
	}
	for _, f := range floats {
		v, err := af.OptFloat64(f.key)
		if err != nil {
			return Options{}, err
		}
		*f.dst = v
	}
	return o, nil
}

// Profile loads the profile file (or the embedded default), applies overrides and validates
func (o Options) Profile() (*lexicon.Profile, error) {
	p, err := lexicon.LoadFile(o.ProfilePath)
	if err != nil {
		return nil, err
	}
	if o.Overrides.Empty() {
		return p, nil
	}
	p = p.With(o.Overrides)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewService builds the analyze service from options; the CLI and shell use it directly
func (o Options) NewService() (*service.Service, error) {
	p, err := o.Profile()
	if err != nil {
		return nil, err
	}
	lx, err := p.Compile()
	if err != nil {
		return nil, err
	}
	return service.New(lx, o.Service), nil
}
