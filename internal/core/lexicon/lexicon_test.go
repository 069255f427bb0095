package lexicon

import (
	"math"
	"testing"

	"attractor/internal/core/basin"
	"attractor/internal/core/scorer"
	"attractor/internal/core/tokenize"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/testkit"
)

func TestDefault(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("embedded profile invalid: %v", err)
	}
	want := []string{"void", "light", "cosmological", "transitional", "analytical"}
	got := p.CategoryNames()
	if len(got) != len(want) {
		t.Fatalf("categories = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories = %v", got)
		}
	}
	if p.Basin.Thresholds != basin.DefaultThresholds() {
		t.Fatalf("thresholds = %+v", p.Basin.Thresholds)
	}
	if p.Temporal.Window != 7 || p.Graph.MinNodeFrequency != 10 || p.Graph.MinEdgeWeight != 20 || len(p.Graph.Terms) != 14 {
		t.Fatalf("graph/temporal defaults = %+v %+v", p.Graph, p.Temporal)
	}
	if len(p.CouplingPairs) != 1 || p.CouplingPairs[0].A != "forgotten" || p.CouplingPairs[0].B != "whisper" {
		t.Fatalf("pairs = %+v", p.CouplingPairs)
	}
}

func TestDefault_ReturnsCopies(t *testing.T) {
	a := MustDefault()
	a.Categories[0].Terms[0] = "mutated"
	a.Temporal.Window = 99
	b := MustDefault()
	if b.Categories[0].Terms[0] == "mutated" || b.Temporal.Window == 99 {
		t.Fatalf("Default shares state between callers")
	}
}

func TestCompile_DefaultScenario(t *testing.T) {
	c, err := MustDefault().Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	text := "The forgotten whisper fades into the void."
	v := c.Scorer.Score(tokenize.New().Tokenize(text))
	if v.Count("void") != 3 {
		t.Fatalf("void count = %d", v.Count("void"))
	}
	if !c.Coupling.Detect(text).Coupled {
		t.Fatalf("expected coupling")
	}
	flags := c.Markers.Flags(tokenize.Normalize(text))
	if !flags["cosmology"] || flags["refusal"] || flags["spiral"] {
		t.Fatalf("flags = %v", flags)
	}
	if c.Escapes.First(tokenize.Normalize("U+2020 is a dagger")) != "literal" {
		t.Fatalf("escape kind not literal")
	}
	if c.Temporal.Window() != 7 || c.Mode != scorer.Multiset {
		t.Fatalf("compiled = %+v", c)
	}
	g := c.NewGraph()
	g.Add([]string{"whispers", "forgotten"})
	if g.Weight("forgotten", "whisper") != 1 {
		t.Fatalf("graph builder not wired to profile terms")
	}
}

func TestParse_PartialYAMLKeepsDefaults(t *testing.T) {
	p, err := Parse([]byte(`
name: tuned
counting_mode: distinct
temporal:
  window: 3
basin:
  thresholds:
    analytical: 0.10
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Name != "tuned" || p.CountingMode != "distinct" || p.Temporal.Window != 3 {
		t.Fatalf("profile = %+v", p)
	}
	th := p.Basin.Thresholds
	if th.Analytical != 0.10 || th.VoidDeep != 0.15 || th.Cosmology != 0.20 {
		t.Fatalf("thresholds = %+v", th)
	}
	if len(p.Categories) != 5 || len(p.Markers) != 4 {
		t.Fatalf("lists should fall back to defaults")
	}
	if p.Basin.CosmologyMarker != "cosmology" || p.Graph.MinEdgeWeight != 20 {
		t.Fatalf("nested defaults lost: %+v", p.Basin)
	}
}

func TestParse_ListsReplaceWholesale(t *testing.T) {
	p, err := Parse([]byte(`{
  "categories": [
    {"name": "void", "terms": ["void"]},
    {"name": "light", "terms": ["light"]},
    {"name": "analytical", "terms": ["symbol"]}
  ],
  "coupling_pairs": [{"a": "void", "b": "light"}]
}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Categories) != 3 || len(p.CouplingPairs) != 1 || p.CouplingPairs[0].A != "void" {
		t.Fatalf("profile = %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":       "   ",
		"unknown key": "colour: blue\n",
		"bad yaml":    "categories: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); !perr.IsCode(err, perr.ErrorCodeConfiguration) {
				t.Fatalf("want configuration error, got %v", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := testkit.WriteFile(t, "profiles/p.yaml", "temporal:\n  window: 14\n")
	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.Temporal.Window != 14 {
		t.Fatalf("window = %d", p.Temporal.Window)
	}
	if p, err := LoadFile(""); err != nil || p.Name != "default" {
		t.Fatalf("LoadFile(\"\") = %v, %v", p, err)
	}
	if _, err := LoadFile(path + ".missing"); !perr.IsCode(err, perr.ErrorCodeConfiguration) {
		t.Fatalf("missing file: %v", err)
	}
	bad := testkit.WriteFile(t, "bad.yaml", "temporal:\n  window: 0\n")
	if _, err := LoadFile(bad); !perr.IsCode(err, perr.ErrorCodeConfiguration) {
		t.Fatalf("invalid window should fail: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *Profile)
		field string
	}{
		{"no categories", func(p *Profile) { p.Categories = nil }, "categories"},
		{"blank category name", func(p *Profile) { p.Categories[1].Name = " " }, "categories"},
		{"padded category name", func(p *Profile) {
			p.Categories = append(p.Categories, Category{Name: "extra ", Terms: []string{"fade"}})
		}, "categories"},
		{"duplicate category", func(p *Profile) { p.Categories[1].Name = "void" }, "categories"},
		{"blank term", func(p *Profile) { p.Categories[0].Terms = append(p.Categories[0].Terms, "  ") }, "void"},
		{"multi-word term", func(p *Profile) { p.Categories[0].Terms = append(p.Categories[0].Terms, "the void") }, "void"},
		{"hyphenated term", func(p *Profile) { p.Categories[0].Terms = append(p.Categories[0].Terms, "half-light") }, "void"},
		{"duplicate term after folding", func(p *Profile) { p.Categories[0].Terms = append(p.Categories[0].Terms, "VOID") }, "void"},
		{"missing net category", func(p *Profile) { p.Net.Positive = "dawn" }, "net.positive"},
		{"empty void category", func(p *Profile) { p.Categories[0].Terms = nil }, "net.negative"},
		{"empty analytical category", func(p *Profile) { p.Category("analytical").Terms = []string{} }, "basin.analytical_category"},
		{"blank pair term", func(p *Profile) { p.CouplingPairs[0].B = "" }, "coupling_pairs"},
		{"duplicate marker", func(p *Profile) { p.Markers[1].Name = "cosmology" }, "markers"},
		{"padded marker name", func(p *Profile) { p.Markers[0].Name = " " + p.Markers[0].Name }, "markers"},
		{"blank phrase", func(p *Profile) { p.EscapeKinds[0].Phrases = []string{" "} }, "escape_kinds"},
		{"undeclared cosmology marker", func(p *Profile) { p.Basin.CosmologyMarker = "stars" }, "basin.cosmology_marker"},
		{"window zero", func(p *Profile) { p.Temporal.Window = 0 }, "temporal.window"},
		{"negative edge threshold", func(p *Profile) { p.Graph.MinEdgeWeight = -1 }, "graph"},
		{"nan threshold", func(p *Profile) { p.Basin.Thresholds.VoidShallow = math.NaN() }, "void_shallow"},
		{"unknown mode", func(p *Profile) { p.CountingMode = "bag" }, "counting_mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustDefault()
			tt.edit(p)
			err := p.Validate()
			if !perr.IsCode(err, perr.ErrorCodeConfiguration) {
				t.Fatalf("want configuration error, got %v", err)
			}
			if e, _ := perr.As(err); e.Field() != tt.field {
				t.Fatalf("field = %q, want %q (%v)", e.Field(), tt.field, err)
			}
			if _, err := p.Compile(); err == nil {
				t.Fatalf("Compile should fail too")
			}
		})
	}
}

func TestWith(t *testing.T) {
	mode, w, edge, an := "distinct", 3, 0, 0.5
	base := MustDefault()
	p := base.With(Overrides{CountingMode: &mode, Window: &w, MinEdgeWeight: &edge, Analytical: &an})
	if p.CountingMode != "distinct" || p.Temporal.Window != 3 || p.Graph.MinEdgeWeight != 0 || p.Basin.Thresholds.Analytical != 0.5 {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.Graph.MinNodeFrequency != 10 || p.Basin.Thresholds.VoidDeep != 0.15 {
		t.Fatalf("unset overrides changed values")
	}
	if base.Temporal.Window != 7 {
		t.Fatalf("With mutated the receiver")
	}
	if !(Overrides{}).Empty() {
		t.Fatalf("zero overrides should be empty")
	}
}
