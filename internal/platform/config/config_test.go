package config

import (
	"testing"
	"time"

	perr "attractor/internal/platform/errors"
	kit "attractor/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	core := New().Prefix("CORE_")
	if got := core.key("WINDOW"); got != "CORE_WINDOW" {
		t.Fatalf("key() = %q", got)
	}
	if got := core.Prefix("ANALYZE_").key("WINDOW"); got != "CORE_ANALYZE_WINDOW" {
		t.Fatalf("nested key() = %q", got)
	}
}

func TestMust(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  attractor ")
	if got := c.MustString("NAME"); got != "attractor" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })

	t.Setenv("APP_WORKERS", " 8 ")
	if got := c.MustInt("WORKERS"); got != 8 {
		t.Fatalf("MustInt = %d", got)
	}
	t.Setenv("APP_BAD", "x")
	kit.MustPanic(t, func() { _ = c.MustInt("BAD") })
}

func TestRequireAndHas(t *testing.T) {
	c := New().Prefix("REQ_")
	t.Setenv("REQ_A", "x")
	t.Setenv("REQ_WS", "   ")
	kit.MustNotPanic(t, func() { c.Require("A") })
	kit.MustPanic(t, func() { c.Require("A", "C") })
	kit.MustPanic(t, func() { c.Require("WS") })
	if !c.Has("A") || c.Has("WS") || c.Has("NOPE") {
		t.Fatalf("Has mismatch")
	}
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("M_")
	t.Setenv("M_S", " x ")
	t.Setenv("M_I", " 7 ")
	t.Setenv("M_IBAD", "seven")
	t.Setenv("M_F", "0.25")
	t.Setenv("M_FBAD", "quarter")
	t.Setenv("M_B", "true")
	t.Setenv("M_BBAD", "maybe")
	t.Setenv("M_D", "150ms")
	t.Setenv("M_DBAD", "soon")

	if got := c.MayString("S", "d"); got != "x" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayString("MISS", "d"); got != "d" {
		t.Fatalf("MayString default = %q", got)
	}
	if got := c.MayInt("I", 0); got != 7 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("IBAD", 3); got != 3 {
		t.Fatalf("MayInt bad = %d", got)
	}
	if got := c.MayFloat64("F", 0); got != 0.25 {
		t.Fatalf("MayFloat64 = %v", got)
	}
	if got := c.MayFloat64("FBAD", 0.15); got != 0.15 {
		t.Fatalf("MayFloat64 bad = %v", got)
	}
	if !c.MayBool("B", false) || c.MayBool("BBAD", false) {
		t.Fatalf("MayBool mismatch")
	}
	if got := c.MayDuration("D", time.Second); got != 150*time.Millisecond {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayDuration("DBAD", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration bad = %v", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	def := []string{"a", "b"}
	if got := c.MayCSV("MISS", def); len(got) != 2 {
		t.Fatalf("MayCSV default mismatch: %#v", got)
	}
	t.Setenv("CSV_VALS", " one, two , ,three ,, ")
	got := c.MayCSV("VALS", nil)
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("MayCSV len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MayCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	t.Setenv("CSV_EMPTY", " , ,")
	if got := c.MayCSV("EMPTY", []string{"fallback"}); len(got) != 1 || got[0] != "fallback" {
		t.Fatalf("MayCSV all-empty -> default mismatch: %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	if got := c.MayEnum("MISS", "multiset", "multiset", "distinct"); got != "multiset" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("E_MODE", "Distinct")
	if got := c.MayEnum("MODE", "multiset", "multiset", "distinct"); got != "distinct" {
		t.Fatalf("MayEnum allowed value = %q", got)
	}
	t.Setenv("E_BAD", "bag")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "multiset", "multiset", "distinct") })
	if got := c.MayEnum("MISSING", "", "a"); got != "" {
		t.Fatalf("MayEnum empty default = %q", got)
	}
}

func TestOptGetters(t *testing.T) {
	c := New().Prefix("OPT_T_")
	t.Setenv("OPT_T_N", "7")
	t.Setenv("OPT_T_F", "0.25")
	t.Setenv("OPT_T_BAD", "x")
	t.Setenv("OPT_T_S", " hi ")

	if n, err := c.OptInt("N"); err != nil || n == nil || *n != 7 {
		t.Fatalf("OptInt = %v %v", n, err)
	}
	if f, err := c.OptFloat64("F"); err != nil || f == nil || *f != 0.25 {
		t.Fatalf("OptFloat64 = %v %v", f, err)
	}
	if n, err := c.OptInt("MISSING"); err != nil || n != nil {
		t.Fatalf("missing OptInt = %v %v", n, err)
	}
	if _, err := c.OptInt("BAD"); !perr.IsCode(err, perr.ErrorCodeConfiguration) {
		t.Fatalf("bad OptInt err = %v", err)
	}
	if _, err := c.OptFloat64("BAD"); err == nil {
		t.Fatalf("bad OptFloat64 must fail")
	}
	if s := c.OptString("S"); s == nil || *s != "hi" {
		t.Fatalf("OptString = %v", s)
	}
	if c.OptString("MISSING") != nil {
		t.Fatalf("missing OptString must be nil")
	}
}
