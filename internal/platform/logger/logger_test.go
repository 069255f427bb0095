package logger

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	kit "attractor/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel_AllBranches(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"panic", "panic"},
		{"", "info"},
		{"   nonsense   ", "info"},
	}
	for _, c := range cases {
		lvl := parseLevel(c.in)
		if strings.ToLower(lvl.String()) != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, lvl, c.want)
		}
	}
}

func TestResolveFormat(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &isTerminal, func(io.Writer) bool { return true })
	if got := resolveFormat("auto", &bytes.Buffer{}); got != "console" {
		t.Fatalf("auto on tty = %q", got)
	}
	if got := resolveFormat("JSON", &bytes.Buffer{}); got != "json" {
		t.Fatalf("explicit json = %q", got)
	}

	kit.Swap(t, &isTerminal, func(io.Writer) bool { return false })
	if got := resolveFormat("", &bytes.Buffer{}); got != "json" {
		t.Fatalf("auto off tty = %q", got)
	}
	if got := resolveFormat("pretty", &bytes.Buffer{}); got != "console" {
		t.Fatalf("pretty = %q", got)
	}
}

func TestInit_Get_Named_C(t *testing.T) {
	var buf bytes.Buffer

	Init(Options{
		Level:        "info",
		Format:       "console",
		Service:      "attractor-test",
		Component:    "root",
		Writer:       &buf,
		WithCaller:   true,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	rv := Get().Sample(&zerolog.BasicSampler{N: 1})
	rp := &rv
	rp.Info().Str("k", "v").Msg("root-msg")

	nv := Named("analyze").Sample(&zerolog.BasicSampler{N: 1})
	np := &nv
	np.Info().Msg("named-msg")

	ctx := WithRun(WithRequest(context.Background(), "req-123"), "run-abc")
	cv := C(ctx).Sample(&zerolog.BasicSampler{N: 1})
	cp := &cv
	cp.Info().Msg("ctx-msg")

	if WithRequest(ctx, "") != ctx || WithRun(ctx, "") != ctx {
		t.Fatalf("empty ids should not wrap the context")
	}

	out := buf.String()
	kit.MustContain(t, out, "root-msg")
	kit.MustContain(t, out, "named-msg")
	kit.MustContain(t, out, "ctx-msg")
	kit.MustContain(t, out, "component=")
	kit.MustContain(t, out, "analyze")
	kit.MustContain(t, out, "request_id=")
	kit.MustContain(t, out, "req-123")
	kit.MustContain(t, out, "run_id=")
	kit.MustContain(t, out, "run-abc")
	kit.MustContain(t, out, "build=")
	kit.MustContain(t, out, "service=")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SERVICE", "svc-b")
	t.Setenv("LOG_COMPONENT", "comp-b")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" {
		t.Fatalf("FromEnv level/format mismatch: %+v", opt)
	}
	if opt.Service != "svc-b" || opt.Component != "comp-b" {
		t.Fatalf("FromEnv fields mismatch: %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample mismatch: %+v", opt)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_LEVEL", "")
	opt := FromEnv()
	if opt.Format != "auto" || opt.Level != "info" {
		t.Fatalf("defaults = %+v", opt)
	}
}
