package main

import (
	"bytes"
	"context"
	"testing"

	"attractor/internal/platform/config"
	"attractor/internal/platform/testkit"
)

func TestRun_Version(t *testing.T) {
	var out, errb bytes.Buffer
	if code := run(context.Background(), []string{"-version"}, &out, &errb); code != 0 {
		t.Fatalf("exit = %d, stderr=%s", code, errb.String())
	}
	testkit.MustContain(t, out.String(), name)
}

func TestRun_BadFlags(t *testing.T) {
	var out, errb bytes.Buffer
	if code := run(context.Background(), []string{"-nope"}, &out, &errb); code != 2 {
		t.Fatalf("exit = %d, want 2", code)
	}
}

func TestNewShell(t *testing.T) {
	t.Setenv("CORE_ANALYZE_PROFILE", "")
	t.Setenv("CORE_ANALYZE_COUNTING_MODE", "distinct")
	var out bytes.Buffer
	sh, err := newShell(config.New(), "", &out)
	if err != nil {
		t.Fatalf("newShell: %v", err)
	}
	if got := sh.Service().Profile().CountingMode; got != "distinct" {
		t.Fatalf("mode = %q", got)
	}

	t.Setenv("CORE_ANALYZE_COUNTING_MODE", "bag")
	if _, err := newShell(config.New(), "", &out); err == nil {
		t.Fatalf("expected configuration error")
	}
}
