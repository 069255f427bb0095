package module_test

import (
	"testing"

	"attractor/internal/modkit"
	"attractor/internal/platform/config"
	"attractor/internal/platform/testkit"
	metamod "attractor/internal/services/api/meta/module"
)

func TestNew_Name(t *testing.T) {
	deps := modkit.Deps{Cfg: config.New()}
	m := metamod.New(deps, nil)
	if m.Name() != "meta" || m.Ports() != nil {
		t.Fatalf("name=%q ports=%v", m.Name(), m.Ports())
	}
	blank := metamod.New(deps, nil, modkit.WithName(" "))
	testkit.MustPanic(t, func() { _ = blank.Name() })
}
