package module_test

import (
	"context"
	"testing"

	"attractor/internal/modkit"
	"attractor/internal/modkit/module"
	"attractor/internal/platform/config"
	perr "attractor/internal/platform/errors"
	"attractor/internal/services/analyze/domain"
	analyzemod "attractor/internal/services/analyze/module"
)

func TestNewWithService_AnalyzerPort(t *testing.T) {
	svc, err := analyzemod.Options{}.NewService()
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	m := analyzemod.NewWithService(modkit.Deps{Cfg: config.New()}, svc)
	if m.Name() != "analyze" {
		t.Fatalf("name = %q", m.Name())
	}

	a := module.MustPortsOf[domain.AnalyzerPort](m)
	if a.Profile() != svc.Profile() {
		t.Fatalf("port does not wrap the module service")
	}
	sc, err := a.Score(context.Background(), domain.Record{Text: "a whisper in the shadow"})
	if err != nil || sc.TotalTokens == 0 {
		t.Fatalf("score = %+v, %v", sc, err)
	}
}

func TestNew_BadOverride(t *testing.T) {
	t.Setenv("CORE_ANALYZE_WINDOW", "wide")
	_, err := analyzemod.New(modkit.Deps{Cfg: config.New()})
	if !perr.IsCode(err, perr.ErrorCodeConfiguration) {
		t.Fatalf("err = %v", err)
	}
}
