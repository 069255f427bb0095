// Package module wires the analyze service into HTTP via modkit
package module

import (
	"attractor/internal/modkit"
	phttp "attractor/internal/platform/net/http"
	"attractor/internal/services/analyze/domain"
	analyzehttp "attractor/internal/services/analyze/http"
	"attractor/internal/services/analyze/service"
)

// Ports exposes the analyzer for cross-module lookups (bus worker, shell)
type Ports struct {
	Analyzer domain.AnalyzerPort
}

// Module implements the analyze module
type Module struct {
	b     modkit.Built
	svc   *service.Service
	ports Ports
	http  analyzehttp.Options
}

// New reads CORE_ANALYZE_* and builds the module. Configuration problems surface
// here, before the server accepts traffic
func New(deps modkit.Deps, opts ...modkit.Option) (modkit.Module, error) {
	o, err := FromConfig(deps.Cfg)
	if err != nil {
		return nil, err
	}
	svc, err := o.NewService()
	if err != nil {
		return nil, err
	}
	return NewWithService(deps, svc, opts...), nil
}

// NewWithService builds the module around an existing service
func NewWithService(deps modkit.Deps, svc *service.Service, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("analyze")}, opts...)...)
	p := svc.Profile()
	deps.Logger("analyze").Info().
		Str("profile", p.Name).
		Str("mode", p.CountingMode).
		Int("categories", len(p.Categories)).
		Int("workers", svc.Config().Workers).
		Msg("analyze module ready")
	return &Module{
		b:     b,
		svc:   svc,
		ports: Ports{Analyzer: svc},
		http:  analyzehttp.OptionsFromConfig(deps.Cfg),
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(rr phttp.Router) { analyzehttp.Register(rr, m.svc, m.http) })
}

// Name is the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Service returns the underlying service
func (m *Module) Service() *service.Service { return m.svc }
