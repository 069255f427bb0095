// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"attractor/internal/modkit"
	"attractor/internal/modkit/module"
	phttp "attractor/internal/platform/net/http"
	str "attractor/internal/platform/strings"

	metahttp "attractor/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module. Routes mount at the version root (/v1/health)
// unless WithPrefix says otherwise
func New(deps modkit.Deps, checks map[string]metahttp.Pinger, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta")}, opts...)...)
	return &Module{
		b: b,
		deps: metahttp.Deps{
			ServiceName: deps.Cfg.MayString("LOG_SERVICE", "attractor-api"),
			StartedAt:   time.Now(),
			Checks:      checks,
			Modules:     module.Names,
		},
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(rr phttp.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
