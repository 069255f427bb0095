// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"sort"
	"time"

	"attractor/internal/core/version"
	"attractor/internal/modkit/httpkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      map[string]Pinger // readiness checks by backend name; empty = nothing to check
	Modules     func() []string
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/modules", h.modules)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
	Uptime  int64  `json:"uptime"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok degraded
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ModulesResponse lists the mounted modules
type ModulesResponse struct {
	Modules []string `json:"modules"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	now := h.now()
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     now.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// ready pings every configured sink backend. Analysis itself needs no backend,
// so a failing sink degrades readiness instead of failing it
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.deps.Checks))
	for name := range h.deps.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, 0, len(names))}
	for _, name := range names {
		c := ReadyCheck{Name: name, Status: "ok"}
		if err := h.deps.Checks[name].Ping(ctx); err != nil {
			c.Status, c.Error = "fail", err.Error()
			out.Status = "degraded"
		}
		out.Checks = append(out.Checks, c)
	}
	out.Now = h.now().UTC().Format(time.RFC3339)
	return out, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

func (h *handlers) modules(_ *http.Request) (any, error) {
	out := ModulesResponse{Modules: []string{}}
	if h.deps.Modules != nil {
		out.Modules = h.deps.Modules()
	}
	return out, nil
}
