package modkit

import (
	"net/http"

	phttp "attractor/internal/platform/net/http"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	Subrouter func(phttp.Router) phttp.Router
	Register  func(phttp.Router)
}

// Build applies Option funcs and returns a plain struct with non-nil hooks
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.subrouter == nil {
		c.subrouter = func(r phttp.Router) phttp.Router { return r }
	}
	if c.register == nil {
		c.register = func(phttp.Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}

// Mount is the MountRoutes body every module shares: prefix, middlewares,
// subrouter hook, then the module's own routes and the external register hook
// An empty prefix mounts into a group on r itself
func (b Built) Mount(r phttp.Router, routes func(phttp.Router)) {
	body := func(rr phttp.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		rr = b.Subrouter(rr)
		routes(rr)
		b.Register(rr)
	}
	if b.Prefix == "" {
		r.Group(body)
		return
	}
	r.Route(b.Prefix, body)
}
