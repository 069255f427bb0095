// Package api composes the HTTP API: meta, analyze and schema routes under /v1
package api

import (
	"encoding/json"
	"net/http"

	"attractor/internal/platform/config"
	"attractor/internal/platform/logger"
	phttp "attractor/internal/platform/net/http"

	"attractor/internal/modkit"
	"attractor/internal/modkit/httpkit"
	"attractor/internal/modkit/module"

	analyzemod "attractor/internal/services/analyze/module"
	metahttp "attractor/internal/services/api/meta/http"
	metamod "attractor/internal/services/api/meta/module"
	"attractor/internal/services/schema"
)

// OpenAPIPath is where the OpenAPI document is served, relative to /v1
const OpenAPIPath = "/openapi.json"

// Options are the API options
type Options struct {
	Config config.Conf
	Logger *logger.Logger

	// Analyze is the analyze module; nil builds one from CORE_ANALYZE_*
	Analyze modkit.Module

	// Checks are the readiness probes for enabled sink backends
	Checks map[string]metahttp.Pinger

	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API onto r. It fails only on configuration errors, which
// callers treat as fatal before serving
func Mount(r phttp.Router, opt Options) error {
	deps := modkit.Deps{Log: opt.Logger, Cfg: opt.Config}
	service := opt.Config.MayString("LOG_SERVICE", "attractor-api")

	analyze := opt.Analyze
	if analyze == nil {
		m, err := analyzemod.New(deps)
		if err != nil {
			return err
		}
		analyze = m
	}

	bundle, err := schema.Generate().JSON()
	if err != nil {
		return err
	}
	spec, err := schema.OpenAPI(service)
	if err != nil {
		return err
	}

	mods := []module.Module{
		metamod.New(deps, opt.Checks),
		analyze,
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(httpkit.StackFromConfig(opt.Config)), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}

		httpkit.Get(api, "/schema", func(*http.Request) (any, error) { return json.RawMessage(bundle), nil })
		phttp.MountSwagger(api, opt.EnableSwagger, OpenAPIPath, spec)
	})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	deps.Logger("api").Info().
		Strs("modules", module.Names()).
		Bool("swagger", opt.EnableSwagger).
		Bool("profiler", opt.EnableProfiler).
		Msg("api mounted")
	return nil
}
