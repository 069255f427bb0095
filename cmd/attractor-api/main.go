// Command attractor-api serves the analyze API under /v1 and, with
// NATS_ENABLED, runs the bus worker next to it
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"attractor/internal/adapters/sink/sinkset"
	"attractor/internal/modkit"
	"attractor/internal/modkit/module"
	"attractor/internal/platform/config"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/logger"
	phttp "attractor/internal/platform/net/http"
	"attractor/internal/platform/net/middleware"
	"attractor/internal/services/analyze/domain"
	analyzemod "attractor/internal/services/analyze/module"
	"attractor/internal/services/analyze/worker"
	"attractor/internal/services/api"
	metahttp "attractor/internal/services/api/meta/http"
)

const name = "attractor-api"

func main() {
	if os.Getenv("LOG_SERVICE") == "" {
		_ = os.Setenv("LOG_SERVICE", name)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		logger.Get().Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("attractor-api stopped")
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
	}
	os.Exit(perr.ExitCode(err))
}

func run(ctx context.Context) error {
	root := config.New()
	l := logger.Get()
	deps := modkit.Deps{Log: l, Cfg: root}

	// profile and thresholds are checked before anything listens
	opts, err := analyzemod.FromConfig(root)
	if err != nil {
		return err
	}
	svc, err := opts.NewService()
	if err != nil {
		return err
	}

	sinks, err := sinkset.Open(ctx, root, sinkset.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := sinks.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close sinks")
		}
	}()

	am := analyzemod.NewWithService(deps, svc)
	if sinks.Bus != nil {
		bc := sinks.BusConfig
		analyzer := module.MustPortsOf[domain.AnalyzerPort](am)
		if err := worker.New(analyzer, sinks.Sinks...).Start(ctx, sinks.Bus, bc.RequestSubject, bc.Queue); err != nil {
			return err
		}
	}

	checks := map[string]metahttp.Pinger{}
	for k, p := range sinks.Checks() {
		checks[k] = p
	}

	srv := phttp.NewServer(root, func(m *chi.Mux) { m.Use(middleware.Defaults()...) })
	err = api.Mount(srv.Router(), api.Options{
		Config:         root,
		Logger:         l,
		Analyze:        am,
		Checks:         checks,
		EnableSwagger:  root.MayBool("API_ENABLE_SWAGGER", true),
		EnableProfiler: root.MayBool("API_ENABLE_PROFILER", false),
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
