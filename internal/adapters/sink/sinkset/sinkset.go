// Package sinkset opens the report sinks a process asked for and closes them together
package sinkset

import (
	"context"

	"attractor/internal/adapters/sink/bus"
	"attractor/internal/adapters/sink/clickhouse"
	"attractor/internal/adapters/sink/file"
	"attractor/internal/adapters/sink/postgres"
	"attractor/internal/adapters/sink/sqlite"
	pbus "attractor/internal/platform/bus"
	"attractor/internal/platform/config"
	"attractor/internal/platform/logger"
	"attractor/internal/platform/store"
	"attractor/internal/services/analyze/domain"
)

// Options are flag overrides on top of the environment
type Options struct {
	OutDir     string
	SQLitePath string
	PG         bool
	CH         bool
	NATS       bool
}

// Set is the opened sinks plus the connections they own
type Set struct {
	Sinks     []domain.SinkPort
	Store     *store.Store
	Bus       *pbus.Client
	BusConfig pbus.Config
}

// seams for tests
var (
	openStore = store.Open
	dialBus   = pbus.Connect
)

// Open reads the environment, applies o and opens every enabled backend
func Open(ctx context.Context, cfg config.Conf, o Options) (*Set, error) {
	log := logger.Named("sinks")
	sc := store.FromConfig(cfg)
	if o.SQLitePath != "" {
		sc.SQLite.Path = o.SQLitePath
	}
	sc.PG.Enabled = sc.PG.Enabled || o.PG
	sc.CH.Enabled = sc.CH.Enabled || o.CH

	bc := pbus.FromConfig(cfg)
	bc.Enabled = bc.Enabled || o.NATS

	s := &Set{BusConfig: bc}
	if o.OutDir != "" {
		s.Sinks = append(s.Sinks, file.New(o.OutDir))
	}

	st, err := openStore(ctx, sc, store.WithLogger(*logger.Named("store")))
	if err != nil {
		return nil, err
	}
	s.Store = st
	if st.SQLite != nil {
		s.Sinks = append(s.Sinks, sqlite.New(st.SQLite))
	}
	if st.PG != nil {
		s.Sinks = append(s.Sinks, postgres.New(st.PG))
	}
	if st.CH != nil {
		s.Sinks = append(s.Sinks, clickhouse.New(st.CH))
	}

	if bc.Enabled {
		c, err := dialBus(ctx, bc)
		if err != nil {
			_ = st.Close(ctx)
			return nil, err
		}
		s.Bus = c
		s.Sinks = append(s.Sinks, bus.New(c, bc.Subject))
	}

	names := make([]string, len(s.Sinks))
	for i, sk := range s.Sinks {
		names[i] = sk.Name()
	}
	log.Info().Strs("sinks", names).Msg("sinks ready")
	return s, nil
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Checks returns a readiness check per open connection
func (s *Set) Checks() map[string]Pinger {
	out := map[string]Pinger{}
	if s == nil {
		return out
	}
	for name, p := range s.Store.Checks() {
		out[name] = p
	}
	if s.Bus != nil {
		out["nats"] = s.Bus
	}
	return out
}

// Close releases every connection
func (s *Set) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if s.Bus != nil {
		s.Bus.Close()
	}
	return s.Store.Close(ctx)
}
