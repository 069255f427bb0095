package store

import (
	"context"
	"time"

	perr "attractor/internal/platform/errors"
	chx "attractor/internal/platform/store/ch"
	"attractor/internal/platform/store/pg"
	"attractor/internal/platform/store/sqlite"
)

// ping backoff; tests shrink these
var (
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

// openPG opens pg and wraps it with our sql adapter once a ping succeeds
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 1
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}

	err = retry(ctx, attempts, func() error {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		// ping the pool directly so boot does not emit trace lines
		return p.Pool.Ping(toCtx)
	}, func(i int, err error) {
		s.Log.Warn().Err(err).Int("attempt", i).Int("of", attempts).Msg("postgres not ready")
	})
	if err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openSQLite(ctx context.Context, cfg Config, _ *Store) (TxRunner, error) {
	db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.SQLite.Path, BusyTimeout: cfg.SQLite.BusyTimeout})
	if err != nil {
		return nil, err
	}
	return newSQLAdapter(db), nil
}

// retry runs fn up to attempts times with capped exponential backoff. A
// cancelled ctx stops it early with ctx.Err()
func retry(ctx context.Context, attempts int, fn func() error, onFail func(int, error)) error {
	backoff := backoffStart
	var last error
	for i := 1; i <= attempts; i++ {
		if last = fn(); last == nil {
			return nil
		}
		if onFail != nil {
			onFail(i, last)
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}
	return perr.Wrapf(last, perr.ErrorCodeUnavailable, "ping failed after %d attempts", attempts)
}
