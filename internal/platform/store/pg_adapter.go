package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"attractor/internal/platform/store/pg"
)

// pgQuerier is the pgx surface shared by the pool and a transaction
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgTrace emits query events to the tracer configured on pg.PG
type pgTrace struct {
	tracer pg.QueryTracer
	slowUS int64
}

func (t pgTrace) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      t.slowUS >= 0 && elapsedUS >= t.slowUS,
	})
}

// pgRunner runs statements on q and traces them
type pgRunner struct {
	q pgQuerier
	pgTrace
}

func (a pgRunner) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := a.q.Exec(ctx, sql, args...)
	a.emit(ctx, sql, args, start, err)
	return ct, err
}

func (a pgRunner) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.q.Query(ctx, sql, args...)
	a.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgRows{r: rs}, nil
}

func (a pgRunner) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := a.q.QueryRow(ctx, sql, args...)
	// emit after Scan so the scan error is traced
	return pgRow{r: r, after: func(scanErr error) { a.emit(ctx, sql, args, start, scanErr) }}
}

// pgAdapter wraps pg.PG and implements TxRunner
type pgAdapter struct {
	pgRunner
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	tr := pgTrace{tracer: p.Tracer, slowUS: int64(p.SlowMs) * 1000}
	return &pgAdapter{pgRunner: pgRunner{q: p.Pool, pgTrace: tr}, p: p}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil || a.p.Pool == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(pgRunner{q: tx, pgTrace: a.pgTrace}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type pgRow struct {
	r     pgx.Row
	after func(error)
}

func (x pgRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type pgRows struct{ r pgx.Rows }

func (x pgRows) Next() bool            { return x.r.Next() }
func (x pgRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x pgRows) Err() error            { return x.r.Err() }
func (x pgRows) Close()                { x.r.Close() }
func (x pgRows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}
