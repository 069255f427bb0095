package store

import (
	"context"

	"attractor/internal/platform/store/ch"
)

// chConn is the slice of *ch.CH the adapter uses; tests fake it
type chConn interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, query string, args ...any) error
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, query string, args ...any) (ch.Rows, error)
	Close() error
}

// newCHAdapter wraps an open clickhouse client as the store seam
func newCHAdapter(c chConn) *clickhouseAdapter { return &clickhouseAdapter{inner: c} }

// clickhouseAdapter adapts the clickhouse client to Clickhouse and Pinger
type clickhouseAdapter struct {
	inner chConn
}

var (
	_ Clickhouse = (*clickhouseAdapter)(nil)
	_ Pinger     = (*clickhouseAdapter)(nil)
)

func (a *clickhouseAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	return a.inner.Exec(ctx, sql, args...)
}

func (a *clickhouseAdapter) Insert(ctx context.Context, table string, rows [][]any) error {
	return a.inner.Insert(ctx, table, rows)
}

func (a *clickhouseAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.inner.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r: r}, nil
}

func (a *clickhouseAdapter) Ping(ctx context.Context) error { return a.inner.Ping(ctx) }

func (a *clickhouseAdapter) Close() error { return a.inner.Close() }

// chRows drops the error from Close so driver rows satisfy Rows
type chRows struct{ r ch.Rows }

func (x chRows) Next() bool             { return x.r.Next() }
func (x chRows) Scan(dest ...any) error { return x.r.Scan(dest...) }
func (x chRows) Err() error             { return x.r.Err() }
func (x chRows) Close()                 { _ = x.r.Close() }
func (x chRows) Columns() []string      { return x.r.Columns() }
