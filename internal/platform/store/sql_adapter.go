package store

import (
	"context"
	"database/sql"
	"strconv"
)

// sqlQuerier is the database/sql surface shared by *sql.DB and *sql.Tx
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqlRunner adapts database/sql to RowQuerier
type sqlRunner struct{ q sqlQuerier }

func (a sqlRunner) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	res, err := a.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	return sqlTag(n), nil
}

func (a sqlRunner) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rs, err := a.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{r: rs}, nil
}

func (a sqlRunner) QueryRow(ctx context.Context, query string, args ...any) Row {
	return a.q.QueryRowContext(ctx, query, args...)
}

// sqlAdapter wraps a *sql.DB (the sqlite backend) as a TxRunner
type sqlAdapter struct {
	sqlRunner
	db *sql.DB
}

func newSQLAdapter(db *sql.DB) *sqlAdapter { return &sqlAdapter{sqlRunner: sqlRunner{q: db}, db: db} }

func (a *sqlAdapter) Ping(ctx context.Context) error { return a.db.PingContext(ctx) }

func (a *sqlAdapter) Close() error { return a.db.Close() }

func (a *sqlAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqlRunner{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// sqlTag renders like a pg tag ("n") so callers can log either backend alike
type sqlTag int64

func (t sqlTag) String() string      { return strconv.FormatInt(int64(t), 10) }
func (t sqlTag) RowsAffected() int64 { return int64(t) }

type sqlRows struct{ r *sql.Rows }

func (x sqlRows) Next() bool            { return x.r.Next() }
func (x sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x sqlRows) Err() error            { return x.r.Err() }
func (x sqlRows) Close()                { _ = x.r.Close() }
func (x sqlRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}
