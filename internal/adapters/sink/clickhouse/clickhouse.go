// Package clickhouse is the columnar report sink
package clickhouse

import (
	"context"
	"sync"

	"attractor/internal/adapters/sink"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/store"
	"attractor/internal/services/analyze/domain"
)

// Sink appends report rows in one batch per table. Runs are append only; the
// run id is fresh per run so nothing is deleted
type Sink struct {
	ch store.Clickhouse
	d  sink.Dialect

	mu       sync.Mutex
	migrated bool
}

// New returns a sink over an open clickhouse seam
func New(ch store.Clickhouse) *Sink { return &Sink{ch: ch, d: sink.ClickHouse} }

// Name implements domain.SinkPort
func (s *Sink) Name() string { return s.d.Name }

// Migrate creates the MergeTree tables once per process
func (s *Sink) Migrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.migrated {
		return nil
	}
	for _, stmt := range s.d.Schema() {
		if err := s.ch.Exec(ctx, stmt); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "clickhouse: migrate")
		}
	}
	s.migrated = true
	return nil
}

// Write implements domain.SinkPort
func (s *Sink) Write(ctx context.Context, rep *domain.Report) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}
	rows := sink.Rows(rep)
	for _, t := range sink.Tables {
		if err := s.ch.Insert(ctx, s.d.TableName(t), rows[t.Name]); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "clickhouse: insert %s", t.Name)
		}
	}
	return nil
}
