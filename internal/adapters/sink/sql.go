package sink

import (
	"context"
	"sync"

	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/logger"
	"attractor/internal/platform/store"
	"attractor/internal/services/analyze/domain"
)

// chunk bounds rows per INSERT so bind parameters stay under sqlite's limit
const chunk = 400

// SQLOption tunes a SQL sink
type SQLOption func(*SQL)

// WithErrorMapper maps backend errors before they leave Write
func WithErrorMapper(fn func(err error, msg string) error) SQLOption {
	return func(s *SQL) { s.mapErr = fn }
}

// WithRetry retries the whole transaction up to attempts times while retryable reports true
func WithRetry(attempts int, retryable func(error) bool) SQLOption {
	return func(s *SQL) {
		s.attempts = max(attempts, 1)
		s.retryable = retryable
	}
}

// SQL writes reports to a relational backend through a store.TxRunner. A run is
// replaced atomically: its rows are deleted and reinserted in one transaction
type SQL struct {
	db        store.TxRunner
	d         Dialect
	mapErr    func(error, string) error
	attempts  int
	retryable func(error) bool

	mu       sync.Mutex
	migrated bool
}

// NewSQL returns a SQL sink for db in dialect d
func NewSQL(db store.TxRunner, d Dialect, opts ...SQLOption) *SQL {
	s := &SQL{
		db:       db,
		d:        d,
		attempts: 1,
		mapErr: func(err error, msg string) error {
			return perr.Wrap(err, perr.ErrorCodeDB, msg)
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Name implements domain.SinkPort
func (s *SQL) Name() string { return s.d.Name }

// Migrate creates the tables once per process
func (s *SQL) Migrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.migrated {
		return nil
	}
	for _, stmt := range s.d.Schema() {
		if _, err := store.Exec(ctx, s.db, stmt); err != nil {
			return s.mapErr(err, s.d.Name+": migrate")
		}
	}
	s.migrated = true
	return nil
}

// Write implements domain.SinkPort
func (s *SQL) Write(ctx context.Context, rep *domain.Report) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}
	rows := Rows(rep)
	log := logger.C(ctx)

	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err = s.db.Tx(ctx, func(q store.RowQuerier) error { return s.replace(ctx, q, rep.Summary.RunID, rows) })
		if err == nil || s.retryable == nil || !s.retryable(err) {
			break
		}
		log.Warn().Err(err).Str("sink", s.d.Name).Int("attempt", attempt).Msg("retryable write failure")
	}
	if err != nil {
		return s.mapErr(err, s.d.Name+": write report")
	}
	return nil
}

func (s *SQL) replace(ctx context.Context, q store.RowQuerier, runID string, rows map[string][][]any) error {
	for _, t := range Tables {
		if _, err := q.Exec(ctx, s.d.Delete(t), runID); err != nil {
			return err
		}
		rs := rows[t.Name]
		for len(rs) > 0 {
			n := min(len(rs), chunk)
			stmt, args := s.d.Insert(t, rs[:n])
			if _, err := q.Exec(ctx, stmt, args...); err != nil {
				return err
			}
			rs = rs[n:]
		}
	}
	return nil
}
