// Package postgres is the Postgres report sink
package postgres

import (
	"attractor/internal/adapters/sink"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/store"
)

// Attempts is how often a serialization or deadlock failure is retried
const Attempts = 3

// New returns a sink over an open pg runner. SQLSTATEs map onto perr codes and
// transient failures retry the transaction
func New(db store.TxRunner) *sink.SQL {
	return sink.NewSQL(db, sink.Postgres,
		sink.WithErrorMapper(perr.FromPostgres),
		sink.WithRetry(Attempts, perr.IsRetryable),
	)
}
