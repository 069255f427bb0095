// Package sqlite is the embedded-file report sink
package sqlite

import (
	"attractor/internal/adapters/sink"
	"attractor/internal/platform/store"
)

// New returns a sink over an open sqlite runner. SQLite has no SQLSTATEs, so
// failures surface as DB errors and are not retried
func New(db store.TxRunner) *sink.SQL { return sink.NewSQL(db, sink.SQLite) }
