// Package sqlite opens the embedded sqlite file behind the sqlite report sink
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// pure go driver registered as "sqlite"
	_ "modernc.org/sqlite"

	perr "attractor/internal/platform/errors"
)

// Config configures the sqlite file
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// Open opens (creating if needed) the sqlite file at cfg.Path in WAL mode and pings it
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, perr.WithField(perr.Configf("sqlite: empty path"), "SINK_SQLITE_PATH")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeIO, "sqlite: create dir %s", dir)
		}
	}
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		cfg.Path, busy.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "sqlite: open")
	}
	// one writer; sqlite serializes writes anyway
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "sqlite: open %s", cfg.Path)
	}
	return db, nil
}
