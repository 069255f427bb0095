package store

import (
	"time"

	"attractor/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG     PGConfig
	CH     CHConfig
	SQLite SQLiteConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs
	ConnectRetries int           // default 8
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
}

// SQLiteConfig configures the embedded sqlite file; an empty Path disables it
type SQLiteConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// FromConfig reads PG_*, CH_* and SINK_SQLITE_PATH
func FromConfig(cfg config.Conf) Config {
	return Config{
		AppName: cfg.MayString("LOG_SERVICE", "attractor"),
		PG: PGConfig{
			Enabled:        cfg.MayBool("PG_ENABLED", false),
			URL:            cfg.MayString("PG_URL", ""),
			MaxConns:       int32(cfg.MayInt("PG_MAX_CONNS", 4)),
			LogSQL:         cfg.MayBool("PG_LOG_SQL", false),
			SlowQueryMs:    cfg.MayInt("PG_SLOW_MS", 500),
			ConnectRetries: cfg.MayInt("PG_CONNECT_RETRIES", 8),
			PingTimeout:    cfg.MayDuration("PG_PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled: cfg.MayBool("CH_ENABLED", false),
			URL:     cfg.MayString("CH_URL", ""),
		},
		SQLite: SQLiteConfig{
			Path:        cfg.MayString("SINK_SQLITE_PATH", ""),
			BusyTimeout: cfg.MayDuration("SINK_SQLITE_BUSY_TIMEOUT", 5*time.Second),
		},
	}
}
