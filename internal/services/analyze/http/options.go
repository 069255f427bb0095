package http

import (
	"time"

	"attractor/internal/platform/config"
)

// Options tunes the analyze routes
type Options struct {
	Timeout time.Duration // request deadline for the plain routes; 0 = none

	StreamOrigins   []string // allowed websocket origins; empty or "*" = any
	StreamReadLimit int64
	StreamIdle      time.Duration
}

// OptionsFromConfig reads API_TIMEOUT and the API_WS_* knobs. Websocket origins
// fall back to API_CORS_ORIGINS
func OptionsFromConfig(cfg config.Conf) Options {
	return Options{
		Timeout:         cfg.MayDuration("API_TIMEOUT", 60*time.Second),
		StreamOrigins:   cfg.MayCSV("API_WS_ORIGINS", cfg.MayCSV("API_CORS_ORIGINS", nil)),
		StreamReadLimit: int64(cfg.MayInt("API_WS_READ_LIMIT", 1<<20)),
		StreamIdle:      cfg.MayDuration("API_WS_IDLE", 5*time.Minute),
	}
}
