package httpkit

import (
	"net/http"
	"time"

	"attractor/internal/platform/config"
	"attractor/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Origins  []string
	MaxBody  int64
	SlowLog  time.Duration
	Timeouts time.Duration
}

// StackFromConfig reads API_CORS_ORIGINS, API_MAX_BODY_BYTES, API_SLOW_LOG and API_TIMEOUT
func StackFromConfig(cfg config.Conf) StackOptions {
	return StackOptions{
		Origins:  cfg.MayCSV("API_CORS_ORIGINS", nil),
		MaxBody:  int64(cfg.MayInt("API_MAX_BODY_BYTES", 16<<20)),
		SlowLog:  cfg.MayDuration("API_SLOW_LOG", time.Second),
		Timeouts: cfg.MayDuration("API_TIMEOUT", 60*time.Second),
	}
}

// CommonStack is the per-version middleware slice. Timeout is left to plain
// routes; the websocket stream registers outside it
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowLog}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.BodyLimit(o.MaxBody),
		middleware.StripSlashes(),
	}
}

// WithTimeout wraps routes registered inside fn with a request deadline
func WithTimeout(r Router, d time.Duration, fn func(Router)) {
	r.Group(func(g Router) {
		if d > 0 {
			g.Use(middleware.Timeout(d))
		}
		fn(g)
	})
}
