// Package version reports build metadata stamped in with -ldflags.
package version

import "runtime"

// BuildInfo describes the running binary
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Info returns build information for the named binary (attractor-api, attractor-analyze, ...).
//
//	go build -ldflags "-X 'attractor/internal/core/version.version=v0.3.0'
//	  -X 'attractor/internal/core/version.commit=abcd' -X 'attractor/internal/core/version.date=2026-10-01'"
func Info(service string) BuildInfo {
	if service == "" {
		service = "attractor"
	}
	return BuildInfo{
		Service:   service,
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}
}

// String renders a one-line banner for --version flags
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ", " + b.GoVersion + ")"
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
