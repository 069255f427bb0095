package ingest

import (
	"strings"
	"time"

	perr "attractor/internal/platform/errors"
)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

const compactLayout = "20060102T150405"

// ParseTimestamp accepts RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05",
// "2006-01-02" and the compact "20060102T150405" form, where anything after the
// first 15 characters (a Z, fractional seconds) is ignored. Zone-less values are UTC
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	if len(s) >= len(compactLayout) {
		if t, err := time.Parse(compactLayout, s[:len(compactLayout)]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, perr.WithField(perr.Malformedf("unrecognized timestamp %q", s), "timestamp")
}
