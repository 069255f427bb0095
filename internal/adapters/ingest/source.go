// Package ingest loads model responses from CSV, JSONL and chat-completion
// bodies into analyze batches. Bad rows become rejections; only I/O failures
// and unusable headers are errors
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/logger"
	"attractor/internal/services/analyze/domain"
)

// Format names an input format
type Format string

// Formats
const (
	FormatAuto       Format = "auto"
	FormatCSV        Format = "csv"
	FormatJSONL      Format = "jsonl"
	FormatCompletion Format = "completion"
)

// ParseFormat accepts the format names; empty is auto
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatCSV, FormatJSONL, FormatCompletion:
		return f, nil
	}
	return "", perr.WithField(perr.Configf("unknown input format %q", s), "format")
}

// Detect picks a format from the path: directories and .json files are
// completion bodies, .jsonl/.ndjson are JSONL, everything else is CSV
func Detect(path string) Format {
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return FormatCompletion
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".json":
		return FormatCompletion
	}
	return FormatCSV
}

// Source loads every path with one format (or auto-detected per path)
type Source struct {
	Paths  []string
	Format Format
}

var _ domain.SourcePort = (*Source)(nil)

// Load reads all paths in order and concatenates their batches
func (s *Source) Load(ctx context.Context) (domain.Batch, error) {
	log := logger.C(ctx).With().Str("component", "ingest").Logger()
	if len(s.Paths) == 0 {
		return domain.Batch{}, perr.WithField(perr.Configf("no input paths"), "in")
	}
	var out domain.Batch
	for _, p := range s.Paths {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		f := s.Format
		if f == "" || f == FormatAuto {
			f = Detect(p)
		}
		b, err := ReadPath(p, f)
		if err != nil {
			return out, err
		}
		log.Info().Str("path", p).Str("format", string(f)).
			Int("records", len(b.Records)).Int("rejected", len(b.Rejections)).Msg("input loaded")
		merge(&out, b)
	}
	return out, nil
}

// ReadPath reads a single path in format f
func ReadPath(path string, f Format) (domain.Batch, error) {
	if f == FormatCompletion {
		st, err := os.Stat(path)
		if err != nil {
			return domain.Batch{}, perr.Wrapf(err, perr.ErrorCodeIO, "stat %s", path)
		}
		if st.IsDir() {
			return ReadCompletionDir(path)
		}
		return ReadCompletionFile(path, filepath.Base(filepath.Dir(path)))
	}

	fh, err := os.Open(path)
	if err != nil {
		return domain.Batch{}, perr.Wrapf(err, perr.ErrorCodeIO, "open %s", path)
	}
	defer func() { _ = fh.Close() }()
	if f == FormatJSONL {
		return ReadJSONL(fh, path)
	}
	return ReadCSV(fh, path)
}
