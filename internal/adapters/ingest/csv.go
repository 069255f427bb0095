package ingest

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	perr "attractor/internal/platform/errors"
	"attractor/internal/services/analyze/domain"
)

// ReadCSV reads a headered CSV. Line numbers count the header as line 1
func ReadCSV(r io.Reader, source string) (domain.Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Batch{Sources: []string{source}}, nil
	}
	if err != nil {
		return domain.Batch{}, perr.Wrapf(err, perr.ErrorCodeIO, "%s: read header", source)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	if !hasAny(cols, aliases["text"]) {
		return domain.Batch{}, perr.WithField(perr.Configf("%s: no text column (want one of %v)", source, aliases["text"]), "text")
	}

	b := domain.Batch{Sources: []string{source}}
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				b.Rejections = append(b.Rejections, domain.Rejection{Source: source, Line: line, Reason: domain.ReasonBadRow, Detail: pe.Err.Error()})
				continue
			}
			return b, perr.Wrapf(err, perr.ErrorCodeIO, "%s: read row %d", source, line)
		}
		f := make(fields, len(cols))
		for i, c := range cols {
			if i < len(row) {
				f[c] = row[i]
			}
		}
		add(&b, f, source, line)
	}
	return b, nil
}

func hasAny(cols, want []string) bool {
	for _, c := range cols {
		for _, w := range want {
			if c == w {
				return true
			}
		}
	}
	return false
}
