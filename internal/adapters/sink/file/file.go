// Package file writes a report as report.json plus one CSV per sink table
package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"attractor/internal/adapters/sink"
	perr "attractor/internal/platform/errors"
	"attractor/internal/services/analyze/domain"
)

// ReportFile is the JSON document name inside the output dir
const ReportFile = "report.json"

// Sink writes into Dir, replacing files from an earlier run
type Sink struct {
	Dir string
	// Precision is the decimal places for floats in CSV; <0 means shortest exact
	Precision int
}

// New returns a file sink writing into dir
func New(dir string) *Sink { return &Sink{Dir: dir, Precision: 6} }

// Name implements domain.SinkPort
func (s *Sink) Name() string { return "file" }

// Write implements domain.SinkPort
func (s *Sink) Write(ctx context.Context, rep *domain.Report) error {
	if s.Dir == "" {
		return perr.WithField(perr.Configf("file sink: empty output dir"), "out")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "file sink: create %s", s.Dir)
	}

	doc, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "file sink: encode report")
	}
	if err := writeAtomic(filepath.Join(s.Dir, ReportFile), append(doc, '\n')); err != nil {
		return err
	}

	rows := sink.Rows(rep)
	for _, t := range sink.Tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := s.encodeCSV(t, rows[t.Name])
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeIO, "file sink: encode %s", t.Name)
		}
		if err := writeAtomic(filepath.Join(s.Dir, t.Name+".csv"), b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) encodeCSV(t sink.Table, rows [][]any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.ColumnNames()); err != nil {
		return nil, err
	}
	rec := make([]string, len(t.Columns))
	for _, r := range rows {
		for i, v := range r {
			rec[i] = s.format(v)
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (s *Sink) format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', s.Precision, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case nil:
		return ""
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// writeAtomic writes to a temp sibling then renames it over path
func writeAtomic(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp_"+filepath.Base(path)+"_*")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "file sink: temp for %s", path)
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return perr.Wrapf(err, perr.ErrorCodeIO, "file sink: write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "file sink: close %s", path)
	}
	if err := os.Rename(name, path); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "file sink: rename %s", path)
	}
	return nil
}
