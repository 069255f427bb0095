package clickhouse

import (
	"context"
	"errors"
	"strings"
	"testing"

	"attractor/internal/adapters/sink"
	"attractor/internal/adapters/sink/sinktest"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/store"
)

type fakeCH struct {
	execs   []string
	inserts map[string]int
	fail    string
}

func (f *fakeCH) Exec(_ context.Context, q string, _ ...any) error {
	f.execs = append(f.execs, q)
	return nil
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	if table == f.fail {
		return errors.New("too many parts")
	}
	if f.inserts == nil {
		f.inserts = map[string]int{}
	}
	f.inserts[table] += len(rows)
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                              { return nil }

func TestWrite(t *testing.T) {
	f := &fakeCH{}
	s := New(f)
	rep := sinktest.Report(t)

	for range 2 {
		if err := s.Write(context.Background(), rep); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	// migrate runs once
	if len(f.execs) != len(sink.Tables) {
		t.Fatalf("execs = %d", len(f.execs))
	}
	if !strings.Contains(f.execs[0], "MergeTree") {
		t.Fatalf("ddl = %s", f.execs[0])
	}
	if f.inserts["attractor_hourly"] != 48 || f.inserts["attractor_runs"] != 2 {
		t.Fatalf("inserts = %v", f.inserts)
	}
}

func TestWrite_InsertFailure(t *testing.T) {
	s := New(&fakeCH{fail: "attractor_groups"})
	err := s.Write(context.Background(), sinktest.Report(t))
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("want db error, got %v", err)
	}
	if !strings.Contains(err.Error(), "insert groups") {
		t.Fatalf("err = %v", err)
	}
}
