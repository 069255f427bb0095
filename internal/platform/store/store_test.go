package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"attractor/internal/platform/config"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/store/ch"
	"attractor/internal/platform/testkit"
)

func TestOpen_NothingEnabled(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.PG != nil || s.CH != nil || s.SQLite != nil {
		t.Fatalf("expected no backends, got %+v", s)
	}
	if n := len(s.Checks()); n != 0 {
		t.Fatalf("checks = %d", n)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("guard: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNilStore(t *testing.T) {
	var s *Store
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close nil: %v", err)
	}
	if s.Guard(context.Background()) == nil {
		t.Fatalf("guard nil store should fail")
	}
	if len(s.Checks()) != 0 {
		t.Fatalf("nil store has checks")
	}
}

func TestOpen_PGBadURL(t *testing.T) {
	_, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "postgres://%zz"}})
	if !perr.IsCode(err, perr.ErrorCodeConfiguration) {
		t.Fatalf("want configuration error, got %v", err)
	}
}

func TestOpen_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "report.db")

	s, err := Open(ctx, Config{SQLite: SQLiteConfig{Path: path}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })

	if _, ok := s.Checks()["sqlite"]; !ok {
		t.Fatalf("sqlite check missing: %v", s.Checks())
	}
	if err := s.Guard(ctx); err != nil {
		t.Fatalf("guard: %v", err)
	}

	if _, err := Exec(ctx, s.SQLite, `CREATE TABLE groups (run_id TEXT, grp TEXT, n INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	err = s.SQLite.Tx(ctx, func(q RowQuerier) error {
		for i, g := range []string{"t1", "t2", "t3"} {
			if _, err := q.Exec(ctx, `INSERT INTO groups VALUES (?, ?, ?)`, "r1", g, i+1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	// a failing tx leaves nothing behind
	boom := errors.New("boom")
	err = s.SQLite.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, `INSERT INTO groups VALUES ('r2', 'x', 9)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("tx err = %v", err)
	}

	n, err := Scalar[int64](ctx, s.SQLite, `SELECT count(*) FROM groups`)
	if err != nil || n != 3 {
		t.Fatalf("count = %d, %v", n, err)
	}

	tag, err := Exec(ctx, s.SQLite, `DELETE FROM groups WHERE grp = ?`, "t3")
	if err != nil || tag.RowsAffected() != 1 || tag.String() != "1" {
		t.Fatalf("delete tag = %v, %v", tag, err)
	}

	all, err := Maps(ctx, s.SQLite, `SELECT grp FROM groups ORDER BY grp`)
	if err != nil || len(all) != 2 || all[0]["grp"] != "t1" || all[1]["grp"] != "t2" {
		t.Fatalf("all = %v, %v", all, err)
	}

	rows, err := Maps(ctx, s.SQLite, `SELECT grp, n FROM groups WHERE run_id = ? ORDER BY grp`, "r1")
	if err != nil || len(rows) != 2 {
		t.Fatalf("maps = %v, %v", rows, err)
	}
	if rows[1]["grp"] != "t2" {
		t.Fatalf("row = %v", rows[1])
	}
}

func TestRetry(t *testing.T) {
	testkit.Swap(t, &backoffStart, time.Millisecond)
	testkit.Swap(t, &backoffCeiling, 2*time.Millisecond)

	calls := 0
	var seen []int
	err := retry(context.Background(), 3, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, func(i int, _ error) { seen = append(seen, i) })
	if err != nil || calls != 3 || len(seen) != 2 {
		t.Fatalf("err=%v calls=%d seen=%v", err, calls, seen)
	}

	err = retry(context.Background(), 2, func() error { return errors.New("down") }, nil)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	testkit.MustContain(t, err.Error(), "after 2 attempts")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = retry(ctx, 5, func() error { return errors.New("down") }, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want canceled, got %v", err)
	}
}

type fakeCH struct {
	pingErr error
	closed  bool
	inserts map[string]int
	execs   []string
}

func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Exec(_ context.Context, q string, _ ...any) error {
	f.execs = append(f.execs, q)
	return nil
}
func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	if f.inserts == nil {
		f.inserts = map[string]int{}
	}
	f.inserts[table] += len(rows)
	return nil
}
func (f *fakeCH) Query(context.Context, string, ...any) (ch.Rows, error) {
	return nil, errors.New("no query")
}
func (f *fakeCH) Close() error { f.closed = true; return nil }

func TestClickhouseAdapter(t *testing.T) {
	ctx := context.Background()
	f := &fakeCH{pingErr: errors.New("refused")}
	s := &Store{CH: newCHAdapter(f)}

	if err := s.CH.Exec(ctx, "SELECT 1"); err != nil || len(f.execs) != 1 {
		t.Fatalf("exec: %v %v", err, f.execs)
	}
	if err := s.CH.Insert(ctx, "attractor_groups", [][]any{{1}, {2}}); err != nil || f.inserts["attractor_groups"] != 2 {
		t.Fatalf("insert: %v %v", err, f.inserts)
	}
	if _, err := s.CH.Query(ctx, "SELECT 1"); err == nil {
		t.Fatalf("query error not surfaced")
	}

	err := s.Guard(ctx)
	testkit.MustContain(t, err.Error(), "ch: refused")

	if err := s.Close(ctx); err != nil || !f.closed {
		t.Fatalf("close: %v closed=%v", err, f.closed)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("PG_ENABLED", "true")
	t.Setenv("PG_URL", "postgres://u@h/db")
	t.Setenv("PG_MAX_CONNS", "9")
	t.Setenv("CH_ENABLED", "1")
	t.Setenv("CH_URL", "clickhouse://h:9000")
	t.Setenv("SINK_SQLITE_PATH", "/tmp/a.db")
	t.Setenv("LOG_SERVICE", "attractor-test")

	c := FromConfig(config.New())
	if !c.PG.Enabled || c.PG.URL != "postgres://u@h/db" || c.PG.MaxConns != 9 {
		t.Fatalf("pg = %+v", c.PG)
	}
	if !c.CH.Enabled || c.CH.URL != "clickhouse://h:9000" {
		t.Fatalf("ch = %+v", c.CH)
	}
	if c.SQLite.Path != "/tmp/a.db" || c.SQLite.BusyTimeout != 5*time.Second {
		t.Fatalf("sqlite = %+v", c.SQLite)
	}
	if c.AppName != "attractor-test" || c.PG.ConnectRetries != 8 {
		t.Fatalf("defaults = %+v", c)
	}
}
