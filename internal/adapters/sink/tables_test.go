package sink_test

import (
	"strings"
	"testing"

	"attractor/internal/adapters/sink"
	"attractor/internal/adapters/sink/sinktest"
)

func TestRows_Shape(t *testing.T) {
	rep := sinktest.Report(t)
	rows := sink.Rows(rep)

	for _, tb := range sink.Tables {
		rs, ok := rows[tb.Name]
		if !ok {
			t.Fatalf("no rows for %s", tb.Name)
		}
		for i, r := range rs {
			if len(r) != len(tb.Columns) {
				t.Fatalf("%s row %d has %d values, want %d", tb.Name, i, len(r), len(tb.Columns))
			}
			if r[0] != rep.Summary.RunID {
				t.Fatalf("%s row %d run_id = %v", tb.Name, i, r[0])
			}
		}
	}

	if n := len(rows[sink.TableRuns]); n != 1 {
		t.Fatalf("runs = %d", n)
	}
	if n := len(rows[sink.TableGroups]); n != 2 {
		t.Fatalf("groups = %d", n)
	}
	if n := len(rows[sink.TableHourly]); n != 24 {
		t.Fatalf("hourly = %d", n)
	}
	if n := len(rows[sink.TableDaily]); n != 2 {
		t.Fatalf("daily = %d", n)
	}
	if rows[sink.TableRuns][0][5] != int64(4) {
		t.Fatalf("records = %#v", rows[sink.TableRuns][0][5])
	}

	var overallVoid bool
	for _, m := range rows[sink.TableMetrics] {
		if m[1] == sink.ScopeOverall && m[3] == "density.void" {
			overallVoid = true
		}
	}
	if !overallVoid {
		t.Fatalf("overall void density metric missing")
	}
}

func TestDialect_Insert(t *testing.T) {
	tb, _ := sink.Lookup(sink.TableEdges)

	q, args := sink.Postgres.Insert(tb, [][]any{{"r", "a", "b", int64(2)}, {"r", "a", "c", int64(1)}})
	want := "INSERT INTO attractor_edges (run_id, term_a, term_b, weight) VALUES ($1,$2,$3,$4),($5,$6,$7,$8)"
	if q != want {
		t.Fatalf("pg insert:\n got %s\nwant %s", q, want)
	}
	if len(args) != 8 {
		t.Fatalf("args = %d", len(args))
	}

	q, _ = sink.SQLite.Insert(tb, [][]any{{"r", "a", "b", int64(2)}})
	if !strings.HasSuffix(q, "VALUES (?,?,?,?)") {
		t.Fatalf("sqlite insert: %s", q)
	}
	if d := sink.SQLite.Delete(tb); d != "DELETE FROM attractor_edges WHERE run_id = ?" {
		t.Fatalf("delete: %s", d)
	}
}

func TestDialect_Schema(t *testing.T) {
	pg := sink.Postgres.Schema()
	if len(pg) != 2*len(sink.Tables) {
		t.Fatalf("pg statements = %d", len(pg))
	}
	testMust(t, pg[0], "CREATE TABLE IF NOT EXISTS attractor_runs", "generated_at TIMESTAMPTZ", "run_id TEXT NOT NULL")

	ch := sink.ClickHouse.Schema()
	if len(ch) != len(sink.Tables) {
		t.Fatalf("ch statements = %d", len(ch))
	}
	testMust(t, ch[0], "ENGINE = MergeTree ORDER BY run_id", "empty Bool")

	if _, ok := sink.DialectByName("clickhouse"); !ok {
		t.Fatalf("clickhouse dialect missing")
	}
	if _, ok := sink.DialectByName("mysql"); ok {
		t.Fatalf("unexpected dialect")
	}
}

func testMust(t *testing.T, s string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(s, p) {
			t.Fatalf("%q missing in:\n%s", p, s)
		}
	}
}
