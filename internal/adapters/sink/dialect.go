package sink

import (
	"fmt"
	"strings"
)

// DefaultPrefix namespaces every sink table
const DefaultPrefix = "attractor_"

// Dialect renders the shared tables for one backend
type Dialect struct {
	Name   string
	Prefix string
	types  [5]string
	// placeholder renders the n-th (1-based) bind parameter
	placeholder func(n int) string
	// engine is appended to CREATE TABLE (clickhouse)
	engine string
	// index adds a run_id index per table
	index bool
}

// Dialects
var (
	SQLite = Dialect{
		Name:        "sqlite",
		Prefix:      DefaultPrefix,
		types:       [5]string{Text: "TEXT", Int: "INTEGER", Float: "REAL", Bool: "INTEGER", Time: "TEXT"},
		placeholder: func(int) string { return "?" },
		index:       true,
	}
	Postgres = Dialect{
		Name:        "postgres",
		Prefix:      DefaultPrefix,
		types:       [5]string{Text: "TEXT", Int: "BIGINT", Float: "DOUBLE PRECISION", Bool: "BOOLEAN", Time: "TIMESTAMPTZ"},
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		index:       true,
	}
	ClickHouse = Dialect{
		Name:        "clickhouse",
		Prefix:      DefaultPrefix,
		types:       [5]string{Text: "String", Int: "Int64", Float: "Float64", Bool: "Bool", Time: "DateTime64(3, 'UTC')"},
		placeholder: func(int) string { return "?" },
		engine:      "ENGINE = MergeTree ORDER BY run_id",
	}
)

// DialectByName returns a dialect by its name
func DialectByName(name string) (Dialect, bool) {
	for _, d := range []Dialect{SQLite, Postgres, ClickHouse} {
		if d.Name == name {
			return d, true
		}
	}
	return Dialect{}, false
}

// TableName returns the prefixed table name
func (d Dialect) TableName(t Table) string { return d.Prefix + t.Name }

// Schema returns the idempotent DDL for every table
func (d Dialect) Schema() []string {
	var out []string
	for _, t := range Tables {
		out = append(out, d.CreateTable(t))
		if d.index {
			out = append(out, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_run_idx ON %s (run_id)", d.TableName(t), d.TableName(t)))
		}
	}
	return out
}

// CreateTable renders CREATE TABLE IF NOT EXISTS for t
func (d Dialect) CreateTable(t Table) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s (\n", d.TableName(t))
	for i, c := range t.Columns {
		if i > 0 {
			sb.WriteString(",\n")
		}
		fmt.Fprintf(&sb, "\t%s %s", c.Name, d.types[c.Kind])
		if c.Name == "run_id" && d.engine == "" {
			sb.WriteString(" NOT NULL")
		}
	}
	sb.WriteString("\n)")
	if d.engine != "" {
		sb.WriteString(" " + d.engine)
	}
	return sb.String()
}

// Delete renders the statement clearing one run from t
func (d Dialect) Delete(t Table) string {
	return fmt.Sprintf("DELETE FROM %s WHERE run_id = %s", d.TableName(t), d.placeholder(1))
}

// Insert renders a multi row INSERT for n rows of t and returns it with the flattened args
func (d Dialect) Insert(t Table, rows [][]any) (string, []any) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", d.TableName(t), strings.Join(t.ColumnNames(), ", "))

	width := len(t.Columns)
	args := make([]any, 0, len(rows)*width)
	for i, r := range rows {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		for j := range width {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(d.placeholder(i*width + j + 1))
		}
		sb.WriteByte(')')
		args = append(args, r...)
	}
	return sb.String(), args
}
