// Package sink holds the table layout shared by the report sinks and the row
// builders that flatten a report into it. Category, pair and marker metrics are
// dynamic per profile, so they land in one long metrics table
package sink

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"attractor/internal/core/temporal"
	"attractor/internal/services/analyze/domain"
)

// Kind is a portable column type
type Kind uint8

// Column kinds
const (
	Text Kind = iota
	Int
	Float
	Bool
	Time
)

// Column is one table column
type Column struct {
	Name string
	Kind Kind
}

// Table is a sink table; every table leads with run_id
type Table struct {
	Name    string
	Columns []Column
}

// Metric scopes
const (
	ScopeOverall = "overall"
	ScopeGroup   = "group"
	ScopeDaily   = "daily"
	ScopeHourly  = "hourly"
)

// Table names without prefix
const (
	TableRuns    = "runs"
	TableGroups  = "groups"
	TableDaily   = "daily"
	TableHourly  = "hourly"
	TableMetrics = "metrics"
	TableEdges   = "edges"
	TableLexicon = "lexicon"
)

// Tables lists every table in write order
var Tables = []Table{
	{TableRuns, []Column{
		{"run_id", Text}, {"generated_at", Time}, {"profile", Text}, {"counting_mode", Text},
		{"window_size", Int}, {"records", Int}, {"total_tokens", Int}, {"skipped", Int},
		{"undated", Int}, {"empty", Bool}, {"version", Text},
	}},
	{TableGroups, []Column{
		{"run_id", Text}, {"position", Int}, {"group_label", Text}, {"n", Int},
		{"mean_net_score", Float}, {"coupling_rate", Float}, {"mean_reasoning_effort", Float},
		{"max_reasoning_effort", Int}, {"top_first_word", Text}, {"basin", Text},
	}},
	{TableDaily, []Column{
		{"run_id", Text}, {"day", Int}, {"date", Text}, {"n", Int}, {"mean_net_score", Float},
		{"coupling_rate", Float}, {"rolling_coupling_rate", Float},
	}},
	{TableHourly, []Column{
		{"run_id", Text}, {"hour", Int}, {"n", Int}, {"mean_net_score", Float}, {"coupling_rate", Float},
	}},
	{TableMetrics, []Column{
		{"run_id", Text}, {"scope", Text}, {"bucket", Text}, {"metric", Text}, {"value", Float},
	}},
	{TableEdges, []Column{
		{"run_id", Text}, {"term_a", Text}, {"term_b", Text}, {"weight", Int},
	}},
	{TableLexicon, []Column{
		{"run_id", Text}, {"category", Text}, {"terms", Int}, {"tokens", Int}, {"share", Float},
		{"top_tokens", Text},
	}},
}

// Lookup returns the table by name
func Lookup(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// ColumnNames returns the column names in order
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Rows flattens rep into rows keyed by table name. Integers are int64 so the
// columnar driver accepts them as is
func Rows(rep *domain.Report) map[string][][]any {
	s := rep.Summary
	id := s.RunID
	out := map[string][][]any{
		TableRuns: {{
			id, s.GeneratedAt.UTC().Truncate(time.Millisecond), s.Profile, s.CountingMode,
			int64(s.Window), int64(s.Records), int64(s.TotalTokens), int64(s.Skipped),
			int64(s.Undated), s.Empty, s.Build.Version,
		}},
	}

	var metrics [][]any
	metric := func(scope, bucket, name string, v float64) {
		metrics = append(metrics, []any{id, scope, bucket, name, v})
	}
	groupMetrics := func(scope string, g domain.GroupStat) {
		for _, k := range sortedKeys(g.MeanDensity) {
			metric(scope, g.Group, "density."+k, g.MeanDensity[k])
		}
		for _, k := range sortedKeys(g.PairRates) {
			metric(scope, g.Group, "pair."+k, g.PairRates[k])
		}
		for _, k := range sortedKeys(g.MarkerRates) {
			metric(scope, g.Group, "marker."+k, g.MarkerRates[k])
		}
		for _, k := range sortedKeys(g.EscapeKinds) {
			metric(scope, g.Group, "escape."+k, float64(g.EscapeKinds[k]))
		}
	}
	statMetrics := func(scope, bucket string, st temporal.Stat) {
		for _, k := range sortedKeys(st.MeanDensity) {
			metric(scope, bucket, "density."+k, st.MeanDensity[k])
		}
		for _, k := range sortedKeys(st.MarkerRates) {
			metric(scope, bucket, "marker."+k, st.MarkerRates[k])
		}
		for _, k := range sortedKeys(st.MarkerCounts) {
			metric(scope, bucket, "marker_count."+k, float64(st.MarkerCounts[k]))
		}
	}

	groups := make([][]any, 0, len(rep.Groups))
	for i, g := range rep.Groups {
		groups = append(groups, groupRow(id, i, g))
		groupMetrics(ScopeGroup, g)
	}
	out[TableGroups] = groups
	groupMetrics(ScopeOverall, rep.Overall)

	daily := make([][]any, 0, len(rep.Daily))
	for _, d := range rep.Daily {
		daily = append(daily, []any{
			id, int64(d.Day), d.Date, int64(d.N), d.MeanNetScore, d.CouplingRate, d.RollingCouplingRate,
		})
		statMetrics(ScopeDaily, d.Date, d.Stat)
	}
	out[TableDaily] = daily

	hourly := make([][]any, 0, len(rep.Hourly))
	for _, h := range rep.Hourly {
		hourly = append(hourly, []any{id, int64(h.Hour), int64(h.N), h.MeanNetScore, h.CouplingRate})
		statMetrics(ScopeHourly, hourBucket(h.Hour), h.Stat)
	}
	out[TableHourly] = hourly
	out[TableMetrics] = metrics

	edges := make([][]any, 0, len(rep.Graph.Edges))
	for _, e := range rep.Graph.Edges {
		edges = append(edges, []any{id, e.A, e.B, int64(e.Weight)})
	}
	out[TableEdges] = edges

	lex := make([][]any, 0, len(rep.Lexicon))
	for _, c := range rep.Lexicon {
		lex = append(lex, []any{id, c.Category, int64(c.Terms), int64(c.Tokens), c.Share, joinWords(c.TopTokens)})
	}
	out[TableLexicon] = lex
	return out
}

func groupRow(id string, pos int, g domain.GroupStat) []any {
	first := ""
	if len(g.TopFirstWords) > 0 {
		first = g.TopFirstWords[0].Word
	}
	return []any{
		id, int64(pos), g.Group, int64(g.N), g.MeanNetScore, g.CouplingRate,
		g.MeanReasoningEffort, int64(g.MaxReasoningEffort), first, string(g.Basin),
	}
}

func hourBucket(h int) string { return fmt.Sprintf("%02d", h) }

// joinWords renders "word(count), ..." like the lexicon table
func joinWords(ws []domain.WordCount) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = w.Word + "(" + strconv.Itoa(w.Count) + ")"
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
