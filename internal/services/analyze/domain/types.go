// Package domain defines the records, scores and report of an analysis run
package domain

import (
	"time"

	"attractor/internal/core/basin"
	"attractor/internal/core/cooccur"
	"attractor/internal/core/coupling"
	"attractor/internal/core/temporal"
	"attractor/internal/core/version"
)

// Ungrouped labels records that carry no group
const Ungrouped = "ungrouped"

// Record is one model response. Immutable once loaded
type Record struct {
	ID              string    `json:"id,omitempty"`
	Text            string    `json:"text" validate:"required"`
	Timestamp       time.Time `json:"timestamp,omitzero"`
	Hour            *int      `json:"hour,omitempty" validate:"omitempty,min=0,max=23"`
	Group           string    `json:"group_label,omitempty"`
	ReasoningEffort *int      `json:"reasoning_effort,omitempty" validate:"omitempty,min=0"`
	Model           string    `json:"model_name,omitempty"`
}

// GroupOrDefault returns the group label or Ungrouped
func (r Record) GroupOrDefault() string {
	if r.Group == "" {
		return Ungrouped
	}
	return r.Group
}

// Rejection reasons
const (
	ReasonMissingText      = "missing_text"
	ReasonBadTimestamp     = "bad_timestamp"
	ReasonMissingTimestamp = "missing_timestamp"
	ReasonHourRange        = "hour_out_of_range"
	ReasonEffortRange      = "reasoning_effort_out_of_range"
	ReasonBadNumber        = "bad_number"
	ReasonBadJSON          = "bad_json"
	ReasonBadRow           = "bad_row"
	ReasonInvalid          = "invalid"
)

// ReasonForField maps a failing record field to its rejection reason
func ReasonForField(field string) string {
	switch field {
	case "text":
		return ReasonMissingText
	case "timestamp":
		return ReasonBadTimestamp
	case "hour":
		return ReasonHourRange
	case "reasoning_effort":
		return ReasonEffortRange
	}
	return ReasonInvalid
}

// RecordIn is the wire form of a record: the timestamp stays a string until ingest parses it
type RecordIn struct {
	ID              string `json:"id,omitempty"`
	Text            string `json:"text"`
	Timestamp       string `json:"timestamp,omitempty"`
	Hour            *int   `json:"hour,omitempty"`
	Group           string `json:"group_label,omitempty"`
	ReasoningEffort *int   `json:"reasoning_effort,omitempty"`
	Model           string `json:"model_name,omitempty"`
}

// AnalyzeRequest is a batch submitted over HTTP or the bus
type AnalyzeRequest struct {
	Records     []RecordIn `json:"records"`
	KeepRecords *bool      `json:"keep_records,omitempty"`
}

// Rejection is a skipped input record
type Rejection struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// Batch is the input of a run: accepted records plus ingestion rejections
type Batch struct {
	Records     []Record    `json:"records"`
	Rejections  []Rejection `json:"rejections,omitempty"`
	Sources     []string    `json:"sources,omitempty"`
	KeepRecords bool        `json:"-"`
}

// RecordScore is the per-record metric vector
type RecordScore struct {
	ID              string                    `json:"id,omitempty"`
	Group           string                    `json:"group_label"`
	Model           string                    `json:"model_name,omitempty"`
	Timestamp       time.Time                 `json:"timestamp,omitzero"`
	Hour            *int                      `json:"hour,omitempty"`
	ReasoningEffort *int                      `json:"reasoning_effort,omitempty"`
	TotalTokens     int                       `json:"total_tokens"`
	Categories      map[string]CategoryMetric `json:"categories"`
	NetScore        float64                   `json:"net_score"`
	Coupled         bool                      `json:"coupling"`
	Pairs           []coupling.PairResult     `json:"pairs"`
	Markers         map[string]bool           `json:"markers"`
	EscapeKind      string                    `json:"escape_kind,omitempty"`
	FirstWord       string                    `json:"first_word,omitempty"`
	Basin           basin.Label               `json:"basin_label"`
}

// CategoryMetric mirrors scorer.CategoryScore on the wire
type CategoryMetric struct {
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

// WordCount is a ranked word
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// GroupStat is one row of the per-group table; the overall row uses the same shape
type GroupStat struct {
	Group               string             `json:"group_label"`
	N                   int                `json:"n"`
	MeanDensity         map[string]float64 `json:"mean_density"`
	MeanNetScore        float64            `json:"mean_net_score"`
	CouplingRate        float64            `json:"coupling_rate"`
	PairRates           map[string]float64 `json:"pair_rates"`
	MarkerCounts        map[string]int     `json:"marker_counts"`
	MarkerRates         map[string]float64 `json:"marker_rates"`
	EscapeKinds         map[string]int     `json:"escape_kinds"`
	MeanReasoningEffort float64            `json:"mean_reasoning_effort"`
	MaxReasoningEffort  int                `json:"max_reasoning_effort"`
	TopFirstWords       []WordCount        `json:"top_first_words"`
	Basin               basin.Label        `json:"basin"`
}

// CategoryTotal is one row of the lexicon table
type CategoryTotal struct {
	Category  string      `json:"category"`
	Terms     int         `json:"terms"`
	Tokens    int         `json:"tokens"`
	Share     float64     `json:"share"`
	TopTokens []WordCount `json:"top_tokens"`
}

// Summary describes the run
type Summary struct {
	RunID        string            `json:"run_id"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Profile      string            `json:"profile"`
	CountingMode string            `json:"counting_mode"`
	Window       int               `json:"window"`
	Records      int               `json:"records"`
	TotalTokens  int               `json:"total_tokens"`
	Skipped      int               `json:"skipped"`
	SkipReasons  map[string]int    `json:"skip_reasons"`
	Rejections   []Rejection       `json:"rejections,omitempty"`
	Undated      int               `json:"undated"`
	Groups       []string          `json:"groups"`
	Sources      []string          `json:"sources,omitempty"`
	Empty        bool              `json:"empty"`
	Message      string            `json:"message,omitempty"`
	Build        version.BuildInfo `json:"build"`
}

// Report is the full output of a run
type Report struct {
	Summary  Summary             `json:"summary"`
	Records  []RecordScore       `json:"records,omitempty"`
	Groups   []GroupStat         `json:"groups"`
	Overall  GroupStat           `json:"overall"`
	Daily    []temporal.DayStat  `json:"daily"`
	Hourly   []temporal.HourStat `json:"hourly"`
	Graph    cooccur.Graph       `json:"graph"`
	TopPairs []cooccur.Edge      `json:"top_pairs"`
	Lexicon  []CategoryTotal     `json:"lexicon"`
}
