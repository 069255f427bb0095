package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/validate"
	"attractor/internal/services/analyze/domain"
)

// Column and key aliases, first match wins
var aliases = map[string][]string{
	"id":               {"id", "record_id"},
	"text":             {"text", "response"},
	"timestamp":        {"timestamp", "timestamp_utc"},
	"hour":             {"hour"},
	"group_label":      {"group_label", "group", "frame", "frame_name", "tier"},
	"reasoning_effort": {"reasoning_effort", "reasoning_tokens"},
	"model_name":       {"model_name", "model"},
}

// Convert turns a wire record into a domain record. Failures are malformed-record
// errors whose op is the rejection reason
func Convert(in domain.RecordIn) (domain.Record, error) {
	ts, err := ParseTimestamp(in.Timestamp)
	if err != nil {
		return domain.Record{}, reject(domain.ReasonBadTimestamp, err)
	}
	r := domain.Record{
		ID:              in.ID,
		Text:            in.Text,
		Timestamp:       ts,
		Hour:            in.Hour,
		Group:           strings.TrimSpace(in.Group),
		ReasoningEffort: in.ReasoningEffort,
		Model:           strings.TrimSpace(in.Model),
	}
	if err := validate.Struct(r); err != nil {
		return domain.Record{}, reject(domain.ReasonForField(perr.WireFrom(err).Field), err)
	}
	return r, nil
}

// ConvertAll converts a request batch; failures become rejections with Source
// set to source and Line to the 1-based position
func ConvertAll(in []domain.RecordIn, source string) domain.Batch {
	b := domain.Batch{Records: make([]domain.Record, 0, len(in))}
	for i, ri := range in {
		r, err := Convert(ri)
		if err != nil {
			b.Rejections = append(b.Rejections, Rejection(source, i+1, err))
			continue
		}
		b.Records = append(b.Records, r)
	}
	return b
}

// FromRequest converts a submitted batch; source names both the rejections and the batch
func FromRequest(req domain.AnalyzeRequest, source string) domain.Batch {
	b := ConvertAll(req.Records, source)
	b.Sources = []string{source}
	if req.KeepRecords != nil {
		b.KeepRecords = *req.KeepRecords
	}
	return b
}

// Rejection builds a rejection row from a Convert error
func Rejection(source string, line int, err error) domain.Rejection {
	rej := domain.Rejection{Source: source, Line: line, Reason: domain.ReasonInvalid, Detail: err.Error()}
	if e, ok := perr.As(err); ok {
		if e.Op() != "" {
			rej.Reason = e.Op()
		}
		rej.Detail = e.Message()
	}
	return rej
}

func reject(reason string, cause error) error {
	w := perr.WireFrom(cause)
	return perr.WithField(perr.WithOp(perr.New(perr.ErrorCodeMalformedRecord, w.Message), reason), w.Field)
}

// fields is a flat key/value view of one input row (CSV row or JSONL object)
type fields map[string]string

func (f fields) get(name string) string {
	for _, k := range aliases[name] {
		if v, ok := f[k]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// text returns the first non-blank text alias, else the value of any text
// column that is present, so whitespace-only text stays a record
func (f fields) text() string {
	if v := f.get("text"); v != "" {
		return v
	}
	for _, k := range aliases["text"] {
		if v, ok := f[k]; ok {
			return v
		}
	}
	return ""
}

// recordIn maps a row onto the wire record, parsing the numeric columns
func (f fields) recordIn() (domain.RecordIn, error) {
	in := domain.RecordIn{
		ID:        strings.TrimSpace(f.get("id")),
		Text:      f.text(),
		Timestamp: f.get("timestamp"),
		Group:     f.get("group_label"),
		Model:     f.get("model_name"),
	}
	var err error
	if in.Hour, err = optInt(f.get("hour"), "hour"); err != nil {
		return in, err
	}
	if in.ReasoningEffort, err = optInt(f.get("reasoning_effort"), "reasoning_effort"); err != nil {
		return in, err
	}
	return in, nil
}

// optInt accepts integers and integral floats ("13", "13.0"); blank is nil
func optInt(s, field string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return nil, nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return nil, perr.WithOp(perr.WithField(perr.Malformedf("%s: not an integer: %q", field, s), field), domain.ReasonBadNumber)
	}
	v := int(f)
	return &v, nil
}

func recordID(source string, line int) string { return fmt.Sprintf("%s:%d", source, line) }
