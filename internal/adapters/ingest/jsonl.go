package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	perr "attractor/internal/platform/errors"
	"attractor/internal/services/analyze/domain"
)

const maxLineSize = 32 * 1024 * 1024

// ReadJSONL reads one JSON object per line; blank lines are skipped
func ReadJSONL(r io.Reader, source string) (domain.Batch, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 512*1024), maxLineSize)

	b := domain.Batch{Sources: []string{source}}
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		f, err := objectFields(raw)
		if err != nil {
			b.Rejections = append(b.Rejections, domain.Rejection{Source: source, Line: line, Reason: domain.ReasonBadJSON, Detail: err.Error()})
			continue
		}
		add(&b, f, source, line)
	}
	if err := sc.Err(); err != nil {
		return b, perr.Wrapf(err, perr.ErrorCodeIO, "%s: read line %d", source, line+1)
	}
	return b, nil
}

// objectFields flattens the top level of a JSON object into strings. Numbers keep
// their literal text so integral checks happen in one place
func objectFields(raw []byte) (fields, error) {
	var obj map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	f := make(fields, len(obj))
	for k, v := range obj {
		f[k] = scalar(v)
	}
	return f, nil
}

func scalar(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	if v[0] == '"' {
		var s string
		_ = json.Unmarshal(v, &s)
		return s
	}
	return string(v)
}
