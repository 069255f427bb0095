package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	perr "attractor/internal/platform/errors"
	"attractor/internal/services/analyze/domain"
)

// IndexFile maps completion bodies to groups inside a completion directory
const IndexFile = "index.csv"

// completion is the subset of a chat-completion response body we read
type completion struct {
	Model   string `json:"model"`
	Created int64  `json:"created"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
	Usage struct {
		Details struct {
			ReasoningTokens *int `json:"reasoning_tokens"`
		} `json:"completion_tokens_details"`
	} `json:"usage"`
}

func (c completion) recordIn() domain.RecordIn {
	in := domain.RecordIn{Model: c.Model, ReasoningEffort: c.Usage.Details.ReasoningTokens}
	if len(c.Choices) > 0 {
		in.Text = c.Choices[0].Message.Content
		if in.Text == "" {
			in.Text = c.Choices[0].Text
		}
	}
	if c.Created > 0 {
		in.Timestamp = time.Unix(c.Created, 0).UTC().Format(time.RFC3339)
	}
	return in
}

// ReadCompletionFile reads one response body. A body that is not JSON is a
// rejection, not an error
func ReadCompletionFile(path, group string) (domain.Batch, error) {
	b := domain.Batch{Sources: []string{path}}
	raw, err := os.ReadFile(path)
	if err != nil {
		return b, perr.Wrapf(err, perr.ErrorCodeIO, "read %s", path)
	}
	var c completion
	if err := json.Unmarshal(raw, &c); err != nil {
		b.Rejections = append(b.Rejections, domain.Rejection{Source: path, Line: 1, Reason: domain.ReasonBadJSON, Detail: err.Error()})
		return b, nil
	}
	in := c.recordIn()
	in.ID = filepath.Base(path)
	in.Group = group
	r, err := Convert(in)
	if err != nil {
		b.Rejections = append(b.Rejections, Rejection(path, 1, err))
		return b, nil
	}
	b.Records = append(b.Records, r)
	return b, nil
}

// ReadCompletionDir reads every body listed in dir/index.csv (body_file plus a
// group column), or every *.json in dir grouped by the directory name
func ReadCompletionDir(dir string) (domain.Batch, error) {
	idx := filepath.Join(dir, IndexFile)
	f, err := os.Open(idx)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return readCompletionGlob(dir)
	case err != nil:
		return domain.Batch{}, perr.Wrapf(err, perr.ErrorCodeIO, "open %s", idx)
	}
	defer func() { _ = f.Close() }()
	return readIndex(f, dir)
}

func readCompletionGlob(dir string) (domain.Batch, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return domain.Batch{}, perr.Wrapf(err, perr.ErrorCodeIO, "list %s", dir)
	}
	sort.Strings(paths)
	group := filepath.Base(filepath.Clean(dir))
	var out domain.Batch
	for _, p := range paths {
		b, err := ReadCompletionFile(p, group)
		if err != nil {
			return out, err
		}
		merge(&out, b)
	}
	return out, nil
}

func readIndex(r io.Reader, dir string) (domain.Batch, error) {
	src := filepath.Join(dir, IndexFile)
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return domain.Batch{}, perr.Wrapf(err, perr.ErrorCodeIO, "%s: read header", src)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	bodyCol, ok := col["body_file"]
	if !ok {
		return domain.Batch{}, perr.WithField(perr.Configf("%s: missing body_file column", src), "body_file")
	}

	out := domain.Batch{Sources: []string{src}}
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			out.Rejections = append(out.Rejections, domain.Rejection{Source: src, Line: line, Reason: domain.ReasonBadRow, Detail: err.Error()})
			continue
		}
		f := fields{}
		for name, i := range col {
			if i < len(row) {
				f[name] = row[i]
			}
		}
		name := ""
		if bodyCol < len(row) {
			name = strings.TrimSpace(row[bodyCol])
		}
		path := resolveBody(dir, name)
		if path == "" {
			out.Rejections = append(out.Rejections, domain.Rejection{Source: src, Line: line, Reason: domain.ReasonBadRow, Detail: "body file not found"})
			continue
		}
		b, err := ReadCompletionFile(path, f.get("group_label"))
		if err != nil {
			return out, err
		}
		out.Records = append(out.Records, b.Records...)
		out.Rejections = append(out.Rejections, b.Rejections...)
	}
	return out, nil
}

// resolveBody finds a body file named in an index: as given, relative to the
// index directory, then by base name inside it
func resolveBody(dir, name string) string {
	if name == "" {
		return ""
	}
	candidates := []string{name, filepath.Join(dir, name), filepath.Join(dir, filepath.Base(name))}
	if filepath.IsAbs(name) {
		candidates = candidates[:1]
	}
	for _, c := range candidates {
		if st, err := os.Stat(c); err == nil && !st.IsDir() {
			return c
		}
	}
	return ""
}
