// Package sinktest builds a small real report for sink tests
package sinktest

import (
	"context"
	"testing"
	"time"

	"attractor/internal/core/lexicon"
	"attractor/internal/services/analyze/domain"
	"attractor/internal/services/analyze/service"
)

// Texts are the fixture responses, two groups over two days
var Texts = []struct {
	Text  string
	Group string
	Day   int
}{
	{"the forgotten whisper drifts through the void and the silence", "t1", 0},
	{"I cannot do that; the system architecture needs a careful analysis", "t1", 0},
	{"a spiral of forgotten whisper echoes in the empty cosmos", "t2", 1},
	{"let me analyze the data and compute the result", "t2", 1},
}

// Report analyzes Texts with the default profile
func Report(t testing.TB) *domain.Report {
	t.Helper()
	lx, err := lexicon.MustDefault().Compile()
	if err != nil {
		t.Fatalf("compile default profile: %v", err)
	}
	base := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	b := domain.Batch{Sources: []string{"fixture"}, KeepRecords: true}
	for i, x := range Texts {
		b.Records = append(b.Records, domain.Record{
			ID:        "fixture:" + string(rune('a'+i)),
			Text:      x.Text,
			Timestamp: base.AddDate(0, 0, x.Day).Add(time.Duration(i) * time.Hour),
			Group:     x.Group,
		})
	}
	b.Rejections = []domain.Rejection{{Source: "fixture", Line: 9, Reason: domain.ReasonMissingText}}

	rep, err := service.New(lx, service.Config{Workers: 2}).Analyze(context.Background(), b)
	if err != nil {
		t.Fatalf("analyze fixture: %v", err)
	}
	return rep
}
