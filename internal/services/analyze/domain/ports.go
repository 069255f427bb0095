package domain

import (
	"context"

	"attractor/internal/core/basin"
	"attractor/internal/core/lexicon"
)

// AnalyzerPort runs analyses and scores single texts
type AnalyzerPort interface {
	Analyze(ctx context.Context, b Batch) (*Report, error)
	Score(ctx context.Context, r Record) (RecordScore, error)
	Classify(in basin.Input) basin.Label
	Profile() *lexicon.Profile
}

// SinkPort persists or publishes a finished report
type SinkPort interface {
	Name() string
	Write(ctx context.Context, rep *Report) error
}

// SourcePort loads a batch of records
type SourcePort interface {
	Load(ctx context.Context) (Batch, error)
}
