// Package service implements the analyze service: it scores records against a
// compiled lexicon profile and reduces them into a report
package service

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"

	"attractor/internal/core/basin"
	"attractor/internal/core/lexicon"
	"attractor/internal/core/tokenize"
	"attractor/internal/services/analyze/domain"
)

// seams for deterministic tests
var (
	newRunID = uuid.NewString
	now      = time.Now
)

// Config for the analyze service
type Config struct {
	Workers          int
	RequireTimestamp bool
	KeepRecords      bool
	MaxRejections    int // rejections echoed in the summary; 0 = all
	Service          string
}

// Service implements domain.AnalyzerPort
type Service struct {
	lx  *lexicon.Compiled
	tok *tokenize.Tokenizer
	cfg Config
}

var _ domain.AnalyzerPort = (*Service)(nil)

// New constructs a new analyze service over a compiled profile
func New(lx *lexicon.Compiled, cfg Config) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.MaxRejections < 0 {
		cfg.MaxRejections = 0
	}
	return &Service{lx: lx, tok: tokenize.New(), cfg: cfg}
}

// WithProfile compiles p and returns a service sharing this one's config
func (s *Service) WithProfile(p *lexicon.Profile) (*Service, error) {
	lx, err := p.Compile()
	if err != nil {
		return nil, err
	}
	return New(lx, s.cfg), nil
}

// Profile returns a copy of the active profile
func (s *Service) Profile() *lexicon.Profile { return s.lx.Profile.Clone() }

// Config returns the service config
func (s *Service) Config() Config { return s.cfg }

// Classify applies the profile thresholds to in
func (s *Service) Classify(in basin.Input) basin.Label { return s.lx.Classifier.Classify(in) }

// Score validates and scores a single record
func (s *Service) Score(_ context.Context, r domain.Record) (domain.RecordScore, error) {
	if err := s.check(r); err != nil {
		return domain.RecordScore{}, err
	}
	return s.score(r).out, nil
}
