package service

import (
	"context"

	"attractor/internal/core/basin"
	"attractor/internal/core/temporal"
	"attractor/internal/core/version"
	"attractor/internal/platform/logger"
	"attractor/internal/services/analyze/domain"
)

// NoData is the summary message of an empty run
const NoData = "no data"

// Analyze validates, scores and reduces a batch. Invalid records are skipped and
// reported; an empty corpus yields a zeroed report, not an error
func (s *Service) Analyze(ctx context.Context, b domain.Batch) (*domain.Report, error) {
	runID := newRunID()
	ctx = logger.WithRun(ctx, runID)
	log := logger.C(ctx)

	rejections := append([]domain.Rejection(nil), b.Rejections...)
	accepted := make([]domain.Record, 0, len(b.Records))
	for i, r := range b.Records {
		if err := s.check(r); err != nil {
			rejections = append(rejections, rejectionOf(r, i, err))
			continue
		}
		accepted = append(accepted, r)
	}

	all, err := s.scoreAll(ctx, accepted)
	if err != nil {
		log.Warn().Err(err).Int("records", len(accepted)).Msg("analysis cancelled")
		return nil, err
	}

	p := s.lx.Profile
	rep := &domain.Report{
		Summary: domain.Summary{
			RunID:        runID,
			GeneratedAt:  now().UTC(),
			Profile:      p.Name,
			CountingMode: s.lx.Mode.String(),
			Window:       s.lx.Temporal.Window(),
			Records:      len(all),
			Skipped:      len(rejections),
			SkipReasons:  map[string]int{},
			Sources:      b.Sources,
			Build:        version.Info(s.cfg.Service),
		},
	}
	for _, rej := range rejections {
		rep.Summary.SkipReasons[rej.Reason]++
	}
	rep.Summary.Rejections = rejections
	if s.cfg.MaxRejections > 0 && len(rejections) > s.cfg.MaxRejections {
		rep.Summary.Rejections = rejections[:s.cfg.MaxRejections]
	}

	// groups and overall
	groups := map[string]*groupAcc{}
	overall := newGroupAcc("overall")
	for _, sc := range all {
		g := groups[sc.out.Group]
		if g == nil {
			g = newGroupAcc(sc.out.Group)
			groups[sc.out.Group] = g
		}
		g.add(sc)
		overall.add(sc)
	}
	order := orderGroups(groups, p.Report.GroupOrder)
	rep.Summary.Groups = order
	rep.Groups = make([]domain.GroupStat, len(order))
	for i, name := range order {
		rep.Groups[i] = groups[name].stat(s.lx)
	}
	rep.Overall = overall.stat(s.lx)

	// time buckets
	points := make([]temporal.Point, len(all))
	for i, sc := range all {
		points[i] = sc.point()
	}
	rep.Daily, rep.Summary.Undated = s.lx.Temporal.Daily(points)
	rep.Hourly = s.lx.Temporal.Hourly(points)

	// graph; Add is sequential so record order never matters for counts
	gb := s.lx.NewGraph()
	for _, sc := range all {
		gb.Add(sc.tokens)
	}
	rep.Graph = gb.Graph(p.Graph.MinNodeFrequency, p.Graph.MinEdgeWeight)
	rep.TopPairs = gb.TopPairs(p.Graph.TopPairs)

	rep.Lexicon, rep.Summary.TotalTokens = s.lexiconTable(all)

	if s.cfg.KeepRecords || b.KeepRecords {
		rep.Records = make([]domain.RecordScore, len(all))
		for i, sc := range all {
			rep.Records[i] = sc.out
		}
	}

	if len(all) == 0 {
		rep.Summary.Empty = true
		rep.Summary.Message = NoData
		rep.Overall.Basin = basin.HybridNeutral
	}

	log.Info().
		Int("records", rep.Summary.Records).
		Int("skipped", rep.Summary.Skipped).
		Int("groups", len(rep.Groups)).
		Int("days", len(rep.Daily)).
		Str("basin", string(rep.Overall.Basin)).
		Msg("analysis complete")
	return rep, nil
}
