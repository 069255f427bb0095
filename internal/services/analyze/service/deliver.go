package service

import (
	"context"
	"errors"
	"time"

	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/logger"
	"attractor/internal/services/analyze/domain"
)

// Deliver writes rep to every sink in order. A failing sink does not stop the
// others; the joined error names each failure
func Deliver(ctx context.Context, rep *domain.Report, sinks ...domain.SinkPort) error {
	log := logger.C(logger.WithRun(ctx, rep.Summary.RunID))
	var errs []error
	for _, sk := range sinks {
		if sk == nil {
			continue
		}
		start := time.Now()
		if err := sk.Write(ctx, rep); err != nil {
			log.Error().Err(err).Str("sink", sk.Name()).Msg("sink write failed")
			errs = append(errs, perr.WithOp(perr.Wrapf(err, perr.CodeOf(err), "sink %s", sk.Name()), sk.Name()))
			continue
		}
		log.Info().Str("sink", sk.Name()).Dur("elapsed", time.Since(start)).Msg("report written")
	}
	return errors.Join(errs...)
}
