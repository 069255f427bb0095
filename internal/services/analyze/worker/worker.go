// Package worker serves analyze requests arriving on the message bus
package worker

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"attractor/internal/adapters/ingest"
	"attractor/internal/platform/bus"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/logger"
	pnet "attractor/internal/platform/net"
	"attractor/internal/services/analyze/domain"
	"attractor/internal/services/analyze/service"
)

// Source is the rejection source for bus submitted records
const Source = "bus"

// Subscriber is the slice of the bus client the worker needs
type Subscriber interface {
	Subscribe(ctx context.Context, subject, queue string, h bus.Handler) error
}

// Worker analyzes each request, delivers the report to its sinks and replies
// with the run summary
type Worker struct {
	svc   domain.AnalyzerPort
	sinks []domain.SinkPort
	seq   atomic.Int64
}

var newRequestID = uuid.NewString

// New returns a worker over svc
func New(svc domain.AnalyzerPort, sinks ...domain.SinkPort) *Worker {
	return &Worker{svc: svc, sinks: sinks}
}

// Start subscribes the worker; messages are handled until ctx ends or the client closes
func (w *Worker) Start(ctx context.Context, sub Subscriber, subject, queue string) error {
	return sub.Subscribe(ctx, subject, queue, w.Handle)
}

// Handle processes one message and returns the encoded reply frame
func (w *Worker) Handle(ctx context.Context, subject string, data []byte) []byte {
	reqID := newRequestID()
	ctx = logger.WithRequest(ctx, reqID)
	log := logger.C(ctx)
	start := time.Now()

	seq := w.seq.Add(1)

	summary, err := w.run(ctx, data)
	if err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("bus request failed")
	} else {
		log.Info().
			Str("subject", subject).
			Str("run_id", summary.RunID).
			Int("records", summary.Records).
			Dur("elapsed", time.Since(start)).
			Msg("bus request done")
	}

	out, merr := json.Marshal(pnet.NewFrame(seq, summary, err, reqID))
	if merr != nil {
		log.Error().Err(merr).Msg("encode reply")
		return nil
	}
	return out
}

func (w *Worker) run(ctx context.Context, data []byte) (*domain.Summary, error) {
	var req domain.AnalyzeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "invalid request body")
	}
	rep, err := w.svc.Analyze(ctx, ingest.FromRequest(req, Source))
	if err != nil {
		return nil, err
	}
	if err := service.Deliver(ctx, rep, w.sinks...); err != nil {
		return nil, err
	}
	return &rep.Summary, nil
}
