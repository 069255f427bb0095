// Package http exposes the analyze service over HTTP and a websocket stream
package http

import (
	"net/http"

	"attractor/internal/adapters/ingest"
	"attractor/internal/core/basin"
	"attractor/internal/modkit/httpkit"
	"attractor/internal/services/analyze/domain"
	"attractor/internal/services/analyze/service"
)

// Source is the rejection source for records posted to /analyze
const Source = "request"

// ClassifyResponse is the body of POST /classify
type ClassifyResponse struct {
	Label basin.Label `json:"label"`
}

type handlers struct {
	svc *service.Service
}

// Register mounts the analyze routes. The stream sits outside the timeout group
func Register(r httpkit.Router, svc *service.Service, o Options) {
	h := handlers{svc: svc}
	httpkit.WithTimeout(r, o.Timeout, func(g httpkit.Router) {
		httpkit.Get(g, "/profile", h.profile)
		httpkit.PostJSON(g, "/score", h.score)
		httpkit.PostJSON(g, "/classify", h.classify)
		// batches are capped by the BodyLimit middleware, not the decoder
		httpkit.PostJSON(g, "/analyze", h.analyze, httpkit.JSONOptions{DisallowUnknown: true, AllowEmptyBody: true})
	})
	r.Get("/score/stream", newStream(svc, o).ServeHTTP)
}

func (h handlers) profile(*http.Request) (any, error) {
	return h.svc.Profile(), nil
}

func (h handlers) score(r *http.Request, in domain.RecordIn) (any, error) {
	rec, err := ingest.Convert(in)
	if err != nil {
		return nil, err
	}
	return h.svc.Score(r.Context(), rec)
}

func (h handlers) classify(_ *http.Request, in basin.Input) (any, error) {
	return ClassifyResponse{Label: h.svc.Classify(in)}, nil
}

func (h handlers) analyze(r *http.Request, in domain.AnalyzeRequest) (any, error) {
	return h.svc.Analyze(r.Context(), ingest.FromRequest(in, Source))
}
