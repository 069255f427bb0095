package service

import (
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/validate"
	"attractor/internal/services/analyze/domain"
)

// check applies the record invariants; failures are ErrorCodeMalformedRecord with
// the rejection reason as the op
func (s *Service) check(r domain.Record) error {
	if err := validate.Struct(r); err != nil {
		w := perr.WireFrom(err)
		return malformed(domain.ReasonForField(w.Field), w.Message)
	}
	if s.cfg.RequireTimestamp && r.Timestamp.IsZero() {
		return malformed(domain.ReasonMissingTimestamp, "timestamp is required")
	}
	return nil
}

func malformed(reason, detail string) error {
	return perr.WithOp(perr.New(perr.ErrorCodeMalformedRecord, detail), reason)
}

// rejectionOf turns a check failure into a rejection row
func rejectionOf(r domain.Record, idx int, err error) domain.Rejection {
	rej := domain.Rejection{Source: r.ID, Line: idx + 1, Reason: domain.ReasonInvalid, Detail: err.Error()}
	if e, ok := perr.As(err); ok {
		if e.Op() != "" {
			rej.Reason = e.Op()
		}
		rej.Detail = e.Message()
	}
	if rej.Source == "" {
		rej.Source = "batch"
	}
	return rej
}
