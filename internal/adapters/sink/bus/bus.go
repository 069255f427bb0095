// Package bus publishes a short run event for each finished report
package bus

import (
	"context"

	"attractor/internal/core/basin"
	"attractor/internal/services/analyze/domain"
)

// Publisher is the slice of the bus client the sink needs
type Publisher interface {
	Publish(subject string, data any) error
}

// Event is what subscribers get: the summary and the corpus-wide basin
type Event struct {
	Summary      domain.Summary `json:"summary"`
	Basin        basin.Label    `json:"basin"`
	CouplingRate float64        `json:"coupling_rate"`
	Groups       []GroupBasin   `json:"groups"`
}

// GroupBasin is one group's label
type GroupBasin struct {
	Group string      `json:"group_label"`
	N     int         `json:"n"`
	Basin basin.Label `json:"basin"`
}

// Sink publishes Events on Subject
type Sink struct {
	pub     Publisher
	subject string
}

// New returns a bus sink
func New(pub Publisher, subject string) *Sink { return &Sink{pub: pub, subject: subject} }

// Name implements domain.SinkPort
func (s *Sink) Name() string { return "bus" }

// Write implements domain.SinkPort
func (s *Sink) Write(_ context.Context, rep *domain.Report) error {
	return s.pub.Publish(s.subject, NewEvent(rep))
}

// NewEvent builds the published event; rejections stay out of the payload
func NewEvent(rep *domain.Report) Event {
	sum := rep.Summary
	sum.Rejections = nil
	ev := Event{
		Summary:      sum,
		Basin:        rep.Overall.Basin,
		CouplingRate: rep.Overall.CouplingRate,
		Groups:       make([]GroupBasin, 0, len(rep.Groups)),
	}
	for _, g := range rep.Groups {
		ev.Groups = append(ev.Groups, GroupBasin{Group: g.Group, N: g.N, Basin: g.Basin})
	}
	return ev
}
