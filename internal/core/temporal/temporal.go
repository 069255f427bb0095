// Package temporal buckets per-record metrics by calendar day and hour of day.
//
// Day buckets are indexed from 1 at the earliest UTC date in the input and
// include empty days up to the last one, so day indexes stay contiguous. Hour
// buckets always cover 0..23.
//
// The rolling coupling rate of bucket d is the mean coupling rate of the
// non-empty buckets in the trailing window [d-w+1, d]. The window is truncated
// at the first bucket and never looks ahead.
package temporal

import (
	"time"

	perr "attractor/internal/platform/errors"
)

// DefaultWindow is the rolling window in buckets
const DefaultWindow = 7

// Point is the slice of a record score the aggregator needs
type Point struct {
	Timestamp       time.Time
	Hour            *int
	Densities       map[string]float64
	NetScore        float64
	Coupled         bool
	Markers         map[string]bool
	ReasoningEffort *int
}

// Stat is the reduction shared by day and hour buckets
type Stat struct {
	N                   int                `json:"n"`
	MeanDensity         map[string]float64 `json:"mean_density"`
	MeanNetScore        float64            `json:"mean_net_score"`
	CouplingRate        float64            `json:"coupling_rate"`
	RollingCouplingRate float64            `json:"rolling_coupling_rate"`
	MarkerCounts        map[string]int     `json:"marker_counts"`
	MarkerRates         map[string]float64 `json:"marker_rates"`
	MaxReasoningEffort  int                `json:"max_reasoning_effort"`
	MeanReasoningEffort float64            `json:"mean_reasoning_effort"`
}

// DayStat is one calendar day
type DayStat struct {
	Day  int    `json:"day"`
	Date string `json:"date"`
	Stat
}

// HourStat is one hour of day
type HourStat struct {
	Hour int `json:"hour"`
	Stat
}

// Aggregator is configured once per run; it holds no per-call state
type Aggregator struct {
	window     int
	categories []string
	markers    []string
}

// New returns an aggregator. Every bucket reports the listed categories and markers, zero when empty
func New(window int, categories, markers []string) (*Aggregator, error) {
	if window < 1 {
		return nil, perr.WithField(perr.Configf("rolling window must be at least 1, got %d", window), "window")
	}
	return &Aggregator{window: window, categories: categories, markers: markers}, nil
}

// Window returns the rolling window
func (a *Aggregator) Window() int { return a.window }

// Daily buckets dated points by UTC calendar day. Points with a zero timestamp
// are skipped and counted in undated
func (a *Aggregator) Daily(points []Point) (days []DayStat, undated int) {
	var first, last time.Time
	for _, p := range points {
		if p.Timestamp.IsZero() {
			undated++
			continue
		}
		d := civil(p.Timestamp)
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	if first.IsZero() {
		return []DayStat{}, undated
	}

	n := dayIndex(first, last)
	accs := make([]acc, n)
	for i := range accs {
		accs[i] = a.newAcc()
	}
	for _, p := range points {
		if p.Timestamp.IsZero() {
			continue
		}
		accs[dayIndex(first, civil(p.Timestamp))-1].add(p)
	}

	stats := a.reduce(accs)
	days = make([]DayStat, n)
	for i := range days {
		days[i] = DayStat{
			Day:  i + 1,
			Date: first.AddDate(0, 0, i).Format(time.DateOnly),
			Stat: stats[i],
		}
	}
	return days, undated
}

// Hourly buckets points by hour of day: the explicit Hour when set, else the
// UTC timestamp hour. Points with neither are skipped
func (a *Aggregator) Hourly(points []Point) []HourStat {
	accs := make([]acc, 24)
	for i := range accs {
		accs[i] = a.newAcc()
	}
	for _, p := range points {
		h, ok := hourOf(p)
		if !ok {
			continue
		}
		accs[h].add(p)
	}
	stats := a.reduce(accs)
	out := make([]HourStat, 24)
	for h := range out {
		out[h] = HourStat{Hour: h, Stat: stats[h]}
	}
	return out
}

func hourOf(p Point) (int, bool) {
	if p.Hour != nil {
		if h := *p.Hour; h >= 0 && h < 24 {
			return h, true
		}
		return 0, false
	}
	if p.Timestamp.IsZero() {
		return 0, false
	}
	return p.Timestamp.UTC().Hour(), true
}

func civil(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayIndex is 1 for first itself; both arguments are UTC midnights
func dayIndex(first, d time.Time) int {
	return int(d.Sub(first)/(24*time.Hour)) + 1
}

// reduce finalizes every bucket, then fills the rolling rate
func (a *Aggregator) reduce(accs []acc) []Stat {
	stats := make([]Stat, len(accs))
	for i := range accs {
		stats[i] = accs[i].stat()
	}
	for i := range stats {
		stats[i].RollingCouplingRate = Rolling(stats, i, a.window)
	}
	return stats
}

// Rolling returns the mean coupling rate of non-empty stats in [i-w+1, i]; 0 when none
func Rolling(stats []Stat, i, w int) float64 {
	if i < 0 || i >= len(stats) || w < 1 {
		return 0
	}
	lo := max(i-w+1, 0)
	var sum float64
	var n int
	for j := lo; j <= i; j++ {
		if stats[j].N == 0 {
			continue
		}
		sum += stats[j].CouplingRate
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

type acc struct {
	categories []string
	markers    []string

	n          int
	density    map[string]float64
	net        float64
	coupled    int
	markerHits map[string]int
	effortN    int
	effortSum  float64
	effortMax  int
}

func (a *Aggregator) newAcc() acc {
	return acc{
		categories: a.categories,
		markers:    a.markers,
		density:    make(map[string]float64, len(a.categories)),
		markerHits: make(map[string]int, len(a.markers)),
	}
}

func (c *acc) add(p Point) {
	c.n++
	for _, name := range c.categories {
		c.density[name] += p.Densities[name]
	}
	c.net += p.NetScore
	if p.Coupled {
		c.coupled++
	}
	for _, m := range c.markers {
		if p.Markers[m] {
			c.markerHits[m]++
		}
	}
	if p.ReasoningEffort != nil {
		e := *p.ReasoningEffort
		c.effortN++
		c.effortSum += float64(e)
		c.effortMax = max(c.effortMax, e)
	}
}

func (c *acc) stat() Stat {
	s := Stat{
		N:            c.n,
		MeanDensity:  make(map[string]float64, len(c.categories)),
		MarkerCounts: make(map[string]int, len(c.markers)),
		MarkerRates:  make(map[string]float64, len(c.markers)),
	}
	for _, name := range c.categories {
		s.MeanDensity[name] = ratio(c.density[name], c.n)
	}
	for _, m := range c.markers {
		s.MarkerCounts[m] = c.markerHits[m]
		s.MarkerRates[m] = ratio(float64(c.markerHits[m]), c.n)
	}
	s.MeanNetScore = ratio(c.net, c.n)
	s.CouplingRate = ratio(float64(c.coupled), c.n)
	s.MaxReasoningEffort = c.effortMax
	s.MeanReasoningEffort = ratio(c.effortSum, c.effortN)
	return s
}

func ratio(num float64, den int) float64 {
	if den == 0 {
		return 0
	}
	return num / float64(den)
}
