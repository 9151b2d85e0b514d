package domain

import (
	"fmt"
	"time"
)

// TimeGrid is an immutable, equally spaced sequence of timestamps from
// start to end inclusive.
type TimeGrid struct {
	start time.Time
	step  time.Duration
	n     int
}

// NewTimeGrid builds the grid. The last point is the largest start+k·step
// not after end.
func NewTimeGrid(start, end time.Time, step time.Duration) (TimeGrid, error) {
	if step <= 0 {
		return TimeGrid{}, fmt.Errorf("domain.NewTimeGrid: step must be positive, got %s", step)
	}
	if end.Before(start) {
		return TimeGrid{}, fmt.Errorf("domain.NewTimeGrid: end %s before start %s", end, start)
	}
	n := int(end.Sub(start)/step) + 1
	return TimeGrid{start: start, step: step, n: n}, nil
}

// Len is the number of points.
func (g TimeGrid) Len() int { return g.n }

// Step is the spacing between points.
func (g TimeGrid) Step() time.Duration { return g.step }

// At returns the i-th timestamp.
func (g TimeGrid) At(i int) time.Time {
	return g.start.Add(time.Duration(i) * g.step)
}

// Points returns a copy of every timestamp.
func (g TimeGrid) Points() []time.Time {
	out := make([]time.Time, g.n)
	for i := range out {
		out[i] = g.At(i)
	}
	return out
}
