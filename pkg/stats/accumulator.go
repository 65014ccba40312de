package stats

import (
	"github.com/voluzi/process-watcher/pkg/schema"
)

// Sample is the aggregate usage of a process subtree in one snapshot.
type Sample struct {
	Timestamp int64
	Totals    schema.Totals
}

// Accumulator tracks the per-metric peak of the samples it observes.
// The zero value is ready to use and reports all-zero maxima.
type Accumulator struct {
	max     schema.Totals
	samples int
	first   int64
	last    int64
}

// AddSample folds s into the running maxima.
func (a *Accumulator) AddSample(s Sample) {
	if a.samples == 0 {
		a.first = s.Timestamp
	}
	a.last = s.Timestamp
	a.samples++

	for i, v := range s.Totals {
		if v > a.max[i] {
			a.max[i] = v
		}
	}
}

// Max returns the per-metric maxima observed so far.
func (a *Accumulator) Max() schema.Totals {
	return a.max
}

// Samples returns how many samples were observed.
func (a *Accumulator) Samples() int {
	return a.samples
}

// Span returns the timestamps of the first and last observed samples.
// Both are zero when nothing was observed.
func (a *Accumulator) Span() (first, last int64) {
	return a.first, a.last
}
