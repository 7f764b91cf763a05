package services

import (
	"go.uber.org/atomic"
)

// DefaultProgressEvery is how many evaluations pass between progress events.
const DefaultProgressEvery = 100000

// Progress is a point-in-time view of a search. Percent is in [0, 100].
type Progress struct {
	Evaluated uint64
	Total     uint64
	Percent   float64
}

// ProgressFunc receives progress events. It may be called concurrently
// from several workers.
type ProgressFunc func(Progress)

// ProgressReporter counts evaluated orderings and emits an event each time
// the count crosses a multiple of every. Crossings are detected per Add, so
// a batch spanning two boundaries yields a single event.
type ProgressReporter struct {
	total    uint64
	every    uint64
	count    *atomic.Uint64
	finished *atomic.Bool
	sink     ProgressFunc
}

func NewProgressReporter(total, every uint64, sink ProgressFunc) *ProgressReporter {
	return &ProgressReporter{
		total:    total,
		every:    every,
		count:    atomic.NewUint64(0),
		finished: atomic.NewBool(false),
		sink:     sink,
	}
}

// Add records n completed evaluations.
func (r *ProgressReporter) Add(n uint64) {
	if n == 0 {
		return
	}
	after := r.count.Add(n)
	before := after - n

	if r.sink == nil || r.every == 0 {
		return
	}
	if before/r.every != after/r.every {
		r.sink(r.progressAt(after))
	}
}

// Snapshot returns the current count without emitting anything.
func (r *ProgressReporter) Snapshot() Progress {
	return r.progressAt(r.count.Load())
}

// Finish emits the final event exactly once and returns it. Call it after
// every worker has returned.
func (r *ProgressReporter) Finish() Progress {
	p := r.Snapshot()
	if r.finished.CompareAndSwap(false, true) && r.sink != nil {
		r.sink(p)
	}
	return p
}

func (r *ProgressReporter) progressAt(count uint64) Progress {
	p := Progress{Evaluated: count, Total: r.total}
	if r.total > 0 {
		p.Percent = float64(count) / float64(r.total) * 100
	}
	return p
}
