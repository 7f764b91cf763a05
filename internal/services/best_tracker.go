package services

import (
	"sync"
	"transit-tour-service/internal/domain"
)

// SnapshotFunc builds the immutable solution for an ordering.
type SnapshotFunc func(order []int, metrics domain.TourMetrics) domain.Solution

// BestTracker keeps the minimum (and optionally maximum) comparison metric
// offered so far together with the solution that produced it.
//
// Metric and snapshot live in one record guarded by one lock, so a reader
// never sees a metric paired with another ordering's snapshot. Only strictly
// better candidates replace the record: among equal metrics the first one to
// take the write lock is kept, which is non-deterministic across workers.
type BestTracker struct {
	mu         sync.RWMutex
	best       *domain.Solution
	worst      *domain.Solution
	trackWorst bool
	snapshot   SnapshotFunc
}

func NewBestTracker(snapshot SnapshotFunc, trackWorst bool) *BestTracker {
	return &BestTracker{snapshot: snapshot, trackWorst: trackWorst}
}

// Offer records a scored ordering and reports whether it became the new best.
// order is copied by the snapshot function; callers may reuse it afterwards.
func (t *BestTracker) Offer(order []int, metrics domain.TourMetrics) bool {
	c := metrics.Comparison

	// Most candidates improve nothing; filter them under the read lock.
	t.mu.RLock()
	better := t.best == nil || c < t.best.Metrics.Comparison
	worse := t.trackWorst && (t.worst == nil || c > t.worst.Metrics.Comparison)
	t.mu.RUnlock()
	if !better && !worse {
		return false
	}

	// Build outside the lock, then re-check: another worker may have won meanwhile.
	sol := t.snapshot(order, metrics)

	t.mu.Lock()
	defer t.mu.Unlock()

	improved := false
	if t.best == nil || c < t.best.Metrics.Comparison {
		t.best = &sol
		improved = true
	}
	if t.trackWorst && (t.worst == nil || c > t.worst.Metrics.Comparison) {
		t.worst = &sol
	}
	return improved
}

// Best returns the current minimum. Returned slices must not be modified.
func (t *BestTracker) Best() (domain.Solution, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.best == nil {
		return domain.Solution{}, false
	}
	return *t.best, true
}

// Worst returns the current maximum, when tracked.
func (t *BestTracker) Worst() (domain.Solution, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.worst == nil {
		return domain.Solution{}, false
	}
	return *t.worst, true
}
