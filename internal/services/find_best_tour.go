package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/metrics"
	"transit-tour-service/internal/platform/obs"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

const defaultBatchSize = 512

var (
	ErrNoWaypoints       = errors.New("waypoint set is empty")
	ErrDuplicateWaypoint = errors.New("duplicate waypoint")
	ErrEmptyWaypointName = errors.New("empty waypoint name")
	ErrTooManyWaypoints  = errors.New("too many waypoints for exhaustive search")
	ErrSearchStarted     = errors.New("search already started")
)

// SearchOptions tune an exhaustive search. Zero values select defaults.
type SearchOptions struct {
	Workers       int
	BatchSize     int
	ProgressEvery uint64
	CostModel     CostModel
	TrackWorst    bool
	OnProgress    ProgressFunc
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	if o.ProgressEvery == 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
	if o.CostModel == "" {
		o.CostModel = CostModelBoundary
	}
	return o
}

// TourSearch is one exhaustive search over every ordering of a waypoint set.
// CurrentBest and Progress may be called from other goroutines while Run
// is in flight.
type TourSearch struct {
	names    []string
	matrix   *indexedMatrix
	opts     SearchOptions
	total    uint64
	tracker  *BestTracker
	progress *ProgressReporter
	started  *atomic.Bool
}

// NewTourSearch validates the waypoint set and the cost matrix once, before
// any work starts.
func NewTourSearch(names []string, matrix domain.CostMatrix, opts SearchOptions) (*TourSearch, error) {
	if err := validateWaypointSet(names); err != nil {
		return nil, fmt.Errorf("new tour search: %w", err)
	}
	if len(names) > MaxWaypoints {
		return nil, fmt.Errorf("new tour search: %d waypoints (max %d): %w", len(names), MaxWaypoints, ErrTooManyWaypoints)
	}

	total, err := Factorial(len(names))
	if err != nil {
		return nil, fmt.Errorf("new tour search: %w", err)
	}

	im, err := newIndexedMatrix(names, matrix)
	if err != nil {
		return nil, fmt.Errorf("new tour search: %w", err)
	}

	opts = opts.withDefaults()
	if _, err := ParseCostModel(string(opts.CostModel)); err != nil {
		return nil, fmt.Errorf("new tour search: %w", err)
	}

	return &TourSearch{
		names:    im.names,
		matrix:   im,
		opts:     opts,
		total:    total,
		tracker:  NewBestTracker(im.solution, opts.TrackWorst),
		progress: NewProgressReporter(total, opts.ProgressEvery, opts.OnProgress),
		started:  atomic.NewBool(false),
	}, nil
}

// Run evaluates all n! orderings and returns the best one. It returns an
// error without a result if ctx is cancelled first.
func (s *TourSearch) Run(ctx context.Context) (_ *domain.TourResult, err error) {
	defer obs.Time(ctx, "search.Run")(&err)

	if !s.started.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("find best tour: %w", ErrSearchStarted)
	}

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.SearchesTotal.WithLabelValues(outcome).Inc()
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	g, gctx := errgroup.WithContext(ctx)
	batches := make(chan []int, 2*s.opts.Workers)

	n := len(s.names)
	g.Go(func() error {
		return ProducePermutations(gctx, n, s.opts.BatchSize, batches)
	})
	for w := 0; w < s.opts.Workers; w++ {
		g.Go(func() error {
			return s.work(gctx, batches)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("find best tour: %w", err)
	}

	// All workers have joined; this is the completion signal.
	final := s.progress.Finish()
	if final.Evaluated != s.total {
		return nil, fmt.Errorf("find best tour: evaluated %d of %d orderings", final.Evaluated, s.total)
	}

	best, ok := s.tracker.Best()
	if !ok {
		return nil, errors.New("find best tour: no ordering evaluated")
	}
	metrics.BestComparison.Set(best.Metrics.Comparison)

	res := &domain.TourResult{
		Best:      best,
		CostModel: string(s.opts.CostModel),
		Evaluated: final.Evaluated,
		Total:     s.total,
		Elapsed:   time.Since(start),
	}
	if worst, ok := s.tracker.Worst(); ok {
		res.Worst = &worst
	}
	return res, nil
}

func (s *TourSearch) work(ctx context.Context, batches <-chan []int) error {
	n := len(s.names)
	for batch := range batches {
		// Cancellation is checked between batches, never mid-evaluation.
		if err := ctx.Err(); err != nil {
			return err
		}

		for off := 0; off+n <= len(batch); off += n {
			order := batch[off : off+n]
			s.tracker.Offer(order, evaluateTour(order, s.matrix, s.opts.CostModel))
		}

		k := uint64(len(batch) / n)
		s.progress.Add(k)
		metrics.PermutationsEvaluated.Add(float64(k))
	}
	return nil
}

// CurrentBest returns the best solution found so far, if any.
func (s *TourSearch) CurrentBest() (domain.Solution, bool) {
	return s.tracker.Best()
}

// Progress returns how many orderings have been evaluated so far.
func (s *TourSearch) Progress() Progress {
	return s.progress.Snapshot()
}

// Total is n! for the search's waypoint set.
func (s *TourSearch) Total() uint64 {
	return s.total
}

// FindBestTour runs an exhaustive search over every ordering of names.
func FindBestTour(
	ctx context.Context,
	names []string,
	matrix domain.CostMatrix,
	opts SearchOptions,
) (*domain.TourResult, error) {
	search, err := NewTourSearch(names, matrix, opts)
	if err != nil {
		return nil, err
	}
	return search.Run(ctx)
}

func validateWaypointSet(names []string) error {
	if len(names) == 0 {
		return ErrNoWaypoints
	}

	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("index %d: %w", i, ErrEmptyWaypointName)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%q: %w", name, ErrDuplicateWaypoint)
		}
		seen[name] = struct{}{}
	}
	return nil
}
