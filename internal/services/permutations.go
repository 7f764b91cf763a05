package services

import (
	"context"
	"errors"
	"fmt"
)

// MaxWaypoints is the practical ceiling for an exhaustive search.
// 11! is roughly 4e7 orderings; 12! would be twelve times that.
const MaxWaypoints = 11

// maxFactorialInput is the largest n whose factorial fits in a uint64.
const maxFactorialInput = 20

var ErrFactorialOverflow = errors.New("factorial overflows uint64")

// Factorial returns n! as the number of orderings of n waypoints.
func Factorial(n int) (uint64, error) {
	if n < 0 {
		return 0, fmt.Errorf("factorial: negative input %d", n)
	}
	if n > maxFactorialInput {
		return 0, fmt.Errorf("factorial: %d: %w", n, ErrFactorialOverflow)
	}

	total := uint64(1)
	for i := 2; i <= n; i++ {
		total *= uint64(i)
	}
	return total, nil
}

// Permutation walks every ordering of the indices 0..n-1 in lexicographic
// order, starting from the identity. It is not safe for concurrent use; to
// fan orderings out to several goroutines use ProducePermutations.
type Permutation struct {
	idx     []int
	started bool
	done    bool
}

func NewPermutation(n int) *Permutation {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return &Permutation{idx: idx}
}

// Next advances to the following ordering and reports whether one exists.
// The first call yields the identity ordering.
func (p *Permutation) Next() bool {
	if p.done {
		return false
	}
	if !p.started {
		p.started = true
		return true
	}

	// Rightmost ascent.
	i := len(p.idx) - 2
	for i >= 0 && p.idx[i] >= p.idx[i+1] {
		i--
	}
	if i < 0 {
		p.done = true
		return false
	}

	j := len(p.idx) - 1
	for p.idx[j] <= p.idx[i] {
		j--
	}
	p.idx[i], p.idx[j] = p.idx[j], p.idx[i]

	for l, r := i+1, len(p.idx)-1; l < r; l, r = l+1, r-1 {
		p.idx[l], p.idx[r] = p.idx[r], p.idx[l]
	}
	return true
}

// Current returns the ordering produced by the last call to Next.
// The slice is reused by the generator; copy it to keep it.
func (p *Permutation) Current() []int {
	return p.idx
}

// ProducePermutations sends every ordering of 0..n-1 on out, packed into
// batches of up to batchSize orderings laid out back to back (len = k*n).
// Each batch is a fresh slice owned by whichever receiver gets it, so
// draining out from several goroutines delivers every ordering exactly once.
//
// out is closed when the function returns.
func ProducePermutations(ctx context.Context, n, batchSize int, out chan<- []int) error {
	defer close(out)

	if n <= 0 {
		return fmt.Errorf("produce permutations: n must be positive, got %d", n)
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	perm := NewPermutation(n)
	batch := make([]int, 0, batchSize*n)

	for perm.Next() {
		batch = append(batch, perm.Current()...)
		if len(batch) < cap(batch) {
			continue
		}

		select {
		case out <- batch:
		case <-ctx.Done():
			return ctx.Err()
		}
		batch = make([]int, 0, batchSize*n)
	}

	if len(batch) > 0 {
		select {
		case out <- batch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
