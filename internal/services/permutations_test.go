package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFactorial(t *testing.T) {
	cases := map[int]uint64{0: 1, 1: 1, 2: 2, 3: 6, 5: 120, 11: 39916800, 20: 2432902008176640000}
	for n, want := range cases {
		got, err := Factorial(n)
		require.NoError(t, err)
		require.Equal(t, want, got, "factorial(%d)", n)
	}

	_, err := Factorial(21)
	require.ErrorIs(t, err, ErrFactorialOverflow)

	_, err = Factorial(-1)
	require.Error(t, err)
}

func TestPermutationLexicographicOrder(t *testing.T) {
	p := NewPermutation(3)

	var got [][]int
	for p.Next() {
		got = append(got, append([]int(nil), p.Current()...))
	}

	want := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	require.Equal(t, want, got)
	require.False(t, p.Next(), "exhausted generator must stay exhausted")
}

func TestPermutationSingleElement(t *testing.T) {
	p := NewPermutation(1)

	require.True(t, p.Next())
	require.Equal(t, []int{0}, p.Current())
	require.False(t, p.Next())
}

func TestPermutationDistinctAndComplete(t *testing.T) {
	for n := 1; n <= 7; n++ {
		total, err := Factorial(n)
		require.NoError(t, err)

		seen := make(map[string]struct{}, total)
		p := NewPermutation(n)
		for p.Next() {
			seen[fmt.Sprint(p.Current())] = struct{}{}
		}
		require.Len(t, seen, int(total), "n=%d", n)
	}
}

func TestProducePermutationsBatches(t *testing.T) {
	const n = 4
	out := make(chan []int)

	errc := make(chan error, 1)
	go func() { errc <- ProducePermutations(context.Background(), n, 5, out) }()

	seen := make(map[string]struct{})
	batches := 0
	for batch := range out {
		batches++
		require.Zero(t, len(batch)%n)
		require.LessOrEqual(t, len(batch), 5*n)
		for off := 0; off < len(batch); off += n {
			seen[fmt.Sprint(batch[off:off+n])] = struct{}{}
		}
	}

	require.NoError(t, <-errc)
	require.Len(t, seen, 24)
	require.Equal(t, 5, batches)
}

func TestProducePermutationsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan []int)
	err := ProducePermutations(ctx, 3, 1, out)
	require.ErrorIs(t, err, context.Canceled)

	_, open := <-out
	require.False(t, open, "channel must be closed on return")
}

func TestProducePermutationsRejectsEmpty(t *testing.T) {
	out := make(chan []int, 1)
	require.Error(t, ProducePermutations(context.Background(), 0, 1, out))
}
