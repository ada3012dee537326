package runtime

import (
	"fmt"
	"slices"

	"github.com/gitrdm/gorekall/pkg/rekall"
)

// Combiner merges two partial results.
type Combiner[R any] func(a, b R) (R, error)

// UnionCombiner merges results with their Union method.
func UnionCombiner[R rekall.Unioner[R]](a, b R) (R, error) {
	return a.Union(b), nil
}

// SetUnionCombiner merges plain interval sets.
func SetUnionCombiner[P any](a, b *rekall.IntervalSet[P]) (*rekall.IntervalSet[P], error) {
	return a.Union(b), nil
}

// DisjointKeyCombiner merges mappings whose key sets never overlap, as when
// every batch owns the keys it was given. It skips the per-key union and
// fails with ErrKeyCollision when the assumption does not hold.
func DisjointKeyCombiner[K comparable, P any](a, b *rekall.IntervalSetMapping[K, P]) (*rekall.IntervalSetMapping[K, P], error) {
	merged := a.Sets()
	var shared []K
	for k, s := range b.Sets() {
		if _, ok := merged[k]; ok {
			shared = append(shared, k)
			continue
		}
		merged[k] = s
	}
	if len(shared) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrKeyCollision, shared)
	}
	return rekall.NewIntervalSetMapping(merged), nil
}

// defaultCombiner uses Union when R provides it.
func defaultCombiner[R any]() (Combiner[R], error) {
	var zero R
	if _, ok := any(zero).(rekall.Unioner[R]); !ok {
		return nil, fmt.Errorf("%w: %T", ErrNoCombiner, zero)
	}
	return func(a, b R) (R, error) {
		return any(a).(rekall.Unioner[R]).Union(b), nil
	}, nil
}

// chunk splits keys into batches of at most size keys.
func chunk[K any](keys []K, size int) [][]K {
	if size <= 0 {
		size = 1
	}
	return slices.Collect(slices.Chunk(keys, size))
}
