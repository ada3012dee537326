package rekall

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// Unioner is implemented by collections that merge with another of the same
// type. Both *IntervalSet and *IntervalSetMapping satisfy it.
type Unioner[T any] interface {
	Union(other T) T
}

var (
	_ Unioner[*IntervalSet[int]]             = (*IntervalSet[int])(nil)
	_ Unioner[*IntervalSetMapping[int, int]] = (*IntervalSetMapping[int, int])(nil)
)

// IntervalSetMapping holds one IntervalSet per key. Reading a missing key
// yields an empty set. Unary operators run per key and drop keys whose
// result is empty; binary operators run over the union of both mappings'
// keys, treating a missing side as empty.
type IntervalSetMapping[K comparable, P any] struct {
	sets map[K]*IntervalSet[P]
}

// NewIntervalSetMapping wraps sets. Nil entries are skipped; the map itself
// is copied.
func NewIntervalSetMapping[K comparable, P any](sets map[K]*IntervalSet[P]) *IntervalSetMapping[K, P] {
	m := &IntervalSetMapping[K, P]{sets: make(map[K]*IntervalSet[P], len(sets))}
	for k, s := range sets {
		if s != nil {
			m.sets[k] = s
		}
	}
	return m
}

// FromIntervalSet groups the intervals of s by key and rewrites their
// payloads with payload.
func FromIntervalSet[P any, K comparable, Q any](s *IntervalSet[P], key func(Interval[P]) K, payload func(Interval[P]) Q) *IntervalSetMapping[K, Q] {
	groups := make(map[K][]Interval[Q])
	for _, iv := range s.intervals {
		k := key(iv)
		groups[k] = append(groups[k], Interval[Q]{Bounds: iv.Bounds, Payload: payload(iv)})
	}
	m := &IntervalSetMapping[K, Q]{sets: make(map[K]*IntervalSet[Q], len(groups))}
	for k, ivs := range groups {
		m.sets[k] = newSortedSet(ivs)
	}
	return m
}

// Get returns the set stored under k, or an empty set.
func (m *IntervalSetMapping[K, P]) Get(k K) *IntervalSet[P] {
	if s, ok := m.sets[k]; ok {
		return s
	}
	return EmptySet[P]()
}

// Has reports whether k is present.
func (m *IntervalSetMapping[K, P]) Has(k K) bool {
	_, ok := m.sets[k]
	return ok
}

// Len returns the number of keys.
func (m *IntervalSetMapping[K, P]) Len() int { return len(m.sets) }

// Empty reports whether the mapping has no keys.
func (m *IntervalSetMapping[K, P]) Empty() bool { return len(m.sets) == 0 }

// Keys returns the keys in unspecified order. Use SortedKeys for ordered keys.
func (m *IntervalSetMapping[K, P]) Keys() []K {
	return slices.Collect(maps.Keys(m.sets))
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, P any](m *IntervalSetMapping[K, P]) []K {
	return slices.Sorted(maps.Keys(m.sets))
}

// Sets returns a copy of the underlying map.
func (m *IntervalSetMapping[K, P]) Sets() map[K]*IntervalSet[P] {
	return maps.Clone(m.sets)
}

// Sizes returns the number of intervals stored under each key.
func (m *IntervalSetMapping[K, P]) Sizes() map[K]int {
	out := make(map[K]int, len(m.sets))
	for k, s := range m.sets {
		out[k] = s.Len()
	}
	return out
}

// TotalSize returns the number of intervals across all keys.
func (m *IntervalSetMapping[K, P]) TotalSize() int {
	n := 0
	for _, s := range m.sets {
		n += s.Len()
	}
	return n
}

// Flatten returns every interval of every key as one set.
func (m *IntervalSetMapping[K, P]) Flatten() *IntervalSet[P] {
	var out []Interval[P]
	for _, s := range m.sets {
		out = append(out, s.intervals...)
	}
	return newSortedSet(out)
}

// Keyed is the payload produced by AddKeyToPayload.
type Keyed[K comparable, P any] struct {
	Key     K
	Payload P
}

// AddKeyToPayload pairs every payload with the key it is stored under, so
// the key survives Flatten.
func AddKeyToPayload[K comparable, P any](m *IntervalSetMapping[K, P]) *IntervalSetMapping[K, Keyed[K, P]] {
	return MapSets(m, func(k K, s *IntervalSet[P]) *IntervalSet[Keyed[K, P]] {
		return MapPayload(s, func(p P) Keyed[K, P] { return Keyed[K, P]{Key: k, Payload: p} })
	})
}

func (m *IntervalSetMapping[K, P]) String() string {
	return fmt.Sprintf("<IntervalSetMapping %d keys, %d intervals>", len(m.sets), m.TotalSize())
}

// MapSets applies fn to every key's set, dropping empty results.
func MapSets[K comparable, P, Q any](m *IntervalSetMapping[K, P], fn func(K, *IntervalSet[P]) *IntervalSet[Q]) *IntervalSetMapping[K, Q] {
	out, _ := TryMapSets(m, func(k K, s *IntervalSet[P]) (*IntervalSet[Q], error) { return fn(k, s), nil })
	return out
}

// TryMapSets is MapSets for operators that can fail. The first error stops
// the fan-out.
func TryMapSets[K comparable, P, Q any](m *IntervalSetMapping[K, P], fn func(K, *IntervalSet[P]) (*IntervalSet[Q], error)) (*IntervalSetMapping[K, Q], error) {
	out := &IntervalSetMapping[K, Q]{sets: make(map[K]*IntervalSet[Q], len(m.sets))}
	for k, s := range m.sets {
		r, err := fn(k, s)
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", k, err)
		}
		if r != nil && !r.Empty() {
			out.sets[k] = r
		}
	}
	return out, nil
}

// CombineSets applies fn to the sets of a and b under every key present in
// either, dropping empty results.
func CombineSets[K comparable, P, Q, R any](a *IntervalSetMapping[K, P], b *IntervalSetMapping[K, Q], fn func(*IntervalSet[P], *IntervalSet[Q]) *IntervalSet[R]) *IntervalSetMapping[K, R] {
	out, _ := TryCombineSets(a, b, func(x *IntervalSet[P], y *IntervalSet[Q]) (*IntervalSet[R], error) { return fn(x, y), nil })
	return out
}

// TryCombineSets is CombineSets for operators that can fail.
func TryCombineSets[K comparable, P, Q, R any](a *IntervalSetMapping[K, P], b *IntervalSetMapping[K, Q], fn func(*IntervalSet[P], *IntervalSet[Q]) (*IntervalSet[R], error)) (*IntervalSetMapping[K, R], error) {
	out := &IntervalSetMapping[K, R]{sets: make(map[K]*IntervalSet[R], max(len(a.sets), len(b.sets)))}
	visit := func(k K) error {
		r, err := fn(a.Get(k), b.Get(k))
		if err != nil {
			return fmt.Errorf("key %v: %w", k, err)
		}
		if r != nil && !r.Empty() {
			out.sets[k] = r
		}
		return nil
	}
	for k := range a.sets {
		if err := visit(k); err != nil {
			return nil, err
		}
	}
	for k := range b.sets {
		if _, inA := a.sets[k]; inA {
			continue
		}
		if err := visit(k); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *IntervalSetMapping[K, P]) Map(fn func(Interval[P]) Interval[P]) *IntervalSetMapping[K, P] {
	return MapSets(m, func(_ K, s *IntervalSet[P]) *IntervalSet[P] { return s.Map(fn) })
}

func (m *IntervalSetMapping[K, P]) Filter(pred Predicate[Interval[P]]) *IntervalSetMapping[K, P] {
	return MapSets(m, func(_ K, s *IntervalSet[P]) *IntervalSet[P] { return s.Filter(pred) })
}

func (m *IntervalSetMapping[K, P]) Split(fn func(Interval[P]) *IntervalSet[P]) *IntervalSetMapping[K, P] {
	return MapSets(m, func(_ K, s *IntervalSet[P]) *IntervalSet[P] { return s.Split(fn) })
}

func (m *IntervalSetMapping[K, P]) Dilate(amount float64, axis Axis) (*IntervalSetMapping[K, P], error) {
	return TryMapSets(m, func(_ K, s *IntervalSet[P]) (*IntervalSet[P], error) { return s.Dilate(amount, axis) })
}

func (m *IntervalSetMapping[K, P]) FilterSize(minSize, maxSize float64, axis Axis) (*IntervalSetMapping[K, P], error) {
	return TryMapSets(m, func(_ K, s *IntervalSet[P]) (*IntervalSet[P], error) { return s.FilterSize(minSize, maxSize, axis) })
}

func (m *IntervalSetMapping[K, P]) Coalesce(axis Axis, boundsMerge BoundsCombiner, payloadMerge func(a, b P) P, epsilon float64) (*IntervalSetMapping[K, P], error) {
	return TryMapSets(m, func(_ K, s *IntervalSet[P]) (*IntervalSet[P], error) {
		return s.Coalesce(axis, boundsMerge, payloadMerge, epsilon)
	})
}

// Union merges per key. It satisfies Unioner.
func (m *IntervalSetMapping[K, P]) Union(other *IntervalSetMapping[K, P]) *IntervalSetMapping[K, P] {
	return CombineSets(m, other, (*IntervalSet[P]).Union)
}

func (m *IntervalSetMapping[K, P]) Join(other *IntervalSetMapping[K, P], pred BinaryPredicate[Interval[P]], mergeOp func(a, b Interval[P]) []Interval[P], opts ...OpOption) *IntervalSetMapping[K, P] {
	return CombineSets(m, other, func(a, b *IntervalSet[P]) *IntervalSet[P] { return a.Join(b, pred, mergeOp, opts...) })
}

func (m *IntervalSetMapping[K, P]) Merge(other *IntervalSetMapping[K, P], pred BinaryPredicate[Interval[P]], payloadMerge func(a, b P) P, opts ...OpOption) *IntervalSetMapping[K, P] {
	return CombineSets(m, other, func(a, b *IntervalSet[P]) *IntervalSet[P] { return a.Merge(b, pred, payloadMerge, opts...) })
}

func (m *IntervalSetMapping[K, P]) Minus(other *IntervalSetMapping[K, P], opts ...OpOption) (*IntervalSetMapping[K, P], error) {
	return TryCombineSets(m, other, func(a, b *IntervalSet[P]) (*IntervalSet[P], error) { return a.Minus(b, opts...) })
}

func (m *IntervalSetMapping[K, P]) FilterAgainst(other *IntervalSetMapping[K, P], pred BinaryPredicate[Interval[P]], opts ...OpOption) *IntervalSetMapping[K, P] {
	return CombineSets(m, other, func(a, b *IntervalSet[P]) *IntervalSet[P] { return a.FilterAgainst(b, pred, opts...) })
}

// CollectByIntervalMapping runs CollectByInterval per key.
func CollectByIntervalMapping[K comparable, P, Q any](m *IntervalSetMapping[K, P], other *IntervalSetMapping[K, Q], pred func(Interval[P], Interval[Q]) bool, filterEmpty bool, opts ...OpOption) *IntervalSetMapping[K, Collected[P, Q]] {
	return CombineSets(m, other, func(a *IntervalSet[P], b *IntervalSet[Q]) *IntervalSet[Collected[P, Q]] {
		return CollectByInterval(a, b, pred, filterEmpty, opts...)
	})
}

// FoldMapping folds every key's set. Results are not intervals, so this
// leaves the mapping algebra.
func FoldMapping[K comparable, P, A any](m *IntervalSetMapping[K, P], fn func(A, Interval[P]) A, init A) map[K]A {
	out := make(map[K]A, len(m.sets))
	for k, s := range m.sets {
		out[k] = Fold(s, fn, init)
	}
	return out
}

// MatchMapping runs Match per key and keeps keys with at least one solution.
func MatchMapping[K comparable, P any](m *IntervalSetMapping[K, P], pattern []PatternEntry[P], exact bool) (map[K][]Solution[P], error) {
	out := make(map[K][]Solution[P])
	for k, s := range m.sets {
		sols, err := s.Match(pattern, exact)
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", k, err)
		}
		if len(sols) > 0 {
			out[k] = sols
		}
	}
	return out, nil
}
