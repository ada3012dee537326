// This file implements construction and the unary operators. Binary
// operators live in window.go, minus.go and coalesce.go; pattern matching in
// match.go.
//
// # Ownership
//
// Every operator returns a new, independently owned IntervalSet. Inputs are
// never modified, so a set may be shared by concurrent readers without
// locking. Intervals are always held in ascending Bounds order.

package rekall

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// Sets larger than windowThreshold use windowFraction of their primary
	// span as the default window; smaller sets use the whole span.
	windowThreshold = 1000
	windowFraction  = 0.01
)

// IntervalSet is an ordered multiset of intervals.
type IntervalSet[P any] struct {
	intervals []Interval[P]
	axis      Axis
	window    float64
}

// NewIntervalSet copies and sorts intervals. Every interval must carry
// non-nil Bounds of a single concrete type.
func NewIntervalSet[P any](intervals []Interval[P]) *IntervalSet[P] {
	return newSortedSet(slices.Clone(intervals))
}

// EmptySet returns a set with no intervals.
func EmptySet[P any]() *IntervalSet[P] {
	return newSortedSet[P](nil)
}

// newSortedSet takes ownership of intervals.
func newSortedSet[P any](intervals []Interval[P]) *IntervalSet[P] {
	slices.SortStableFunc(intervals, func(a, b Interval[P]) int { return a.Compare(b) })
	s := &IntervalSet[P]{intervals: intervals, axis: AxisT}
	if len(intervals) > 0 {
		s.axis = intervals[0].Bounds.PrimaryAxis()
	}
	s.window = s.computeWindow()
	return s
}

func (s *IntervalSet[P]) computeWindow() float64 {
	if len(s.intervals) == 0 {
		return 0
	}
	lo, hi := s.intervals[0].Get(s.axis.Lo), s.intervals[0].Get(s.axis.Hi)
	for _, i := range s.intervals[1:] {
		lo = min(lo, i.Get(s.axis.Lo))
		hi = max(hi, i.Get(s.axis.Hi))
	}
	span := hi - lo
	if len(s.intervals) > windowThreshold {
		return span * windowFraction
	}
	return span
}

// Intervals returns a copy of the intervals in order.
func (s *IntervalSet[P]) Intervals() []Interval[P] {
	return slices.Clone(s.intervals)
}

// At returns the i-th interval in order.
func (s *IntervalSet[P]) At(i int) Interval[P] { return s.intervals[i] }

// Len returns the number of intervals.
func (s *IntervalSet[P]) Len() int { return len(s.intervals) }

// Size is Len.
func (s *IntervalSet[P]) Size() int { return len(s.intervals) }

// Empty reports whether the set has no intervals.
func (s *IntervalSet[P]) Empty() bool { return len(s.intervals) == 0 }

// PrimaryAxis is the axis the set is sorted and windowed on.
func (s *IntervalSet[P]) PrimaryAxis() Axis { return s.axis }

// OptimizationWindow is the default window for binary operators.
func (s *IntervalSet[P]) OptimizationWindow() float64 { return s.window }

func (s *IntervalSet[P]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<IntervalSet %d intervals", len(s.intervals))
	for i, iv := range s.intervals {
		if i == 5 {
			fmt.Fprintf(&b, " ...+%d more", len(s.intervals)-5)
			break
		}
		b.WriteString(" ")
		b.WriteString(iv.String())
	}
	b.WriteString(">")
	return b.String()
}

// Map applies fn to every interval.
func (s *IntervalSet[P]) Map(fn func(Interval[P]) Interval[P]) *IntervalSet[P] {
	return MapTo(s, fn)
}

// MapTo applies fn to every interval, changing the payload type.
func MapTo[P, Q any](s *IntervalSet[P], fn func(Interval[P]) Interval[Q]) *IntervalSet[Q] {
	out := make([]Interval[Q], len(s.intervals))
	for i, iv := range s.intervals {
		out[i] = fn(iv)
	}
	return newSortedSet(out)
}

// MapPayload rewrites every payload and keeps the bounds.
func MapPayload[P, Q any](s *IntervalSet[P], fn func(P) Q) *IntervalSet[Q] {
	out := make([]Interval[Q], len(s.intervals))
	for i, iv := range s.intervals {
		out[i] = Interval[Q]{Bounds: iv.Bounds, Payload: fn(iv.Payload)}
	}
	// Bounds are unchanged so the order is too.
	return &IntervalSet[Q]{intervals: out, axis: s.axis, window: s.window}
}

// Filter keeps the intervals satisfying pred.
func (s *IntervalSet[P]) Filter(pred Predicate[Interval[P]]) *IntervalSet[P] {
	out := make([]Interval[P], 0, len(s.intervals))
	for _, iv := range s.intervals {
		if pred(iv) {
			out = append(out, iv)
		}
	}
	return newSortedSet(out)
}

// Split replaces each interval with the intervals of fn(interval). fn may
// return nil to drop an interval.
func (s *IntervalSet[P]) Split(fn func(Interval[P]) *IntervalSet[P]) *IntervalSet[P] {
	var out []Interval[P]
	for _, iv := range s.intervals {
		if parts := fn(iv); parts != nil {
			out = append(out, parts.intervals...)
		}
	}
	return newSortedSet(out)
}

// Union concatenates both sets. Duplicates are kept.
func (s *IntervalSet[P]) Union(other *IntervalSet[P]) *IntervalSet[P] {
	out := make([]Interval[P], 0, len(s.intervals)+len(other.intervals))
	out = append(out, s.intervals...)
	out = append(out, other.intervals...)
	return newSortedSet(out)
}

// Dilate widens every interval by amount on both ends of axis. A negative
// amount shrinks.
func (s *IntervalSet[P]) Dilate(amount float64, axis Axis) (*IntervalSet[P], error) {
	out := make([]Interval[P], len(s.intervals))
	for i, iv := range s.intervals {
		if err := CheckAxis(iv.Bounds, axis); err != nil {
			return nil, err
		}
		sp := iv.Span(axis)
		out[i] = iv.WithBounds(WithSpan(iv.Bounds, axis, Span{Lo: sp.Lo - amount, Hi: sp.Hi + amount}))
	}
	return newSortedSet(out), nil
}

// FilterSize keeps intervals whose length on axis lies in [minSize, maxSize].
// Pass math.Inf(1) for no upper limit.
func (s *IntervalSet[P]) FilterSize(minSize, maxSize float64, axis Axis) (*IntervalSet[P], error) {
	out := make([]Interval[P], 0, len(s.intervals))
	for _, iv := range s.intervals {
		if err := CheckAxis(iv.Bounds, axis); err != nil {
			return nil, err
		}
		if size := iv.Size(axis); size >= minSize && size <= maxSize {
			out = append(out, iv)
		}
	}
	return newSortedSet(out), nil
}

// Reduce folds the set with the first interval as the seed.
func (s *IntervalSet[P]) Reduce(fn func(acc, next Interval[P]) Interval[P]) (Interval[P], error) {
	if len(s.intervals) == 0 {
		return Interval[P]{}, ErrEmptyFold
	}
	return reduce(s.intervals, fn), nil
}

// ReduceBy is Reduce in the order given by cmp. Ties keep the natural order.
func (s *IntervalSet[P]) ReduceBy(fn func(acc, next Interval[P]) Interval[P], cmp func(a, b Interval[P]) int) (Interval[P], error) {
	if len(s.intervals) == 0 {
		return Interval[P]{}, ErrEmptyFold
	}
	ordered := slices.Clone(s.intervals)
	slices.SortStableFunc(ordered, cmp)
	return reduce(ordered, fn), nil
}

func reduce[P any](ivs []Interval[P], fn func(acc, next Interval[P]) Interval[P]) Interval[P] {
	acc := ivs[0]
	for _, iv := range ivs[1:] {
		acc = fn(acc, iv)
	}
	return acc
}

// Fold left-folds the set in its natural order.
func Fold[P, A any](s *IntervalSet[P], fn func(A, Interval[P]) A, init A) A {
	acc := init
	for _, iv := range s.intervals {
		acc = fn(acc, iv)
	}
	return acc
}

// FoldBy left-folds the set in the order given by cmp. Ties keep the
// natural order.
func FoldBy[P, A any](s *IntervalSet[P], fn func(A, Interval[P]) A, init A, cmp func(a, b Interval[P]) int) A {
	ordered := slices.Clone(s.intervals)
	slices.SortStableFunc(ordered, cmp)
	acc := init
	for _, iv := range ordered {
		acc = fn(acc, iv)
	}
	return acc
}

// FoldToSet folds into a slice of intervals and returns it as a set.
func (s *IntervalSet[P]) FoldToSet(fn func(acc []Interval[P], next Interval[P]) []Interval[P], init []Interval[P]) *IntervalSet[P] {
	return NewIntervalSet(Fold(s, fn, slices.Clone(init)))
}

// GroupBy partitions the set by key and merges each partition into one
// interval. Partitions are passed to merge in order of first appearance.
func GroupBy[P any, K comparable, Q any](s *IntervalSet[P], key func(Interval[P]) K, merge func(K, *IntervalSet[P]) Interval[Q]) *IntervalSet[Q] {
	var order []K
	groups := make(map[K][]Interval[P])
	for _, iv := range s.intervals {
		k := key(iv)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], iv)
	}
	out := make([]Interval[Q], 0, len(order))
	for _, k := range order {
		// Partitions inherit the set's order.
		part := &IntervalSet[P]{intervals: groups[k], axis: s.axis}
		part.window = part.computeWindow()
		out = append(out, merge(k, part))
	}
	return newSortedSet(out)
}

// GroupByAxis groups intervals sharing the same span on axis. Each group
// becomes one interval with bounds template, its axis replaced by the group's
// span, carrying the group as payload.
func GroupByAxis[P any](s *IntervalSet[P], axis Axis, template Bounds) (*IntervalSet[*IntervalSet[P]], error) {
	if err := CheckAxis(template, axis); err != nil {
		return nil, err
	}
	for _, iv := range s.intervals {
		if err := CheckAxis(iv.Bounds, axis); err != nil {
			return nil, err
		}
	}
	return GroupBy(s,
		func(iv Interval[P]) Span { return iv.Span(axis) },
		func(sp Span, group *IntervalSet[P]) Interval[*IntervalSet[P]] {
			return NewInterval(WithSpan(template, axis, sp), group)
		}), nil
}
