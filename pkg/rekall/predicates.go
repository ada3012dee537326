// This file defines the logical combinators and the temporal (Allen)
// relations. Temporal relations read the (T1, T2) coordinates; use Cast, X or
// Y to apply them to another axis.

package rekall

import "math"

// Predicate is a boolean test over one value.
type Predicate[T any] func(T) bool

// BinaryPredicate is a boolean test over a pair of values.
type BinaryPredicate[T any] func(a, b T) bool

// And holds when every predicate holds. And() is always true.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Or holds when any predicate holds. Or() is always false.
func Or[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if p(v) {
				return true
			}
		}
		return false
	}
}

// Not negates p.
func Not[T any](p Predicate[T]) Predicate[T] {
	return func(v T) bool { return !p(v) }
}

// True always holds.
func True[T any]() Predicate[T] { return func(T) bool { return true } }

// False never holds.
func False[T any]() Predicate[T] { return func(T) bool { return false } }

// And2 is And for binary predicates.
func And2[T any](preds ...BinaryPredicate[T]) BinaryPredicate[T] {
	return func(a, b T) bool {
		for _, p := range preds {
			if !p(a, b) {
				return false
			}
		}
		return true
	}
}

// Or2 is Or for binary predicates.
func Or2[T any](preds ...BinaryPredicate[T]) BinaryPredicate[T] {
	return func(a, b T) bool {
		for _, p := range preds {
			if p(a, b) {
				return true
			}
		}
		return false
	}
}

// Not2 negates a binary predicate.
func Not2[T any](p BinaryPredicate[T]) BinaryPredicate[T] {
	return func(a, b T) bool { return !p(a, b) }
}

// True2 always holds.
func True2[T any]() BinaryPredicate[T] { return func(T, T) bool { return true } }

// False2 never holds.
func False2[T any]() BinaryPredicate[T] { return func(T, T) bool { return false } }

// OnBounds lifts a bounds relation to intervals with payload P.
func OnBounds[P any](pred BinaryPredicate[Bounds]) BinaryPredicate[Interval[P]] {
	return func(a, b Interval[P]) bool { return pred(a.Bounds, b.Bounds) }
}

// OnBoundsUnary lifts a bounds test to intervals with payload P.
func OnBoundsUnary[P any](pred Predicate[Bounds]) Predicate[Interval[P]] {
	return func(i Interval[P]) bool { return pred(i.Bounds) }
}

// OnPayload lifts a payload test to intervals.
func OnPayload[P any](pred Predicate[P]) Predicate[Interval[P]] {
	return func(i Interval[P]) bool { return pred(i.Payload) }
}

// OnPayloads lifts a payload relation to intervals.
func OnPayloads[P any](pred BinaryPredicate[P]) BinaryPredicate[Interval[P]] {
	return func(a, b Interval[P]) bool { return pred(a.Payload, b.Payload) }
}

type distanceRange struct {
	min float64
	max float64
}

// DistanceOption bounds the gap accepted by Before and After.
type DistanceOption func(*distanceRange)

// MinDist sets the smallest accepted gap. Defaults to 0.
func MinDist(d float64) DistanceOption {
	return func(r *distanceRange) { r.min = d }
}

// MaxDist sets the largest accepted gap. Defaults to +Inf.
func MaxDist(d float64) DistanceOption {
	return func(r *distanceRange) { r.max = d }
}

func newDistanceRange(opts []DistanceOption) distanceRange {
	r := distanceRange{min: 0, max: math.Inf(1)}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r distanceRange) accepts(gap float64) bool {
	return gap >= r.min && gap <= r.max
}

// Before holds when b starts after a ends, with the gap b.t1 - a.t2 inside
// the configured distance range.
func Before(opts ...DistanceOption) BinaryPredicate[Bounds] {
	r := newDistanceRange(opts)
	return func(a, b Bounds) bool {
		return r.accepts(b.Get(T1) - a.Get(T2))
	}
}

// After holds when a starts after b ends, with the gap a.t1 - b.t2 inside
// the configured distance range.
func After(opts ...DistanceOption) BinaryPredicate[Bounds] {
	r := newDistanceRange(opts)
	return func(a, b Bounds) bool {
		return r.accepts(a.Get(T1) - b.Get(T2))
	}
}

// Overlaps is the colloquial overlap: partial overlap from either side or
// containment in either direction. Touching endpoints of non-degenerate
// intervals do not overlap; a zero-length interval inside or on the edge of
// the other does.
func Overlaps() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		as, ae := a.Get(T1), a.Get(T2)
		bs, be := b.Get(T1), b.Get(T2)
		return (as < bs && ae > bs) ||
			(as < be && ae > be) ||
			(as <= bs && ae >= be) ||
			(as >= bs && ae <= be)
	}
}

// OverlapsBefore holds when a starts first and ends inside b.
func OverlapsBefore() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return a.Get(T2) > b.Get(T1) && a.Get(T2) < b.Get(T2) && a.Get(T1) < b.Get(T1)
	}
}

// OverlapsAfter holds when a starts inside b and ends after it.
func OverlapsAfter() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return a.Get(T1) > b.Get(T1) && a.Get(T1) < b.Get(T2) && a.Get(T2) > b.Get(T2)
	}
}

// Starts holds when both start within epsilon and a ends first.
func Starts(epsilon float64) BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return math.Abs(a.Get(T1)-b.Get(T1)) <= epsilon && a.Get(T2) < b.Get(T2)
	}
}

// StartsInv holds when both start within epsilon and b ends first.
func StartsInv(epsilon float64) BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return math.Abs(a.Get(T1)-b.Get(T1)) <= epsilon && b.Get(T2) < a.Get(T2)
	}
}

// Finishes holds when both end within epsilon and a starts last.
func Finishes(epsilon float64) BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return math.Abs(a.Get(T2)-b.Get(T2)) <= epsilon && a.Get(T1) > b.Get(T1)
	}
}

// FinishesInv holds when both end within epsilon and b starts last.
func FinishesInv(epsilon float64) BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return math.Abs(a.Get(T2)-b.Get(T2)) <= epsilon && b.Get(T1) > a.Get(T1)
	}
}

// During holds when a lies strictly inside b.
func During() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return a.Get(T1) > b.Get(T1) && a.Get(T2) < b.Get(T2)
	}
}

// DuringInv holds when b lies strictly inside a.
func DuringInv() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return b.Get(T1) > a.Get(T1) && b.Get(T2) < a.Get(T2)
	}
}

// MeetsBefore holds when a ends within epsilon of b's start.
func MeetsBefore(epsilon float64) BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return math.Abs(a.Get(T2)-b.Get(T1)) <= epsilon
	}
}

// MeetsAfter holds when b ends within epsilon of a's start.
func MeetsAfter(epsilon float64) BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return math.Abs(b.Get(T2)-a.Get(T1)) <= epsilon
	}
}

// Equal holds when both start and end coincide.
func Equal() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return a.Get(T1) == b.Get(T1) && a.Get(T2) == b.Get(T2)
	}
}
