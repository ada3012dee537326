package rekall

import (
	"log/slog"
	"math"
)

// pairWithinWindow visits every interval a of left with the intervals b of
// right whose primary-axis ranges come within window of a's:
//
//	b.lo - a.hi <= window  &&  a.lo - b.hi <= window
//
// The gaps are computed exactly as the temporal relations compute them, so a
// pair Before(MaxDist(d)) accepts is never pruned by a window of d.
//
// Both sets are sorted by their lower primary coordinate, so the scan start
// into right only ever moves forward: an interval further than window before
// a is further than window before every later a as well. The scan for one a
// stops at the first b starting more than window after a.hi.
//
// visit receives a scratch slice that is reused between calls; it returns
// false to stop the sweep.
func pairWithinWindow[P, Q any](left *IntervalSet[P], right *IntervalSet[Q], window float64, visit func(a Interval[P], candidates []Interval[Q]) bool) {
	axis := left.axis
	start := 0
	var candidates []Interval[Q]
	for _, a := range left.intervals {
		aLo, aHi := a.Get(axis.Lo), a.Get(axis.Hi)
		for start < len(right.intervals) && aLo-right.intervals[start].Get(axis.Hi) > window {
			start++
		}
		candidates = candidates[:0]
		for _, b := range right.intervals[start:] {
			if b.Get(axis.Lo)-aHi > window {
				break
			}
			if aLo-b.Get(axis.Hi) <= window {
				candidates = append(candidates, b)
			}
		}
		if !visit(a, candidates) {
			return
		}
	}
}

func (c opConfig) windowFor(defaultWindow float64) float64 {
	if c.hasWindow {
		return c.window
	}
	return defaultWindow
}

// auditWindow re-runs pred over the full cross product for the first n left
// intervals and warns about accepted pairs the window excluded.
func auditWindow[P, Q any](op string, left *IntervalSet[P], right *IntervalSet[Q], window float64, n int, pred func(Interval[P], Interval[Q]) bool) int {
	if n <= 0 || math.IsInf(window, 1) {
		return 0
	}
	axis := left.axis
	missed := 0
	for _, a := range left.intervals[:min(n, len(left.intervals))] {
		aLo, aHi := a.Get(axis.Lo), a.Get(axis.Hi)
		for _, b := range right.intervals {
			inWindow := aLo-b.Get(axis.Hi) <= window && b.Get(axis.Lo)-aHi <= window
			if inWindow || !pred(a, b) {
				continue
			}
			missed++
			logger().Warn("window excluded a matching pair",
				slog.String("op", op),
				slog.Float64("window", window),
				slog.String("left", a.Bounds.String()),
				slog.String("right", b.Bounds.String()))
		}
	}
	return missed
}

// JoinWith emits mergeOp(a, b) for every pair within the window that
// satisfies pred. mergeOp may return any number of intervals.
func JoinWith[P, Q, R any](left *IntervalSet[P], right *IntervalSet[Q], pred func(Interval[P], Interval[Q]) bool, mergeOp func(Interval[P], Interval[Q]) []Interval[R], opts ...OpOption) *IntervalSet[R] {
	cfg := newOpConfig(opts)
	window := cfg.windowFor(left.window)
	auditWindow("join", left, right, window, cfg.audit, pred)

	var out []Interval[R]
	pairWithinWindow(left, right, window, func(a Interval[P], candidates []Interval[Q]) bool {
		for _, b := range candidates {
			if pred(a, b) {
				out = append(out, mergeOp(a, b)...)
			}
		}
		return true
	})
	return newSortedSet(out)
}

// Join is JoinWith for sets sharing a payload type.
func (s *IntervalSet[P]) Join(other *IntervalSet[P], pred BinaryPredicate[Interval[P]], mergeOp func(a, b Interval[P]) []Interval[P], opts ...OpOption) *IntervalSet[P] {
	return JoinWith[P, P, P](s, other, pred, mergeOp, opts...)
}

// Merge joins with a merge op producing exactly one interval: the bounds
// combiner (SpanAll unless WithBoundsCombiner is given) applied to both, with
// payload merged by payloadMerge (first payload when nil).
func (s *IntervalSet[P]) Merge(other *IntervalSet[P], pred BinaryPredicate[Interval[P]], payloadMerge func(a, b P) P, opts ...OpOption) *IntervalSet[P] {
	cfg := newOpConfig(opts)
	bounds := cfg.bounds
	if bounds == nil {
		bounds = SpanAll
	}
	payloadMerge = payloadOrFirst(payloadMerge)
	return JoinWith[P, P, P](s, other, pred, func(a, b Interval[P]) []Interval[P] {
		return []Interval[P]{a.Combine(b, bounds, payloadMerge)}
	}, opts...)
}

// FilterAgainst keeps intervals of left that satisfy pred with at least one
// interval of right inside the window.
func FilterAgainst[P, Q any](left *IntervalSet[P], right *IntervalSet[Q], pred func(Interval[P], Interval[Q]) bool, opts ...OpOption) *IntervalSet[P] {
	cfg := newOpConfig(opts)
	window := cfg.windowFor(left.window)
	auditWindow("filter_against", left, right, window, cfg.audit, pred)

	out := make([]Interval[P], 0, len(left.intervals))
	pairWithinWindow(left, right, window, func(a Interval[P], candidates []Interval[Q]) bool {
		for _, b := range candidates {
			if pred(a, b) {
				out = append(out, a)
				break
			}
		}
		return true
	})
	return newSortedSet(out)
}

// FilterAgainst is the same-payload form of the package function.
func (s *IntervalSet[P]) FilterAgainst(other *IntervalSet[P], pred BinaryPredicate[Interval[P]], opts ...OpOption) *IntervalSet[P] {
	return FilterAgainst[P, P](s, other, pred, opts...)
}

// Collected is the payload produced by CollectByInterval.
type Collected[P, Q any] struct {
	Payload P
	Nested  *IntervalSet[Q]
}

// CollectByInterval nests, into each interval of left, the set of intervals
// of right that satisfy pred with it. With filterEmpty, intervals that
// collect nothing are dropped.
func CollectByInterval[P, Q any](left *IntervalSet[P], right *IntervalSet[Q], pred func(Interval[P], Interval[Q]) bool, filterEmpty bool, opts ...OpOption) *IntervalSet[Collected[P, Q]] {
	cfg := newOpConfig(opts)
	window := cfg.windowFor(left.window)
	auditWindow("collect_by_interval", left, right, window, cfg.audit, pred)

	out := make([]Interval[Collected[P, Q]], 0, len(left.intervals))
	pairWithinWindow(left, right, window, func(a Interval[P], candidates []Interval[Q]) bool {
		var nested []Interval[Q]
		for _, b := range candidates {
			if pred(a, b) {
				nested = append(nested, b)
			}
		}
		if filterEmpty && len(nested) == 0 {
			return true
		}
		out = append(out, Interval[Collected[P, Q]]{
			Bounds:  a.Bounds,
			Payload: Collected[P, Q]{Payload: a.Payload, Nested: newSortedSet(nested)},
		})
		return true
	})
	return newSortedSet(out)
}
