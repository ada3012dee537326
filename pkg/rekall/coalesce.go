package rekall

import (
	"cmp"
	"slices"
)

// Coalesce merges intervals that overlap on axis or follow each other with a
// gap of at most epsilon. Intervals are scanned in (lo, hi) order on axis and
// each one is compared only with the interval currently being accumulated,
// so a bounds merge that does not span both inputs on axis can leave
// overlapping output.
//
// boundsMerge defaults to SpanAll and payloadMerge to keeping the first
// payload.
func (s *IntervalSet[P]) Coalesce(axis Axis, boundsMerge BoundsCombiner, payloadMerge func(a, b P) P, epsilon float64) (*IntervalSet[P], error) {
	for _, iv := range s.intervals {
		if err := CheckAxis(iv.Bounds, axis); err != nil {
			return nil, err
		}
	}
	if boundsMerge == nil {
		boundsMerge = SpanAll
	}
	payloadMerge = payloadOrFirst(payloadMerge)
	touches := Cast(AxisT, axis)(Or2(Overlaps(), Before(MaxDist(epsilon))))

	ordered := slices.Clone(s.intervals)
	slices.SortStableFunc(ordered, func(a, b Interval[P]) int {
		if r := cmp.Compare(a.Get(axis.Lo), b.Get(axis.Lo)); r != 0 {
			return r
		}
		return cmp.Compare(a.Get(axis.Hi), b.Get(axis.Hi))
	})

	out := make([]Interval[P], 0, len(ordered))
	for _, iv := range ordered {
		if n := len(out); n > 0 && touches(out[n-1].Bounds, iv.Bounds) {
			out[n-1] = out[n-1].Combine(iv, boundsMerge, payloadMerge)
			continue
		}
		out = append(out, iv)
	}
	return newSortedSet(out), nil
}
