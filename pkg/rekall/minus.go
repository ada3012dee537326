package rekall

import (
	"cmp"
	"slices"
)

// Minus subtracts other from s along one axis (the primary axis unless
// WithAxis is given). Every output fragment keeps the payload and the
// non-subtracted coordinates of the interval it came from.
func (s *IntervalSet[P]) Minus(other *IntervalSet[P], opts ...OpOption) (*IntervalSet[P], error) {
	return MinusWith[P, P](s, other, nil, opts...)
}

// MinusWith is Minus with a payload combiner. Fragments carry
// payload(a.Payload, b.Payload) where b is the first interval of other that
// touches a; a nil payload keeps a's payload. Intervals of s that no interval
// of other overlaps are reproduced unchanged.
//
// Every interval of other must cover the full extent of each bounded axis
// other than the subtracted one; otherwise an *IncompatibleOtherError is
// returned and nothing is subtracted.
func MinusWith[P, Q any](s *IntervalSet[P], other *IntervalSet[Q], payload func(P, Q) P, opts ...OpOption) (*IntervalSet[P], error) {
	cfg := newOpConfig(opts)
	axis := s.axis
	if cfg.hasAxis {
		axis = cfg.axis
	}
	for _, a := range s.intervals {
		if err := CheckAxis(a.Bounds, axis); err != nil {
			return nil, err
		}
	}
	if err := checkFullExtent(other, axis); err != nil {
		return nil, err
	}

	overlaps := Cast(AxisT, axis)(Overlaps())
	window := cfg.windowFor(s.window)
	if cfg.audit > 0 {
		auditWindow("minus", s, other, window, cfg.audit, func(a Interval[P], b Interval[Q]) bool {
			return b.Size(axis) > 0 && overlaps(a.Bounds, b.Bounds)
		})
	}

	var out []Interval[P]
	var cover []Interval[Q]
	pairWithinWindow(s, other, window, func(a Interval[P], candidates []Interval[Q]) bool {
		cover = cover[:0]
		for _, b := range candidates {
			if b.Size(axis) > 0 && overlaps(a.Bounds, b.Bounds) {
				cover = append(cover, b)
			}
		}
		if len(cover) == 0 {
			out = append(out, a)
			return true
		}
		slices.SortStableFunc(cover, func(x, y Interval[Q]) int {
			if r := cmp.Compare(x.Get(axis.Lo), y.Get(axis.Lo)); r != 0 {
				return r
			}
			return cmp.Compare(x.Get(axis.Hi), y.Get(axis.Hi))
		})
		p := a.Payload
		if payload != nil {
			p = payload(a.Payload, cover[0].Payload)
		}
		before := len(out)
		for _, sp := range subtractSpans(a.Span(axis), cover, axis) {
			out = append(out, Interval[P]{Bounds: WithSpan(a.Bounds, axis, sp), Payload: p})
		}
		tracef("minus: %s against %d covering intervals left %d fragments", a.Bounds, len(cover), len(out)-before)
		return true
	})
	return newSortedSet(out), nil
}

// subtractSpans returns the maximal sub-spans of span not covered by cover,
// which must be sorted by (lo, hi) on axis and have non-zero length. A
// zero-length span yields nothing.
func subtractSpans[Q any](span Span, cover []Interval[Q], axis Axis) []Span {
	var out []Span
	start := span.Lo
	next := 0 // cover[:next] all end at or before start
	for start < span.Hi {
		straddleHi, straddles := start, false
		after := -1
		firstLive := -1
		for i := next; i < len(cover); i++ {
			lo, hi := cover[i].Get(axis.Lo), cover[i].Get(axis.Hi)
			if firstLive < 0 && hi > start {
				firstLive = i
			}
			if lo <= start && hi > start {
				straddleHi = max(straddleHi, hi)
				straddles = true
			} else if lo > start {
				after = i
				break
			}
		}
		if firstLive >= 0 {
			next = firstLive
		}
		if straddles {
			start = straddleHi
			continue
		}
		end, resume := span.Hi, span.Hi
		if after >= 0 {
			end = min(cover[after].Get(axis.Lo), span.Hi)
			resume = cover[after].Get(axis.Hi)
		}
		if end > start {
			out = append(out, Span{Lo: start, Hi: end})
		}
		start = resume
	}
	return out
}

// checkFullExtent validates that every interval of other spans the whole
// extent of each bounded axis except axis.
func checkFullExtent[Q any](other *IntervalSet[Q], axis Axis) error {
	for i, b := range other.intervals {
		if err := CheckAxis(b.Bounds, axis); err != nil {
			return err
		}
		for _, ax := range b.Bounds.Axes() {
			if ax == axis {
				continue
			}
			extent, bounded := b.Bounds.Extent(ax)
			if bounded && !b.Span(ax).Covers(extent) {
				return &IncompatibleOtherError{Axis: ax, Index: i, Bounds: b.Bounds.String()}
			}
		}
	}
	return nil
}
