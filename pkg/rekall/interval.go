package rekall

import "fmt"

// Interval is a Bounds with an opaque payload. Intervals are values; the
// With* methods and Combine return new intervals.
type Interval[P any] struct {
	Bounds  Bounds
	Payload P
}

// NewInterval pairs bounds with a payload.
func NewInterval[P any](b Bounds, payload P) Interval[P] {
	return Interval[P]{Bounds: b, Payload: payload}
}

// Get returns one coordinate of the interval's bounds.
func (i Interval[P]) Get(c Coord) float64 { return i.Bounds.Get(c) }

// Span returns the interval's range on axis.
func (i Interval[P]) Span(axis Axis) Span { return SpanOf(i.Bounds, axis) }

// Size returns the interval's length on axis.
func (i Interval[P]) Size(axis Axis) float64 { return SizeOf(i.Bounds, axis) }

// Compare orders intervals by their bounds.
func (i Interval[P]) Compare(o Interval[P]) int { return i.Bounds.Compare(o.Bounds) }

// WithBounds returns a copy with new bounds.
func (i Interval[P]) WithBounds(b Bounds) Interval[P] {
	i.Bounds = b
	return i
}

// WithPayload returns a copy with a new payload.
func (i Interval[P]) WithPayload(p P) Interval[P] {
	i.Payload = p
	return i
}

// Combine builds one interval from i and o. A nil payload combiner keeps i's
// payload.
func (i Interval[P]) Combine(o Interval[P], bounds BoundsCombiner, payload func(a, b P) P) Interval[P] {
	return CombineIntervals(i, o, bounds, payloadOrFirst(payload))
}

// Merge spans both intervals on every axis.
func (i Interval[P]) Merge(o Interval[P], payload func(a, b P) P) Interval[P] {
	return i.Combine(o, SpanAll, payload)
}

func (i Interval[P]) String() string {
	return fmt.Sprintf("<Interval %s payload:%v>", i.Bounds, i.Payload)
}

// CombineIntervals is Combine for intervals with different payload types.
func CombineIntervals[P, Q, R any](a Interval[P], b Interval[Q], bounds BoundsCombiner, payload func(P, Q) R) Interval[R] {
	if bounds == nil {
		bounds = SpanAll
	}
	return Interval[R]{
		Bounds:  bounds(a.Bounds, b.Bounds),
		Payload: payload(a.Payload, b.Payload),
	}
}

func payloadOrFirst[P any](fn func(a, b P) P) func(a, b P) P {
	if fn == nil {
		return PayloadFirst[P]
	}
	return fn
}
