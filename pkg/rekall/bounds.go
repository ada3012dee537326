// This file defines Bounds, the multi-axis coordinate container every
// Interval carries, together with the axis vocabulary and span combiners.
//
// # Coordinates and axes
//
// A Bounds is a small fixed set of named coordinates. Coordinates come in
// (lower, upper) pairs called axes:
//
//	AxisT = (T1, T2)   time, the primary axis of both built-in types
//	AxisX = (X1, X2)   horizontal extent, Bounds3D only
//	AxisY = (Y1, Y2)   vertical extent, Bounds3D only
//
// Bounds are values. Combining two Bounds or replacing a coordinate yields a
// new Bounds and never mutates the receiver. Lower <= upper is not enforced;
// zero-length bounds such as single frames are valid.

package rekall

import (
	"cmp"
	"fmt"
)

// Coord names a single coordinate of a Bounds.
type Coord int

const (
	T1 Coord = iota
	T2
	X1
	X2
	Y1
	Y2
)

var coordNames = [...]string{"t1", "t2", "x1", "x2", "y1", "y2"}

func (c Coord) String() string {
	if c >= 0 && int(c) < len(coordNames) {
		return coordNames[c]
	}
	return fmt.Sprintf("coord(%d)", int(c))
}

// ParseCoord maps a coordinate name such as "t1" back to a Coord.
func ParseCoord(name string) (Coord, bool) {
	for i, n := range coordNames {
		if n == name {
			return Coord(i), true
		}
	}
	return 0, false
}

// Axis is an ordered (lower, upper) pair of coordinates.
type Axis struct {
	Lo Coord
	Hi Coord
}

var (
	AxisT = Axis{Lo: T1, Hi: T2}
	AxisX = Axis{Lo: X1, Hi: X2}
	AxisY = Axis{Lo: Y1, Hi: Y2}
)

func (a Axis) String() string {
	switch a {
	case AxisT:
		return "t"
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	}
	return fmt.Sprintf("(%s,%s)", a.Lo, a.Hi)
}

// ParseAxis accepts "t", "x", "y" (any case) or a "lo,hi" coordinate pair.
func ParseAxis(name string) (Axis, error) {
	switch name {
	case "t", "T":
		return AxisT, nil
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	}
	for i := 0; i < len(name); i++ {
		if name[i] != ',' {
			continue
		}
		lo, okLo := ParseCoord(name[:i])
		hi, okHi := ParseCoord(name[i+1:])
		if okLo && okHi {
			return Axis{Lo: lo, Hi: hi}, nil
		}
	}
	return Axis{}, fmt.Errorf("%w: %q", ErrUnsupportedAxis, name)
}

// Span is the closed range covered on one axis.
type Span struct {
	Lo float64
	Hi float64
}

// Size returns Hi - Lo.
func (s Span) Size() float64 { return s.Hi - s.Lo }

// Covers reports whether s contains o entirely.
func (s Span) Covers(o Span) bool { return s.Lo <= o.Lo && s.Hi >= o.Hi }

// Bounds is the coordinate container carried by every Interval.
//
// Implementations must be comparable values; With returns a modified copy.
// Get returns 0 for coordinates the type does not carry, and With ignores
// them, so callers that accept an arbitrary axis should call CheckAxis first.
type Bounds interface {
	// Get returns the value of coordinate c.
	Get(c Coord) float64

	// Supports reports whether the concrete type carries coordinate c.
	Supports(c Coord) bool

	// With returns a copy of the bounds with coordinate c set to v.
	With(c Coord, v float64) Bounds

	// PrimaryAxis drives sort order and windowing.
	PrimaryAxis() Axis

	// Axes lists every axis carried, primary first.
	Axes() []Axis

	// Extent returns the full extent of a bounded axis. ok is false for
	// unbounded axes such as time.
	Extent(a Axis) (span Span, ok bool)

	// Compare orders bounds lexicographically in canonical coordinate order.
	// Coordinates only one side carries sort after the missing ones.
	Compare(o Bounds) int

	String() string
}

// SpanOf returns the span of b on axis a.
func SpanOf(b Bounds, a Axis) Span {
	return Span{Lo: b.Get(a.Lo), Hi: b.Get(a.Hi)}
}

// WithSpan returns b with both coordinates of axis a replaced.
func WithSpan(b Bounds, a Axis, s Span) Bounds {
	return b.With(a.Lo, s.Lo).With(a.Hi, s.Hi)
}

// SizeOf returns the length of b along axis a.
func SizeOf(b Bounds, a Axis) float64 {
	return b.Get(a.Hi) - b.Get(a.Lo)
}

// compareBounds orders a and b lexicographically over T1, T2, X1, X2, Y1, Y2.
// A coordinate one side does not carry sorts before any value, so a Bounds1D
// precedes a Bounds3D with the same time span and the order stays total when
// both kinds share a set.
func compareBounds(a, b Bounds) int {
	for c := T1; c <= Y2; c++ {
		sa, sb := a.Supports(c), b.Supports(c)
		switch {
		case sa && sb:
			if r := cmp.Compare(a.Get(c), b.Get(c)); r != 0 {
				return r
			}
		case sa:
			return 1
		case sb:
			return -1
		}
	}
	return 0
}

// Bounds1D carries only the time axis.
type Bounds1D struct {
	T1 float64
	T2 float64
}

// NewBounds1D returns [t1, t2] on the time axis.
func NewBounds1D(t1, t2 float64) Bounds1D {
	return Bounds1D{T1: t1, T2: t2}
}

func (b Bounds1D) Get(c Coord) float64 {
	switch c {
	case T1:
		return b.T1
	case T2:
		return b.T2
	}
	return 0
}

func (b Bounds1D) Supports(c Coord) bool { return c == T1 || c == T2 }

func (b Bounds1D) With(c Coord, v float64) Bounds {
	switch c {
	case T1:
		b.T1 = v
	case T2:
		b.T2 = v
	}
	return b
}

func (b Bounds1D) PrimaryAxis() Axis { return AxisT }
func (b Bounds1D) Axes() []Axis { return []Axis{AxisT} }
func (b Bounds1D) Extent(Axis) (Span, bool) { return Span{}, false }
func (b Bounds1D) Compare(o Bounds) int { return compareBounds(b, o) }
func (b Bounds1D) String() string { return fmt.Sprintf("t:[%g, %g]", b.T1, b.T2) }

// Bounds3D carries time plus a normalized 2-D bounding box. X and Y are
// expected to lie within [0, 1], which is also their full extent.
type Bounds3D struct {
	T1 float64
	T2 float64
	X1 float64
	X2 float64
	Y1 float64
	Y2 float64
}

// NewBounds3D returns bounds covering [t1, t2] and the whole frame.
func NewBounds3D(t1, t2 float64) Bounds3D {
	return Bounds3D{T1: t1, T2: t2, X1: 0, X2: 1, Y1: 0, Y2: 1}
}

// NewBounds3DBox returns bounds covering [t1, t2] and the given box.
func NewBounds3DBox(t1, t2, x1, x2, y1, y2 float64) Bounds3D {
	return Bounds3D{T1: t1, T2: t2, X1: x1, X2: x2, Y1: y1, Y2: y2}
}

func (b Bounds3D) Get(c Coord) float64 {
	switch c {
	case T1:
		return b.T1
	case T2:
		return b.T2
	case X1:
		return b.X1
	case X2:
		return b.X2
	case Y1:
		return b.Y1
	case Y2:
		return b.Y2
	}
	return 0
}

func (b Bounds3D) Supports(c Coord) bool { return c >= T1 && c <= Y2 }

func (b Bounds3D) With(c Coord, v float64) Bounds {
	switch c {
	case T1:
		b.T1 = v
	case T2:
		b.T2 = v
	case X1:
		b.X1 = v
	case X2:
		b.X2 = v
	case Y1:
		b.Y1 = v
	case Y2:
		b.Y2 = v
	}
	return b
}

func (b Bounds3D) PrimaryAxis() Axis { return AxisT }
func (b Bounds3D) Axes() []Axis { return []Axis{AxisT, AxisX, AxisY} }

func (b Bounds3D) Extent(a Axis) (Span, bool) {
	if a == AxisX || a == AxisY {
		return Span{Lo: 0, Hi: 1}, true
	}
	return Span{}, false
}

func (b Bounds3D) Compare(o Bounds) int { return compareBounds(b, o) }

func (b Bounds3D) String() string {
	return fmt.Sprintf("t:[%g, %g] x:[%g, %g] y:[%g, %g]", b.T1, b.T2, b.X1, b.X2, b.Y1, b.Y2)
}

// Length is the duration along T.
func (b Bounds3D) Length() float64 { return b.T2 - b.T1 }

// Width is the extent along X.
func (b Bounds3D) Width() float64 { return b.X2 - b.X1 }

// Height is the extent along Y.
func (b Bounds3D) Height() float64 { return b.Y2 - b.Y1 }

// Area is Width * Height.
func (b Bounds3D) Area() float64 { return b.Width() * b.Height() }

// ExpandToFrame keeps the time span and covers the whole frame.
func (b Bounds3D) ExpandToFrame() Bounds3D {
	return NewBounds3D(b.T1, b.T2)
}

// SpanCombiner merges two spans of the same axis.
type SpanCombiner func(a, b Span) Span

// SpanUnion returns the smallest span covering both.
func SpanUnion(a, b Span) Span {
	return Span{Lo: min(a.Lo, b.Lo), Hi: max(a.Hi, b.Hi)}
}

// SpanIntersection returns the overlap of both spans. The result has
// Lo > Hi when they are disjoint.
func SpanIntersection(a, b Span) Span {
	return Span{Lo: max(a.Lo, b.Lo), Hi: min(a.Hi, b.Hi)}
}

// SpanFirst keeps the first span.
func SpanFirst(a, _ Span) Span { return a }

// SpanSecond keeps the second span.
func SpanSecond(_, b Span) Span { return b }

// CombineBounds applies one combiner per axis and returns the new bounds.
// Axes of a that have no combiner keep a's value.
func CombineBounds(a, b Bounds, combiners map[Axis]SpanCombiner) (Bounds, error) {
	for axis := range combiners {
		if err := CheckAxis(a, axis); err != nil {
			return nil, err
		}
		if err := CheckAxis(b, axis); err != nil {
			return nil, err
		}
	}
	out := a
	for axis, fn := range combiners {
		out = WithSpan(out, axis, fn(SpanOf(a, axis), SpanOf(b, axis)))
	}
	return out, nil
}

// BoundsCombiner builds one Bounds out of two.
type BoundsCombiner func(a, b Bounds) Bounds

// PerAxis returns a BoundsCombiner that applies combiners[axis] to every axis
// of the first argument, falling back to fallback for axes not listed. Axes
// the second argument does not carry keep the first argument's span.
func PerAxis(combiners map[Axis]SpanCombiner, fallback SpanCombiner) BoundsCombiner {
	return func(a, b Bounds) Bounds {
		out := a
		for _, axis := range a.Axes() {
			if CheckAxis(b, axis) != nil {
				continue
			}
			fn, ok := combiners[axis]
			if !ok {
				fn = fallback
			}
			if fn == nil {
				continue
			}
			out = WithSpan(out, axis, fn(SpanOf(a, axis), SpanOf(b, axis)))
		}
		return out
	}
}

// SpanAll covers both bounds on every axis.
func SpanAll(a, b Bounds) Bounds {
	return PerAxis(nil, SpanUnion)(a, b)
}

// IntersectAll intersects both bounds on every axis.
func IntersectAll(a, b Bounds) Bounds {
	return PerAxis(nil, SpanIntersection)(a, b)
}

// IntersectTimeSpanSpace intersects the time axis and spans every other axis.
// Callers should only use it on pairs that overlap in time.
func IntersectTimeSpanSpace(a, b Bounds) Bounds {
	return PerAxis(map[Axis]SpanCombiner{AxisT: SpanIntersection}, SpanUnion)(a, b)
}

// castBounds presents the coordinates of one axis under the names of another.
type castBounds struct {
	Bounds
	from Axis
	to   Axis
}

func (c castBounds) redirect(k Coord) Coord {
	switch k {
	case c.from.Lo:
		return c.to.Lo
	case c.from.Hi:
		return c.to.Hi
	}
	return k
}

func (c castBounds) Get(k Coord) float64 { return c.Bounds.Get(c.redirect(k)) }
func (c castBounds) Supports(k Coord) bool { return c.Bounds.Supports(c.redirect(k)) }
func (c castBounds) With(k Coord, v float64) Bounds {
	return castBounds{Bounds: c.Bounds.With(c.redirect(k), v), from: c.from, to: c.to}
}

// CastBounds returns a view of b whose from-axis coordinates read the to-axis.
func CastBounds(b Bounds, from, to Axis) Bounds {
	if from == to {
		return b
	}
	return castBounds{Bounds: b, from: from, to: to}
}

// Cast rewrites a binary predicate written against the from axis so it reads
// the to axis instead. Cast(AxisT, AxisX)(Overlaps()) tests horizontal overlap.
func Cast(from, to Axis) func(BinaryPredicate[Bounds]) BinaryPredicate[Bounds] {
	return func(pred BinaryPredicate[Bounds]) BinaryPredicate[Bounds] {
		if from == to {
			return pred
		}
		return func(a, b Bounds) bool {
			return pred(CastBounds(a, from, to), CastBounds(b, from, to))
		}
	}
}

// CastUnary is Cast for single-argument predicates.
func CastUnary(from, to Axis) func(Predicate[Bounds]) Predicate[Bounds] {
	return func(pred Predicate[Bounds]) Predicate[Bounds] {
		if from == to {
			return pred
		}
		return func(b Bounds) bool {
			return pred(CastBounds(b, from, to))
		}
	}
}

// X applies a time-axis relation to the X axis.
func X(pred BinaryPredicate[Bounds]) BinaryPredicate[Bounds] { return Cast(AxisT, AxisX)(pred) }

// Y applies a time-axis relation to the Y axis.
func Y(pred BinaryPredicate[Bounds]) BinaryPredicate[Bounds] { return Cast(AxisT, AxisY)(pred) }
