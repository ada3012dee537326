package rekall

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in      string
		want    Axis
		wantErr bool
	}{
		{"t", AxisT, false},
		{"X", AxisX, false},
		{"y", AxisY, false},
		{"x1,y2", Axis{Lo: X1, Hi: Y2}, false},
		{"z", Axis{}, true},
		{"t1,q", Axis{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAxis(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedAxis)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBounds3D_Defaults(t *testing.T) {
	b := NewBounds3D(1, 3)
	assert.Equal(t, Span{Lo: 0, Hi: 1}, SpanOf(b, AxisX))
	assert.Equal(t, Span{Lo: 0, Hi: 1}, SpanOf(b, AxisY))
	assert.Equal(t, 2.0, b.Length())
	assert.Equal(t, 1.0, b.Area())
	assert.Equal(t, []Axis{AxisT, AxisX, AxisY}, b.Axes())

	_, bounded := b.Extent(AxisT)
	assert.False(t, bounded, "time has no full extent")
	extent, bounded := b.Extent(AxisX)
	assert.True(t, bounded)
	assert.Equal(t, Span{Lo: 0, Hi: 1}, extent)

	small := NewBounds3DBox(1, 3, 0.2, 0.4, 0.5, 0.6)
	assert.Equal(t, b, small.ExpandToFrame())
	assert.Equal(t, "t:[1, 3] x:[0.2, 0.4] y:[0.5, 0.6]", small.String())
}

func TestBounds_WithIsAValue(t *testing.T) {
	b := NewBounds1D(1, 2)
	c := b.With(T2, 5)
	assert.Equal(t, 2.0, b.Get(T2))
	assert.Equal(t, 5.0, c.Get(T2))

	// Coordinates a type does not carry read as zero and are ignored on write.
	assert.Equal(t, 0.0, b.Get(X1))
	assert.Equal(t, b, b.With(X1, 3))
	assert.False(t, b.Supports(X1))
}

func TestBounds_Compare(t *testing.T) {
	a := NewBounds3DBox(1, 2, 0, 1, 0, 1)
	b := NewBounds3DBox(1, 2, 0.5, 1, 0, 1)
	c := NewBounds3DBox(0, 5, 0.5, 1, 0, 1)
	assert.Negative(t, a.Compare(b))
	assert.Positive(t, a.Compare(c))
	assert.Zero(t, a.Compare(a))
}

func TestBounds_CompareMixedKinds(t *testing.T) {
	flat := NewBounds1D(1, 2)
	boxed := NewBounds3DBox(1, 2, 0.5, 1, 0, 1)
	later := NewBounds1D(1, 3)

	assert.Negative(t, flat.Compare(boxed))
	assert.Positive(t, boxed.Compare(flat))
	assert.Negative(t, boxed.Compare(later), "time decides first")
	assert.Positive(t, later.Compare(boxed))
	assert.Zero(t, flat.Compare(NewBounds1D(1, 2)))

	s := NewIntervalSet([]Interval[int]{
		NewInterval[int](later, 3),
		NewInterval[int](boxed, 2),
		NewInterval[int](flat, 1),
	})
	assert.Equal(t, []int{1, 2, 3}, payloadsOf(s))
}

func TestCheckAxis(t *testing.T) {
	err := CheckAxis(NewBounds1D(0, 1), AxisX)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedAxis))

	var axisErr *UnsupportedAxisError
	require.ErrorAs(t, err, &axisErr)
	assert.Equal(t, AxisX, axisErr.Axis)

	assert.NoError(t, CheckAxis(NewBounds3D(0, 1), AxisY))
	assert.NoError(t, CheckAxis(nil, AxisY))
}

func TestCombineBounds(t *testing.T) {
	a := NewBounds3DBox(0, 2, 0.1, 0.5, 0.2, 0.4)
	b := NewBounds3DBox(1, 3, 0.3, 0.9, 0.0, 0.3)

	got, err := CombineBounds(a, b, map[Axis]SpanCombiner{AxisT: SpanIntersection, AxisX: SpanUnion})
	require.NoError(t, err)
	assert.Equal(t, NewBounds3DBox(1, 2, 0.1, 0.9, 0.2, 0.4), got)

	_, err = CombineBounds(NewBounds1D(0, 1), NewBounds1D(0, 1), map[Axis]SpanCombiner{AxisY: SpanUnion})
	assert.ErrorIs(t, err, ErrUnsupportedAxis)
}

func TestBoundsCombiners(t *testing.T) {
	a := NewBounds3DBox(0, 2, 0.1, 0.5, 0.2, 0.4)
	b := NewBounds3DBox(1, 3, 0.3, 0.9, 0.0, 0.3)

	assert.Equal(t, NewBounds3DBox(0, 3, 0.1, 0.9, 0.0, 0.4), SpanAll(a, b))
	assert.Equal(t, NewBounds3DBox(1, 2, 0.3, 0.5, 0.2, 0.3), IntersectAll(a, b))
	assert.Equal(t, NewBounds3DBox(1, 2, 0.1, 0.9, 0.0, 0.4), IntersectTimeSpanSpace(a, b))

	keepSpace := PerAxis(map[Axis]SpanCombiner{AxisT: SpanUnion}, SpanFirst)
	assert.Equal(t, NewBounds3DBox(0, 3, 0.1, 0.5, 0.2, 0.4), keepSpace(a, b))

	// A 1-D argument leaves the spatial axes of the 3-D one untouched.
	mixed := SpanAll(a, NewBounds1D(-1, 1))
	assert.Equal(t, NewBounds3DBox(-1, 2, 0.1, 0.5, 0.2, 0.4), mixed)
}

func TestCast(t *testing.T) {
	a := NewBounds3DBox(0, 1, 0.1, 0.3, 0.0, 1.0)
	b := NewBounds3DBox(5, 6, 0.2, 0.6, 0.0, 1.0)

	assert.False(t, Overlaps()(a, b), "time ranges are disjoint")
	assert.True(t, X(Overlaps())(a, b))
	assert.True(t, Y(Equal())(a, b))
	assert.True(t, Cast(AxisT, AxisT)(Before())(a, b))

	view := CastBounds(a, AxisT, AxisX)
	assert.Equal(t, 0.1, view.Get(T1))
	assert.Equal(t, 0.3, view.Get(T2))
	assert.Equal(t, 0.7, CastBounds(view.With(T2, 0.7), AxisX, AxisX).Get(T2))

	wide := CastUnary(AxisT, AxisX)(func(b Bounds) bool { return SizeOf(b, AxisT) > 0.3 })
	assert.True(t, wide(b))
	assert.False(t, wide(a))
}
