package rekall

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frames(spans ...[2]float64) *IntervalSet[int] {
	ivs := make([]Interval[int], len(spans))
	for i, s := range spans {
		ivs[i] = NewInterval[int](NewBounds3D(s[0], s[1]), 0)
	}
	return NewIntervalSet(ivs)
}

func TestMinus(t *testing.T) {
	is1 := NewIntervalSet([]Interval[int]{
		box(1, 10, 0, 0.5, 0.2, 0.8, 1),
		box(3, 15, 0, 1, 0, 1, 2),
	})
	is2 := frames([2]float64{2, 2.5}, [2]float64{2, 2.7}, [2]float64{2.9, 3.5},
		[2]float64{3.5, 3.6}, [2]float64{5, 7}, [2]float64{9, 12})

	got, err := is1.Minus(is2)
	require.NoError(t, err)

	want := NewIntervalSet([]Interval[int]{
		box(1, 2, 0, 0.5, 0.2, 0.8, 1),
		box(2.7, 2.9, 0, 0.5, 0.2, 0.8, 1),
		box(3.6, 5, 0, 0.5, 0.2, 0.8, 1),
		box(7, 9, 0, 0.5, 0.2, 0.8, 1),
		box(3.6, 5, 0, 1, 0, 1, 2),
		box(7, 9, 0, 1, 0, 1, 2),
		box(12, 15, 0, 1, 0, 1, 2),
	})
	assert.Equal(t, want.Intervals(), got.Intervals())
}

func TestMinus_Degenerate(t *testing.T) {
	small := frames([2]float64{2, 2.5}, [2]float64{2, 2.7}, [2]float64{2.9, 3.5},
		[2]float64{3.5, 3.6}, [2]float64{5, 7}, [2]float64{9, 12})
	large := frames([2]float64{1, 10}, [2]float64{3, 15})

	tests := []struct {
		name  string
		s     *IntervalSet[int]
		other *IntervalSet[int]
		want  *IntervalSet[int]
	}{
		{"everything", small, large, EmptySet[int]()},
		{"self", small, small, EmptySet[int]()},
		{"nothing to subtract", large, frames([2]float64{20, 20.5}, [2]float64{25, 27}), large},
		{"empty other", large, EmptySet[int](), large},
		{"empty self", EmptySet[int](), large, EmptySet[int]()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.s.Minus(tt.other)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Intervals(), got.Intervals())
		})
	}
}

func TestMinus_SingleFrames(t *testing.T) {
	points := set1D(span{1, 1, 0}, span{3, 3, 0}, span{4, 4, 0}, span{7, 7, 0}, span{10, 10, 0})
	ranges := set1D(span{1, 3, 0}, span{5, 8, 0}, span{9, 9, 0})

	got, err := points.Minus(ranges)
	require.NoError(t, err)
	assert.Equal(t, []span{{4, 4, 0}, {10, 10, 0}}, spansOf(got))

	// Zero-length intervals never subtract anything.
	got, err = ranges.Minus(points)
	require.NoError(t, err)
	assert.Equal(t, spansOf(ranges), spansOf(got))
}

func TestMinus_AlongX(t *testing.T) {
	s := NewIntervalSet([]Interval[int]{NewInterval[int](NewBounds3D(0, 1), 7)})
	other := NewIntervalSet([]Interval[int]{box(0, 1, 0.2, 0.4, 0, 1, 0)})

	got, err := s.Minus(other, WithAxis(AxisX))
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, Span{Lo: 0, Hi: 0.2}, got.At(0).Span(AxisX))
	assert.Equal(t, Span{Lo: 0.4, Hi: 1}, got.At(1).Span(AxisX))
	assert.Equal(t, Span{Lo: 0, Hi: 1}, got.At(1).Span(AxisT))
	assert.Equal(t, 7, got.At(1).Payload)
}

func TestMinus_Errors(t *testing.T) {
	s := NewIntervalSet([]Interval[int]{NewInterval[int](NewBounds3D(0, 10), 0)})

	_, err := s.Minus(NewIntervalSet([]Interval[int]{box(2, 3, 0, 0.5, 0, 1, 0)}))
	require.ErrorIs(t, err, ErrIncompatibleOther)
	var incompatible *IncompatibleOtherError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, AxisX, incompatible.Axis)
	assert.Equal(t, 0, incompatible.Index)

	_, err = set1D(span{0, 1, 0}).Minus(set1D(span{0, 1, 0}), WithAxis(AxisX))
	assert.ErrorIs(t, err, ErrUnsupportedAxis)
}

func TestMinusWith(t *testing.T) {
	s := set1D(span{0, 10, 1}, span{20, 30, 5})
	tags := MapPayload(set1D(span{2, 3, 0}), func(int) string { return "ab" })

	got, err := MinusWith(s, tags, func(p int, tag string) int { return p + len(tag) })
	require.NoError(t, err)
	assert.Equal(t, []span{{0, 2, 3}, {3, 10, 3}, {20, 30, 5}}, spansOf(got))
}

func TestMinus_Trace(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	EnableTrace(true)
	t.Cleanup(func() {
		EnableTrace(false)
		SetLogger(nil)
	})

	_, err := set1D(span{0, 10, 0}).Minus(set1D(span{2, 3, 0}))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "left 2 fragments")
}
