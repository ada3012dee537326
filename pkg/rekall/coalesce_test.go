package rekall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coalesceInput() *IntervalSet[int] {
	return NewIntervalSet([]Interval[int]{
		box(1, 10, 0.3, 0.4, 0.5, 0.6, 1),
		box(2, 5, 0.2, 0.8, 0.2, 0.3, 1),
		box(10, 11, 0.2, 0.7, 0.3, 0.5, 1),
		box(13, 15, 0.5, 1, 0, 0.5, 1),
		box(15, 19, 0.5, 1, 0, 0.5, 1),
		NewInterval[int](NewBounds3D(20, 20), 1),
		NewInterval[int](NewBounds3D(22, 22), 1),
		NewInterval[int](NewBounds3D(22, 23), 1),
	})
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name    string
		epsilon float64
		want    []Interval[int]
	}{
		{
			name: "touching and overlapping",
			want: []Interval[int]{
				box(1, 11, 0.2, 0.8, 0.2, 0.6, 3),
				box(13, 19, 0.5, 1, 0, 0.5, 2),
				NewInterval[int](NewBounds3D(20, 20), 1),
				NewInterval[int](NewBounds3D(22, 23), 2),
			},
		},
		{
			name:    "gaps within epsilon",
			epsilon: 2,
			want:    []Interval[int]{NewInterval[int](NewBounds3D(1, 23), 8)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coalesceInput().Coalesce(AxisT, SpanAll, PayloadPlus[int], tt.epsilon)
			require.NoError(t, err)
			assert.Equal(t, NewIntervalSet(tt.want).Intervals(), got.Intervals())
		})
	}
}

func TestCoalesce_Defaults(t *testing.T) {
	s := set1D(span{0, 2, 1}, span{1, 3, 2}, span{5, 6, 3})
	got, err := s.Coalesce(AxisT, nil, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []span{{0, 3, 1}, {5, 6, 3}}, spansOf(got))
}

func TestCoalesce_AlongX(t *testing.T) {
	s := NewIntervalSet([]Interval[int]{
		box(0, 1, 0.5, 0.75, 0, 1, 1),
		box(3, 4, 0, 0.25, 0, 1, 1),
		box(5, 6, 0.25, 0.5, 0, 1, 1),
	})
	got, err := s.Coalesce(AxisX, SpanAll, PayloadPlus[int], 0)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, NewBounds3DBox(0, 6, 0, 0.75, 0, 1), got.At(0).Bounds)
	assert.Equal(t, 3, got.At(0).Payload)
}

func TestCoalesce_UnsupportedAxis(t *testing.T) {
	_, err := set1D(span{0, 1, 0}).Coalesce(AxisY, nil, nil, 0)
	assert.ErrorIs(t, err, ErrUnsupportedAxis)
}
