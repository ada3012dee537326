package rekall

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemporalPredicates(t *testing.T) {
	b := func(t1, t2 float64) Bounds { return NewBounds1D(t1, t2) }

	tests := []struct {
		name string
		pred BinaryPredicate[Bounds]
		a, b Bounds
		want bool
	}{
		{"before", Before(), b(0, 1), b(2, 3), true},
		{"before overlapping", Before(), b(0, 1), b(0.5, 3), false},
		{"before touching", Before(), b(0, 1), b(1, 3), true},
		{"before beyond max", Before(MaxDist(0.5)), b(0, 1), b(2, 3), false},
		{"before under min", Before(MinDist(2)), b(0, 1), b(2, 3), false},
		{"after", After(), b(2, 3), b(0, 1), true},
		{"after reversed", After(), b(0, 1), b(2, 3), false},
		{"overlaps partial", Overlaps(), b(0, 2), b(1, 3), true},
		{"overlaps contained", Overlaps(), b(0, 3), b(1, 2), true},
		{"overlaps touching", Overlaps(), b(0, 1), b(1, 2), false},
		{"overlaps frame on edge", Overlaps(), b(1, 1), b(0, 1), true},
		{"overlaps disjoint", Overlaps(), b(0, 1), b(2, 3), false},
		{"overlaps_before", OverlapsBefore(), b(0, 2), b(1, 3), true},
		{"overlaps_before reversed", OverlapsBefore(), b(1, 3), b(0, 2), false},
		{"overlaps_after", OverlapsAfter(), b(1, 3), b(0, 2), true},
		{"starts", Starts(0), b(0, 1), b(0, 2), true},
		{"starts longer", Starts(0), b(0, 2), b(0, 1), false},
		{"starts epsilon", Starts(0.1), b(0.05, 1), b(0, 2), true},
		{"starts_inv", StartsInv(0), b(0, 2), b(0, 1), true},
		{"finishes", Finishes(0), b(1, 2), b(0, 2), true},
		{"finishes earlier start", Finishes(0), b(0, 2), b(1, 2), false},
		{"finishes_inv", FinishesInv(0), b(0, 2), b(1, 2), true},
		{"during", During(), b(1, 2), b(0, 3), true},
		{"during shared start", During(), b(0, 2), b(0, 3), false},
		{"during_inv", DuringInv(), b(0, 3), b(1, 2), true},
		{"meets_before", MeetsBefore(0), b(0, 1), b(1, 2), true},
		{"meets_before epsilon", MeetsBefore(0.5), b(0, 1), b(1.4, 2), true},
		{"meets_before gap", MeetsBefore(0), b(0, 1), b(1.4, 2), false},
		{"meets_after", MeetsAfter(0), b(1, 2), b(0, 1), true},
		{"equal", Equal(), b(0, 1), b(0, 1), true},
		{"equal different end", Equal(), b(0, 1), b(0, 2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred(tt.a, tt.b))
		})
	}
}

func TestSpatialPredicates(t *testing.T) {
	left := NewBounds3DBox(0, 1, 0.1, 0.4, 0.4, 0.8)
	right := NewBounds3DBox(0, 1, 0.6, 0.9, 0.3, 0.7)
	top := NewBounds3DBox(0, 1, 0.5, 0.7, 0.0, 0.2)
	inner := NewBounds3DBox(0, 1, 0.2, 0.3, 0.5, 0.6)

	tests := []struct {
		name string
		pred BinaryPredicate[Bounds]
		a, b Bounds
		want bool
	}{
		{"left_of", LeftOf(), left, right, true},
		{"left_of reversed", LeftOf(), right, left, false},
		{"right_of", RightOf(), right, left, true},
		{"above", Above(), top, right, true},
		{"below", Below(), right, top, true},
		{"below overlapping", Below(), left, right, false},
		{"inside", Inside(), inner, left, true},
		{"inside reversed", Inside(), left, inner, false},
		{"contains", Contains(), left, inner, true},
		{"same_area", SameArea(0.01), left, NewBounds3DBox(5, 6, 0, 0.3, 0, 0.4), true},
		{"more_area", MoreArea(), left, inner, true},
		{"less_area", LessArea(), left, inner, false},
		{"same_width", SameWidth(0.01), left, right, true},
		{"same_height", SameHeight(0.01), left, right, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred(tt.a, tt.b))
		})
	}
}

func TestSizePredicates(t *testing.T) {
	b := NewBounds3DBox(0, 1, 0.25, 0.75, 0.25, 0.5)

	assert.True(t, WidthAtLeast(0.5)(b))
	assert.False(t, WidthAtMost(0.4)(b))
	assert.True(t, WidthBetween(0.4, 0.6)(b))
	assert.True(t, WidthExactly(0.5, 1e-9)(b))
	assert.True(t, HeightAtLeast(0.25)(b))
	assert.True(t, HeightAtMost(0.25)(b))
	assert.False(t, HeightBetween(0.3, 0.5)(b))
	assert.True(t, HeightExactly(0.25, 1e-9)(b))
	assert.True(t, AreaAtLeast(0.125)(b))
	assert.True(t, AreaAtMost(0.125)(b))
	assert.True(t, AreaBetween(0.1, 0.2)(b))
	assert.True(t, AreaExactly(0.125, 1e-9)(b))
}

func TestLogicalCombinators(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	positive := func(n int) bool { return n > 0 }

	assert.True(t, And[int](even, positive)(4))
	assert.False(t, And[int](even, positive)(-4))
	assert.True(t, And[int]()(7))
	assert.True(t, Or[int](even, positive)(-4))
	assert.False(t, Or[int]()(7))
	assert.True(t, Not[int](even)(3))
	assert.True(t, True[int]()(0))
	assert.False(t, False[int]()(0))

	less := func(a, b int) bool { return a < b }
	near := func(a, b int) bool { return b-a <= 2 }
	assert.True(t, And2[int](less, near)(1, 2))
	assert.False(t, And2[int](less, near)(1, 5))
	assert.True(t, Or2[int](less, near)(1, 5))
	assert.True(t, Not2[int](less)(3, 1))
	assert.True(t, True2[int]()(0, 0))
	assert.False(t, False2[int]()(0, 0))
}

func TestLifting(t *testing.T) {
	a := iv(0, 1, 2)
	b := iv(2, 3, 4)

	assert.True(t, OnBounds[int](Before())(a, b))
	assert.True(t, OnBoundsUnary[int](func(b Bounds) bool { return SizeOf(b, AxisT) == 1 })(a))
	assert.True(t, OnPayload[int](func(p int) bool { return p == 2 })(a))
	assert.True(t, OnPayloads[int](func(x, y int) bool { return x < y })(a, b))
}
