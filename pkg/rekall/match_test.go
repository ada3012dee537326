package rekall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gorekall/pkg/csp"
)

var (
	leftBox        = box(1, 1, 0.1, 0.4, 0.4, 0.8, 0)
	rightBox       = box(1, 1, 0.6, 0.9, 0.3, 0.7, 0)
	bottomLeftBox  = box(2, 2, 0.1, 0.3, 0.8, 0.9, 0)
	topRightBox    = box(2, 2, 0.5, 0.7, 0.2, 0.7, 0)
	sideBySideEdge = Edge("left", "right", OnBounds[int](Equal()), OnBounds[int](LeftOf()))
)

func TestMatch_Exact(t *testing.T) {
	s := NewIntervalSet([]Interval[int]{leftBox, rightBox, bottomLeftBox, topRightBox})
	pattern := []PatternEntry[int]{
		sideBySideEdge,
		Edge("top", "bottom", OnBounds[int](Equal()), OnBounds[int](Above())),
		Edge("left", "top", OnBounds[int](MeetsBefore(1))),
	}

	got, err := s.Match(pattern, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, leftBox, got[0]["left"])
	assert.Equal(t, rightBox, got[0]["right"])
	assert.Equal(t, topRightBox, got[0]["top"])
	assert.Equal(t, bottomLeftBox, got[0]["bottom"])
}

func TestMatch_MultipleSolutions(t *testing.T) {
	s := NewIntervalSet([]Interval[int]{
		leftBox, rightBox, bottomLeftBox, topRightBox,
		NewInterval[int](NewBounds3D(3, 3), 0),
	})

	got, err := s.Match([]PatternEntry[int]{sideBySideEdge}, false)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	tall := OnBoundsUnary[int](HeightAtLeast(0.3))
	got, err = s.Match([]PatternEntry[int]{
		sideBySideEdge,
		Node("left", tall),
		Node("right", tall),
	}, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, leftBox, got[0]["left"])
	assert.Equal(t, rightBox, got[0]["right"])
}

func TestMatch_EdgeCases(t *testing.T) {
	s := NewIntervalSet([]Interval[int]{leftBox, rightBox, bottomLeftBox})

	t.Run("exact with too few variables", func(t *testing.T) {
		got, err := s.Match([]PatternEntry[int]{sideBySideEdge}, true)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty pattern", func(t *testing.T) {
		got, err := s.Match(nil, false)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("entry without names", func(t *testing.T) {
		_, err := s.Match([]PatternEntry[int]{{}}, false)
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})

	t.Run("unsatisfiable node", func(t *testing.T) {
		got, err := s.Match([]PatternEntry[int]{Node("x", False[Interval[int]]())}, false)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("more variables than intervals", func(t *testing.T) {
		got, err := s.Match([]PatternEntry[int]{
			Hyper[int]([]string{"a", "b", "c", "d"}),
		}, false)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("variables are distinct", func(t *testing.T) {
		got, err := s.Match([]PatternEntry[int]{Node[int]("a"), Node[int]("b")}, false)
		require.NoError(t, err)
		assert.Len(t, got, 6)
		for _, sol := range got {
			assert.NotEqual(t, sol["a"], sol["b"])
		}
	})
}

func TestMatchFirst(t *testing.T) {
	s := NewIntervalSet([]Interval[int]{leftBox, rightBox, bottomLeftBox, topRightBox})

	sol, ok, err := s.MatchFirst([]PatternEntry[int]{sideBySideEdge})
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, LeftOf()(sol["left"].Bounds, sol["right"].Bounds))

	_, ok, err = s.MatchFirst([]PatternEntry[int]{Edge("a", "b", OnBounds[int](During()))})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchContext(t *testing.T) {
	s := NewIntervalSet([]Interval[int]{leftBox, rightBox, bottomLeftBox, topRightBox})
	pattern := []PatternEntry[int]{Node[int]("a"), Node[int]("b")}

	monitor := csp.NewSolverMonitor()
	got, err := s.MatchContext(context.Background(), pattern, MatchOptions{MaxSolutions: 3, Monitor: monitor})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 3, monitor.GetStats().SolutionsFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.MatchContext(ctx, pattern, MatchOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatch_Hyper(t *testing.T) {
	s := set1D(span{0, 1, 1}, span{1, 2, 2}, span{2, 3, 3}, span{5, 6, 4})
	chain := Hyper([]string{"a", "b", "c"}, func(ivs []Interval[int]) bool {
		return MeetsBefore(0)(ivs[0].Bounds, ivs[1].Bounds) && MeetsBefore(0)(ivs[1].Bounds, ivs[2].Bounds)
	})

	got, err := s.Match([]PatternEntry[int]{chain}, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0]["a"].Payload, got[0]["b"].Payload, got[0]["c"].Payload})
}
