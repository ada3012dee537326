package rekall_test

import (
	"fmt"

	"github.com/gitrdm/gorekall/pkg/rekall"
)

func ExampleIntervalSet_Coalesce() {
	shots := rekall.NewIntervalSet([]rekall.Interval[int]{
		rekall.NewInterval[int](rekall.NewBounds1D(0, 4), 1),
		rekall.NewInterval[int](rekall.NewBounds1D(3, 6), 1),
		rekall.NewInterval[int](rekall.NewBounds1D(10, 12), 1),
	})
	scenes, err := shots.Coalesce(rekall.AxisT, nil, rekall.PayloadPlus[int], 0)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, iv := range scenes.Intervals() {
		fmt.Println(iv)
	}
	// Output:
	// <Interval t:[0, 6] payload:2>
	// <Interval t:[10, 12] payload:1>
}

func ExampleIntervalSet_Minus() {
	speech := rekall.NewIntervalSet([]rekall.Interval[string]{
		rekall.NewInterval[string](rekall.NewBounds1D(0, 10), "anchor"),
	})
	ads := rekall.NewIntervalSet([]rekall.Interval[string]{
		rekall.NewInterval[string](rekall.NewBounds1D(2, 3), "ad"),
		rekall.NewInterval[string](rekall.NewBounds1D(6, 8), "ad"),
	})
	rest, err := speech.Minus(ads)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, iv := range rest.Intervals() {
		fmt.Println(iv)
	}
	// Output:
	// <Interval t:[0, 2] payload:anchor>
	// <Interval t:[3, 6] payload:anchor>
	// <Interval t:[8, 10] payload:anchor>
}

func ExampleIntervalSet_Match() {
	faces := rekall.NewIntervalSet([]rekall.Interval[string]{
		rekall.NewInterval[string](rekall.NewBounds3DBox(1, 1, 0.1, 0.4, 0.4, 0.8), "host"),
		rekall.NewInterval[string](rekall.NewBounds3DBox(1, 1, 0.6, 0.9, 0.3, 0.7), "guest"),
	})
	pattern := []rekall.PatternEntry[string]{
		rekall.Edge("left", "right",
			rekall.OnBounds[string](rekall.Equal()),
			rekall.OnBounds[string](rekall.LeftOf())),
	}
	solutions, err := faces.Match(pattern, true)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, sol := range solutions {
		fmt.Println(sol["left"].Payload, "is left of", sol["right"].Payload)
	}
	// Output:
	// host is left of guest
}

func ExampleCast() {
	a := rekall.NewBounds3DBox(0, 1, 0.1, 0.3, 0, 1)
	b := rekall.NewBounds3DBox(5, 6, 0.2, 0.6, 0, 1)
	fmt.Println(rekall.Overlaps()(a, b), rekall.X(rekall.Overlaps())(a, b))
	// Output:
	// false true
}
