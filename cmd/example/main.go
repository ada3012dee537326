// Package main walks through the rekall interval algebra.
//
// Each section builds a small set of intervals and prints what one family
// of operators does with it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gitrdm/gorekall/pkg/csp"
	"github.com/gitrdm/gorekall/pkg/logger"
	"github.com/gitrdm/gorekall/pkg/rekall"
	"github.com/gitrdm/gorekall/pkg/runtime"
)

func main() {
	fmt.Println("=== rekall Examples ===")
	fmt.Println()

	log := logger.NewDefaultLogger(slog.LevelInfo)
	rekall.SetLogger(log)

	predicates()
	coalescing()
	subtraction()
	joins()
	patterns()
	batches(log)
}

func iv(t1, t2 float64, payload string) rekall.Interval[string] {
	return rekall.NewInterval[string](rekall.NewBounds1D(t1, t2), payload)
}

func box(t1, t2, x1, x2, y1, y2 float64, payload string) rekall.Interval[string] {
	return rekall.NewInterval[string](rekall.NewBounds3DBox(t1, t2, x1, x2, y1, y2), payload)
}

func printSet(s *rekall.IntervalSet[string]) {
	for _, i := range s.Intervals() {
		fmt.Printf("   %s %s\n", i.Bounds, i.Payload)
	}
}

// predicates shows temporal and spatial relations between two intervals.
func predicates() {
	fmt.Println("1. Predicates:")

	a := rekall.NewBounds3DBox(0, 10, 0.1, 0.3, 0.2, 0.4)
	b := rekall.NewBounds3DBox(12, 20, 0.5, 0.9, 0.1, 0.3)

	fmt.Printf("   before            => %v\n", rekall.Before()(a, b))
	fmt.Printf("   before max 1      => %v\n", rekall.Before(rekall.MaxDist(1))(a, b))
	fmt.Printf("   overlaps          => %v\n", rekall.Overlaps()(a, b))
	fmt.Printf("   left of           => %v\n", rekall.LeftOf()(a, b))
	fmt.Printf("   before along x    => %v\n", rekall.X(rekall.Before())(a, b))
	fmt.Println()
}

// coalescing merges overlapping and nearby intervals.
func coalescing() {
	fmt.Println("2. Coalesce:")

	speech := rekall.NewIntervalSet([]rekall.Interval[string]{
		iv(0, 4, "alice"), iv(3, 6, "alice"), iv(7, 9, "alice"), iv(20, 25, "alice"),
	})
	for _, eps := range []float64{0, 2} {
		merged, err := speech.Coalesce(rekall.AxisT, nil, nil, eps)
		if err != nil {
			fmt.Println("   error:", err)
			return
		}
		fmt.Printf("   epsilon %g => %d intervals\n", eps, merged.Len())
		printSet(merged)
	}
	fmt.Println()
}

// subtraction removes commercials from a broadcast.
func subtraction() {
	fmt.Println("3. Minus:")

	show := rekall.NewIntervalSet([]rekall.Interval[string]{iv(0, 60, "show")})
	ads := rekall.NewIntervalSet([]rekall.Interval[string]{iv(10, 15, "ad"), iv(14, 20, "ad"), iv(40, 45, "ad")})
	rest, err := show.Minus(ads)
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	printSet(rest)
	fmt.Println()
}

// joins pairs faces with the speech that overlaps them.
func joins() {
	fmt.Println("4. Join and Merge:")

	faces := rekall.NewIntervalSet([]rekall.Interval[string]{
		box(0, 5, 0.1, 0.3, 0.1, 0.5, "face"),
		box(30, 31, 0.6, 0.8, 0.1, 0.5, "face"),
	})
	speech := rekall.NewIntervalSet([]rekall.Interval[string]{
		rekall.NewInterval[string](rekall.NewBounds3D(2, 8), "speech"),
	})
	talking := faces.Merge(speech, rekall.OnBounds[string](rekall.Overlaps()), func(a, b string) string {
		return a + "+" + b
	}, rekall.WithBoundsCombiner(rekall.IntersectTimeSpanSpace))
	printSet(talking)

	silent, err := faces.Minus(speech)
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	fmt.Println("   faces without speech:")
	printSet(silent)
	fmt.Println()
}

// patterns finds two faces side by side in the same frame.
func patterns() {
	fmt.Println("5. Pattern Matching:")

	frame := rekall.NewIntervalSet([]rekall.Interval[string]{
		box(0, 1, 0.1, 0.3, 0.2, 0.5, "host"),
		box(0, 1, 0.6, 0.9, 0.2, 0.6, "guest"),
		box(0, 1, 0.4, 0.5, 0.7, 0.9, "caption"),
	})
	sideBySide := rekall.OnBounds[string](rekall.And2(rekall.LeftOf(), rekall.Not2(rekall.Or2(rekall.Above(), rekall.Below()))))
	pattern := []rekall.PatternEntry[string]{
		rekall.Node("left", rekall.OnBoundsUnary[string](rekall.HeightAtLeast(0.2))),
		rekall.Node("right", rekall.OnBoundsUnary[string](rekall.HeightAtLeast(0.2))),
		rekall.Edge("left", "right", sideBySide),
	}

	monitor := csp.NewSolverMonitor()
	sols, err := frame.MatchContext(context.Background(), pattern, rekall.MatchOptions{Monitor: monitor})
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	for _, sol := range sols {
		fmt.Printf("   %s is left of %s\n", sol["left"].Payload, sol["right"].Payload)
	}
	fmt.Printf("   %s\n", monitor.GetStats())
	fmt.Println()
}

// batches runs a query over many videos on the worker pool.
func batches(log *slog.Logger) {
	fmt.Println("6. Batched Runtime:")

	query := func(ctx context.Context, videos []int) (*rekall.IntervalSetMapping[int, string], error) {
		sets := make(map[int]*rekall.IntervalSet[string], len(videos))
		for _, v := range videos {
			if v == 13 {
				return nil, fmt.Errorf("video %d is corrupt", v)
			}
			sets[v] = rekall.NewIntervalSet([]rekall.Interval[string]{iv(float64(v), float64(v+10), "shot")})
		}
		return rekall.NewIntervalSetMapping(sets), nil
	}

	videos := make([]int, 40)
	for i := range videos {
		videos[i] = i
	}
	start := time.Now()
	rt := runtime.New(runtime.Options{Workers: 4, Logger: log})
	result, failed, err := runtime.Run(context.Background(), rt, query, videos,
		runtime.RunOptions[*rekall.IntervalSetMapping[int, string]]{ChunkSize: 5, Randomize: true})
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	fmt.Printf("   %d videos loaded, failed: %v (%v)\n", result.Len(), failed, time.Since(start).Round(time.Millisecond))
	fmt.Println()
}
