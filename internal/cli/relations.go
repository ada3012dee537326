package cli

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/gitrdm/gorekall/pkg/rekall"
)

// relationParams carries the tolerances shared by the relation flags.
type relationParams struct {
	minDist float64
	maxDist float64 // negative means unbounded
	epsilon float64
}

func (p relationParams) distances() []rekall.DistanceOption {
	maxDist := p.maxDist
	if maxDist < 0 {
		maxDist = math.Inf(1)
	}
	return []rekall.DistanceOption{rekall.MinDist(p.minDist), rekall.MaxDist(maxDist)}
}

// reach is the window before and after need. A negative --min-dist lets b
// sit on the other side of a, so only an unbounded window is safe then.
func (p relationParams) reach() float64 {
	if p.maxDist < 0 || p.minDist < 0 {
		return math.Inf(1)
	}
	return p.maxDist
}

// relation is a named predicate together with the smallest window that
// keeps every pair it accepts.
type relation struct {
	pred   rekall.BinaryPredicate[rekall.Bounds]
	window float64
}

func touching(pred rekall.BinaryPredicate[rekall.Bounds]) func(relationParams) relation {
	return func(relationParams) relation { return relation{pred: pred} }
}

func within(pred func(epsilon float64) rekall.BinaryPredicate[rekall.Bounds]) func(relationParams) relation {
	return func(p relationParams) relation { return relation{pred: pred(p.epsilon), window: p.epsilon} }
}

func anywhere(pred rekall.BinaryPredicate[rekall.Bounds]) func(relationParams) relation {
	return func(relationParams) relation { return relation{pred: pred, window: math.Inf(1)} }
}

var relations = map[string]func(relationParams) relation{
	"overlaps":        touching(rekall.Overlaps()),
	"overlaps-before": touching(rekall.OverlapsBefore()),
	"overlaps-after":  touching(rekall.OverlapsAfter()),
	"before": func(p relationParams) relation {
		return relation{pred: rekall.Before(p.distances()...), window: p.reach()}
	},
	"after": func(p relationParams) relation {
		return relation{pred: rekall.After(p.distances()...), window: p.reach()}
	},
	"during":       touching(rekall.During()),
	"during-inv":   touching(rekall.DuringInv()),
	"starts":       within(rekall.Starts),
	"starts-inv":   within(rekall.StartsInv),
	"finishes":     within(rekall.Finishes),
	"finishes-inv": within(rekall.FinishesInv),
	"meets-before": within(rekall.MeetsBefore),
	"meets-after":  within(rekall.MeetsAfter),
	"equal":        touching(rekall.Equal()),
	"left-of":      anywhere(rekall.LeftOf()),
	"right-of":     anywhere(rekall.RightOf()),
	"above":        anywhere(rekall.Above()),
	"below":        anywhere(rekall.Below()),
	"inside":       anywhere(rekall.Inside()),
	"contains":     anywhere(rekall.Contains()),
	"same-area": func(p relationParams) relation {
		return relation{pred: rekall.SameArea(p.epsilon), window: math.Inf(1)}
	},
}

// relationNames lists the accepted --relation values.
func relationNames() []string {
	return slices.Sorted(maps.Keys(relations))
}

func lookupRelation(name string, p relationParams) (relation, error) {
	build, ok := relations[name]
	if !ok {
		return relation{}, NewExitError(ExitCommandError, fmt.Sprintf("unknown relation %q: must be one of %v", name, relationNames()))
	}
	return build(p), nil
}

// opOptions windows the operator by the relation's reach unless the
// configuration sets algebra.window.
func (r relation) opOptions(rootOpts *RootOptions) []rekall.OpOption {
	return append([]rekall.OpOption{rekall.WithWindow(r.window)}, rootOpts.Config.Algebra.OpOptions()...)
}
