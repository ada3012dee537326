package rekall

import (
	"context"
	"fmt"

	"github.com/gitrdm/gorekall/pkg/csp"
)

// PatternEntry constrains the intervals bound to Names. Each predicate
// receives those intervals in the order of Names.
type PatternEntry[P any] struct {
	Names      []string
	Predicates []func(ivs []Interval[P]) bool
}

// Node constrains a single variable.
func Node[P any](name string, preds ...Predicate[Interval[P]]) PatternEntry[P] {
	e := PatternEntry[P]{Names: []string{name}}
	for _, p := range preds {
		e.Predicates = append(e.Predicates, func(ivs []Interval[P]) bool { return p(ivs[0]) })
	}
	return e
}

// Edge constrains an ordered pair of variables.
func Edge[P any](a, b string, preds ...BinaryPredicate[Interval[P]]) PatternEntry[P] {
	e := PatternEntry[P]{Names: []string{a, b}}
	for _, p := range preds {
		e.Predicates = append(e.Predicates, func(ivs []Interval[P]) bool { return p(ivs[0], ivs[1]) })
	}
	return e
}

// Hyper constrains any number of variables at once.
func Hyper[P any](names []string, preds ...func(ivs []Interval[P]) bool) PatternEntry[P] {
	return PatternEntry[P]{Names: names, Predicates: preds}
}

// Solution maps every pattern variable to the interval assigned to it.
type Solution[P any] map[string]Interval[P]

// MatchOptions tunes MatchContext.
type MatchOptions struct {
	// Exact requires the pattern to name exactly as many variables as the
	// set has intervals.
	Exact bool

	// MaxSolutions stops the search after this many solutions. Zero means
	// all of them.
	MaxSolutions int

	// Monitor, when set, collects search statistics.
	Monitor *csp.SolverMonitor
}

// Match returns every assignment of distinct intervals of s to the pattern's
// variables that satisfies all of its predicates.
func (s *IntervalSet[P]) Match(pattern []PatternEntry[P], exact bool) ([]Solution[P], error) {
	return s.MatchContext(context.Background(), pattern, MatchOptions{Exact: exact})
}

// MatchFirst returns the first solution found, if any.
func (s *IntervalSet[P]) MatchFirst(pattern []PatternEntry[P]) (Solution[P], bool, error) {
	sols, err := s.MatchContext(context.Background(), pattern, MatchOptions{MaxSolutions: 1})
	if err != nil || len(sols) == 0 {
		return nil, false, err
	}
	return sols[0], true, nil
}

// MatchContext is Match with cancellation and search limits.
//
// Variables are named in order of first appearance. Entries naming a single
// variable narrow its candidates up front; a variable left with no
// candidates, or an empty pattern, yields no solutions and no error. An
// entry without names returns ErrInvalidPattern.
func (s *IntervalSet[P]) MatchContext(ctx context.Context, pattern []PatternEntry[P], opts MatchOptions) ([]Solution[P], error) {
	var names []string
	index := map[string]int{}
	unary := map[string][]func([]Interval[P]) bool{}
	var multi []PatternEntry[P]
	for i, entry := range pattern {
		if len(entry.Names) == 0 {
			return nil, fmt.Errorf("%w: entry %d names no variables", ErrInvalidPattern, i)
		}
		for _, n := range entry.Names {
			if _, ok := index[n]; !ok {
				index[n] = len(names)
				names = append(names, n)
			}
		}
		if len(entry.Names) == 1 {
			unary[entry.Names[0]] = append(unary[entry.Names[0]], entry.Predicates...)
		} else {
			multi = append(multi, entry)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	if opts.Exact && len(names) != len(s.intervals) {
		return nil, nil
	}

	model := csp.NewModel()
	vars := make([]*csp.Variable, len(names))
	for i, name := range names {
		var candidates []int
		for j, iv := range s.intervals {
			if satisfiesAll(unary[name], []Interval[P]{iv}) {
				candidates = append(candidates, j+1)
			}
		}
		if len(candidates) == 0 {
			tracef("match: variable %q has no candidates", name)
			return nil, nil
		}
		vars[i] = model.NewVariable(csp.NewBitSetDomainFromValues(len(s.intervals), candidates), name)
	}

	distinct, err := csp.NewAllDifferent(vars)
	if err != nil {
		return nil, err
	}
	model.AddConstraint(distinct)
	for _, entry := range multi {
		scope := make([]*csp.Variable, len(entry.Names))
		for i, n := range entry.Names {
			scope[i] = vars[index[n]]
		}
		preds := entry.Predicates
		rel, err := csp.NewRelation(fmt.Sprint(entry.Names), scope, func(values []int) bool {
			ivs := make([]Interval[P], len(values))
			for i, v := range values {
				ivs[i] = s.intervals[v-1]
			}
			return satisfiesAll(preds, ivs)
		})
		if err != nil {
			return nil, err
		}
		model.AddConstraint(rel)
	}

	solver := csp.NewSolver(model)
	if opts.Monitor != nil {
		solver.SetMonitor(opts.Monitor)
	}
	raw, err := solver.Solve(ctx, opts.MaxSolutions)
	tracef("match: %d variables over %d intervals, %d solutions", len(names), len(s.intervals), len(raw))

	out := make([]Solution[P], 0, len(raw))
	for _, assignment := range raw {
		sol := make(Solution[P], len(names))
		for i, v := range assignment {
			sol[names[i]] = s.intervals[v-1]
		}
		out = append(out, sol)
	}
	return out, err
}

func satisfiesAll[P any](preds []func([]Interval[P]) bool, ivs []Interval[P]) bool {
	for _, p := range preds {
		if !p(ivs) {
			return false
		}
	}
	return true
}
