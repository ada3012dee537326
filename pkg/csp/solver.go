package csp

// This file implements the backtracking solver with copy-on-write state.
//
// # State chain
//
// The Model is immutable during solving. Search state is a persistent chain
// of single-variable domain changes:
//
//	State3 -> x={5}     (parent: State2)
//	State2 -> y={2,3}   (parent: State1)
//	State1 -> z={1,2,3} (parent: nil)
//
// Constraints read domains with GetDomain and narrow them with SetDomain,
// which links a new node in O(1). Backtracking just drops nodes, so
// independent searches over the same Model never share mutable state.

import (
	"context"
	"fmt"
)

// ErrInconsistent is returned by propagators that empty a domain or reject
// a complete assignment.
var ErrInconsistent = fmt.Errorf("inconsistent constraint state")

// maxPropagationRounds bounds the fixed-point loop.
const maxPropagationRounds = 1000

// State is one node of the copy-on-write domain chain. A nil *State means
// every variable still has its initial domain.
type State struct {
	parent *State
	varID  int
	domain Domain
	depth  int
}

// Depth returns the number of domain changes from the root.
func (s *State) Depth() int {
	if s == nil {
		return 0
	}
	return s.depth
}

// Solver runs backtracking search with propagation over a Model. A Solver
// is not safe for concurrent use; create one per goroutine over a shared
// Model instead.
type Solver struct {
	model   *Model
	monitor *SolverMonitor
}

// NewSolver returns a solver for a fully built model.
func NewSolver(model *Model) *Solver {
	return &Solver{model: model}
}

// SetMonitor enables statistics collection.
func (s *Solver) SetMonitor(m *SolverMonitor) { s.monitor = m }

// GetDomain returns the current domain of varID in state.
func (s *Solver) GetDomain(state *State, varID int) Domain {
	for cur := state; cur != nil; cur = cur.parent {
		if cur.varID == varID {
			return cur.domain
		}
	}
	return s.model.variables[varID].domain
}

// SetDomain returns a state with varID narrowed to domain, and whether the
// domain changed. Unchanged domains return state itself.
func (s *Solver) SetDomain(state *State, varID int, domain Domain) (*State, bool) {
	if s.GetDomain(state, varID).Equal(domain) {
		return state, false
	}
	return &State{parent: state, varID: varID, domain: domain, depth: state.Depth() + 1}, true
}

// propagate runs every constraint until no domain changes.
func (s *Solver) propagate(state *State) (*State, error) {
	if s.monitor != nil {
		s.monitor.StartPropagation()
		defer s.monitor.EndPropagation()
	}
	constraints := s.model.Constraints()
	cur := state
	for round := 0; round < maxPropagationRounds; round++ {
		changed := false
		for _, c := range constraints {
			next, err := c.Propagate(s, cur)
			if err != nil {
				return nil, err
			}
			if next != cur {
				changed = true
				cur = next
			}
		}
		if !changed {
			return cur, nil
		}
	}
	return nil, fmt.Errorf("propagation failed to reach fixed-point after %d rounds", maxPropagationRounds)
}

// Solve returns up to maxSolutions assignments, or all of them when
// maxSolutions <= 0. Each solution holds one value per variable in creation
// order. A variable with an empty initial domain yields no solutions.
// Cancelling ctx stops the search and returns the solutions found so far
// together with ctx.Err().
func (s *Solver) Solve(ctx context.Context, maxSolutions int) ([][]int, error) {
	if err := s.model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	if s.monitor != nil {
		defer s.monitor.FinishSearch()
	}
	for _, v := range s.model.Variables() {
		if v.domain.Count() == 0 {
			return [][]int{}, nil
		}
	}

	root, err := s.propagate(nil)
	if err != nil {
		// Root-level inconsistency: no solutions.
		return [][]int{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	solutions := make([][]int, 0)
	s.search(ctx, root, &solutions, maxSolutions)
	return solutions, ctx.Err()
}

// search is depth-first with an explicit stack.
func (s *Solver) search(ctx context.Context, root *State, solutions *[][]int, maxSolutions int) {
	type frame struct {
		state  *State
		varID  int
		values []int
		next   int
	}

	record := func(state *State) bool {
		*solutions = append(*solutions, s.extractSolution(state))
		if s.monitor != nil {
			s.monitor.RecordSolution()
		}
		return maxSolutions > 0 && len(*solutions) >= maxSolutions
	}

	varID, values := s.selectVariable(root)
	if varID == -1 {
		record(root)
		return
	}
	stack := []*frame{{state: root, varID: varID, values: values}}

	for len(stack) > 0 {
		if ctx.Err() != nil {
			return
		}
		f := stack[len(stack)-1]
		if f.next >= len(f.values) {
			stack = stack[:len(stack)-1]
			if s.monitor != nil {
				s.monitor.RecordBacktrack()
			}
			continue
		}
		if s.monitor != nil {
			s.monitor.RecordNode()
			s.monitor.RecordDepth(len(stack))
		}

		value := f.values[f.next]
		f.next++
		domain := s.GetDomain(f.state, f.varID)
		assigned, _ := s.SetDomain(f.state, f.varID, NewBitSetDomainFromValues(domain.MaxValue(), []int{value}))
		state, err := s.propagate(assigned)
		if err != nil {
			continue
		}

		nextVar, nextValues := s.selectVariable(state)
		if nextVar == -1 {
			if record(state) {
				return
			}
			continue
		}
		stack = append(stack, &frame{state: state, varID: nextVar, values: nextValues})
	}
}

// selectVariable picks the unbound variable with the smallest domain, ties
// broken by creation order. It returns -1 when every variable is bound.
func (s *Solver) selectVariable(state *State) (int, []int) {
	best, bestCount := -1, 0
	var bestDomain Domain
	for i := 0; i < s.model.VariableCount(); i++ {
		d := s.GetDomain(state, i)
		n := d.Count()
		if n == 1 {
			continue
		}
		if best == -1 || n < bestCount {
			best, bestCount, bestDomain = i, n, d
		}
	}
	if best == -1 {
		return -1, nil
	}
	values := make([]int, 0, bestCount)
	bestDomain.IterateValues(func(v int) { values = append(values, v) })
	return best, values
}

func (s *Solver) extractSolution(state *State) []int {
	out := make([]int, s.model.VariableCount())
	for i := range out {
		out[i] = s.GetDomain(state, i).SingletonValue()
	}
	return out
}
