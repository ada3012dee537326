package csp

import (
	"fmt"
	"slices"
)

// AllDifferent requires its variables to take pairwise distinct values.
//
// Propagation removes every bound value from the other domains, then checks
// with a maximum bipartite matching that distinct values can still be
// assigned to all variables:
//
//	X,Y,Z ∈ {1,2}: no complete matching, fails without search
type AllDifferent struct {
	variables []*Variable
}

// NewAllDifferent returns an AllDifferent over variables.
func NewAllDifferent(variables []*Variable) (*AllDifferent, error) {
	if len(variables) == 0 {
		return nil, fmt.Errorf("AllDifferent requires at least one variable")
	}
	return &AllDifferent{variables: slices.Clone(variables)}, nil
}

func (c *AllDifferent) Variables() []*Variable { return c.variables }

func (c *AllDifferent) Type() string { return "AllDifferent" }

func (c *AllDifferent) String() string {
	ids := make([]int, len(c.variables))
	for i, v := range c.variables {
		ids[i] = v.ID()
	}
	return fmt.Sprintf("AllDifferent(%v)", ids)
}

func (c *AllDifferent) Propagate(solver *Solver, state *State) (*State, error) {
	n := len(c.variables)
	domains := make([]Domain, n)
	maxVal := 0
	for i, v := range c.variables {
		domains[i] = solver.GetDomain(state, v.ID())
		maxVal = max(maxVal, domains[i].MaxValue())
	}

	// Bound values are taken. Repeat until no new singleton appears.
	cur := state
	for changed := true; changed; {
		changed = false
		for i, d := range domains {
			if d.Count() == 0 {
				return nil, fmt.Errorf("%w: %s emptied %s", ErrInconsistent, c, c.variables[i].Name())
			}
			if !d.IsSingleton() {
				continue
			}
			val := d.SingletonValue()
			for j := range domains {
				if j == i || !domains[j].Has(val) {
					continue
				}
				domains[j] = domains[j].Remove(val)
				if domains[j].Count() == 0 {
					return nil, fmt.Errorf("%w: %s emptied %s", ErrInconsistent, c, c.variables[j].Name())
				}
				cur, _ = solver.SetDomain(cur, c.variables[j].ID(), domains[j])
				changed = true
			}
		}
	}

	if size := maxMatching(domains, maxVal); size < n {
		return nil, fmt.Errorf("%w: %s has no complete matching (size=%d, need=%d)", ErrInconsistent, c, size, n)
	}
	return cur, nil
}

// maxMatching returns the size of a maximum matching between variables and
// values, using augmenting paths.
func maxMatching(domains []Domain, maxVal int) int {
	matchVal := make([]int, maxVal+1)
	for i := range matchVal {
		matchVal[i] = -1
	}

	// Smallest domains first find free values sooner.
	order := make([]int, len(domains))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return domains[a].Count() - domains[b].Count() })

	matched := 0
	visited := make([]bool, maxVal+1)
	for _, vi := range order {
		clear(visited)
		if augment(vi, domains, matchVal, visited) {
			matched++
		}
	}
	return matched
}

func augment(vi int, domains []Domain, matchVal []int, visited []bool) bool {
	found := false
	domains[vi].IterateValues(func(val int) {
		if found || visited[val] {
			return
		}
		visited[val] = true
		if matchVal[val] == -1 || augment(matchVal[val], domains, matchVal, visited) {
			matchVal[val] = vi
			found = true
		}
	})
	return found
}
