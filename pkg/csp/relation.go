package csp

import (
	"fmt"
	"slices"
)

// Relation constrains its variables with an arbitrary test over their
// values, given in the order of Variables. Once every variable but one is
// bound, the free variable's domain is pruned to the values the test
// accepts; a complete assignment the test rejects fails.
type Relation struct {
	name      string
	variables []*Variable
	accept    func(values []int) bool
}

// NewRelation returns a Relation named name over variables.
func NewRelation(name string, variables []*Variable, accept func(values []int) bool) (*Relation, error) {
	if len(variables) == 0 {
		return nil, fmt.Errorf("relation %q requires at least one variable", name)
	}
	if accept == nil {
		return nil, fmt.Errorf("relation %q has no test", name)
	}
	return &Relation{name: name, variables: slices.Clone(variables), accept: accept}, nil
}

func (r *Relation) Variables() []*Variable { return r.variables }

func (r *Relation) Type() string { return "Relation" }

func (r *Relation) String() string {
	names := make([]string, len(r.variables))
	for i, v := range r.variables {
		names[i] = v.Name()
	}
	return fmt.Sprintf("%s(%v)", r.name, names)
}

func (r *Relation) Propagate(solver *Solver, state *State) (*State, error) {
	values := make([]int, len(r.variables))
	free := -1
	for i, v := range r.variables {
		d := solver.GetDomain(state, v.ID())
		switch {
		case d.Count() == 0:
			return nil, fmt.Errorf("%w: %s has empty %s", ErrInconsistent, r, v.Name())
		case d.IsSingleton():
			values[i] = d.SingletonValue()
		case free >= 0:
			// Two or more unbound: nothing to infer yet.
			return state, nil
		default:
			free = i
		}
	}

	if free < 0 {
		if !r.accept(values) {
			return nil, fmt.Errorf("%w: %s rejected %v", ErrInconsistent, r, values)
		}
		return state, nil
	}

	v := r.variables[free]
	d := solver.GetDomain(state, v.ID())
	var keep []int
	d.IterateValues(func(val int) {
		values[free] = val
		if r.accept(values) {
			keep = append(keep, val)
		}
	})
	if len(keep) == 0 {
		return nil, fmt.Errorf("%w: %s leaves no value for %s", ErrInconsistent, r, v.Name())
	}
	next, _ := solver.SetDomain(state, v.ID(), NewBitSetDomainFromValues(d.MaxValue(), keep))
	return next, nil
}
