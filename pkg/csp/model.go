package csp

import (
	"fmt"
	"sync"
)

// Variable is a decision variable of a Model.
type Variable struct {
	id     int
	domain Domain
	name   string
}

// ID returns the variable's position in its model.
func (v *Variable) ID() int { return v.id }

// Domain returns the initial domain.
func (v *Variable) Domain() Domain { return v.domain }

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

func (v *Variable) String() string {
	return fmt.Sprintf("%s∈%s", v.name, v.domain)
}

// Constraint restricts the values variables can take together.
type Constraint interface {
	// Variables returns the variables the constraint reads.
	Variables() []*Variable

	// Type identifies the constraint kind.
	Type() string

	// Propagate prunes domains in state and returns the new state. It
	// returns an error when a domain would become empty or a complete
	// assignment is rejected.
	Propagate(solver *Solver, state *State) (*State, error)

	String() string
}

// Model is a constraint satisfaction problem: variables with finite domains
// and the constraints over them. Models are built sequentially and are
// read-only while a Solver runs.
type Model struct {
	mu          sync.RWMutex
	variables   []*Variable
	constraints []Constraint
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewVariable adds a variable with the given initial domain.
func (m *Model) NewVariable(domain Domain, name string) *Variable {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := &Variable{id: len(m.variables), domain: domain, name: name}
	if name == "" {
		v.name = fmt.Sprintf("v%d", v.id)
	}
	m.variables = append(m.variables, v)
	return v
}

// AddConstraint posts c to the model.
func (m *Model) AddConstraint(c Constraint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constraints = append(m.constraints, c)
}

// Variables returns the variables in creation order. The slice must not be
// modified.
func (m *Model) Variables() []*Variable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.variables
}

// VariableCount returns the number of variables.
func (m *Model) VariableCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.variables)
}

// Constraints returns the posted constraints. The slice must not be modified.
func (m *Model) Constraints() []Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.constraints
}

func (m *Model) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("Model{variables: %d, constraints: %d}", len(m.variables), len(m.constraints))
}

// Validate checks that the model is well-formed: every constraint refers to
// variables of this model.
func (m *Model) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.constraints {
		for _, v := range c.Variables() {
			if v.id < 0 || v.id >= len(m.variables) || m.variables[v.id] != v {
				return fmt.Errorf("constraint %s references unknown variable %s", c.Type(), v.name)
			}
		}
	}
	return nil
}
