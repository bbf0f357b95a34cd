// Package param implements the parameter registry: an ordered list of
// named, lazily-evaluated scalar producers. A parameter at position k may
// only read the values already computed at positions [0, k) — evaluation
// order is declaration order, and that ordering dependency is a
// lightweight topological precondition parameter authors encode by
// construction order, avoiding a cycle detector in the inner loop.
package param

import (
	"github.com/relloyd/pywr-go/modelerr"
	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// Meta describes a parameter for lookup and diagnostics.
type Meta struct {
	Name string
}

// Parameter is the external contract every scalar producer must satisfy,
// whether built-in (Constant, Vector, Aggregated) or user-supplied
// (External, or any custom type).
type Parameter interface {
	Meta() Meta
	// Compute returns this parameter's value for one (timestep, scenario).
	// prior holds every value computed earlier in this timestep/scenario's
	// evaluation, i.e. positions [0, this parameter's index).
	Compute(ts timestep.Timestep, sidx scenario.Index, ns state.NetworkState, prior *state.ParameterState) (float64, error)
}

// Registry is the ordered, name-unique collection of parameters owned by a
// Model.
type Registry struct {
	params []Parameter
	byName map[string]int
}

// NewRegistry returns an empty parameter registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// IndexByName returns the index of the parameter with the given name.
func (r *Registry) IndexByName(name string) (int, error) {
	idx, ok := r.byName[name]
	if !ok {
		return 0, modelerr.New(modelerr.KindParameterIndexNotFound)
	}
	return idx, nil
}

// Get returns the parameter at idx.
func (r *Registry) Get(idx int) (Parameter, error) {
	if idx < 0 || idx >= len(r.params) {
		return nil, modelerr.New(modelerr.KindParameterIndexNotFound)
	}
	return r.params[idx], nil
}

// Len returns the number of registered parameters.
func (r *Registry) Len() int {
	return len(r.params)
}

// All returns the registered parameters in declaration order. Callers must
// not mutate the returned slice.
func (r *Registry) All() []Parameter {
	return r.params
}

// Add appends p to the registry, failing if its name collides with an
// existing parameter, or — for an *Aggregated parameter — if it
// references a child index at or after its own about-to-be-assigned
// index (spec.md §4.2: "referenced indices must be strictly less than
// this parameter's own index").
func (r *Registry) Add(p Parameter) (int, error) {
	name := p.Meta().Name
	if existing, ok := r.byName[name]; ok {
		return 0, modelerr.NewNamed(modelerr.KindParameterNameExists, name, existing)
	}

	newIndex := len(r.params)
	if agg, ok := p.(*Aggregated); ok {
		for _, childIdx := range agg.ChildIndices {
			if childIdx >= newIndex {
				return 0, modelerr.NewNamed(modelerr.KindParameterForwardRef, name, childIdx)
			}
		}
	}

	r.params = append(r.params, p)
	r.byName[name] = newIndex
	return newIndex, nil
}

// ComputeAll evaluates every registered parameter in declaration order for
// one (timestep, scenario), returning the fully-populated ParameterState
// or the first error encountered.
func (r *Registry) ComputeAll(ts timestep.Timestep, sidx scenario.Index, ns state.NetworkState) (*state.ParameterState, error) {
	pstate := state.NewParameterState(len(r.params))
	for _, p := range r.params {
		v, err := p.Compute(ts, sidx, ns, pstate)
		if err != nil {
			return nil, err
		}
		pstate.Push(v)
	}
	return pstate, nil
}
