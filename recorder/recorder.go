// Package recorder implements the recorder registry: an ordered list of
// named sinks that observe (timestep, scenario, network state, parameter
// values) after the solver completes each scenario's timestep.
package recorder

import (
	"github.com/relloyd/pywr-go/modelerr"
	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// Meta describes a recorder for lookup and diagnostics.
type Meta struct {
	Name string
}

// Recorder is the external contract every observation sink must satisfy.
type Recorder interface {
	Meta() Meta
	Save(ts timestep.Timestep, sidx scenario.Index, ns state.NetworkState, pvalues []float64) error
}

// Extentable is an optional Recorder capability: a recorder that
// pre-sizes its storage once the run loop knows the total timestep and
// scenario counts (called once, before the first Save). Recorders that
// accumulate into a dense [timesteps x scenarios] tensor implement this;
// recorders with no fixed shape (e.g. a streaming SQL sink) need not.
type Extentable interface {
	SetExtent(numTimesteps, numScenarios int)
}

// Registry is the ordered, name-unique collection of recorders owned by a
// Model.
type Registry struct {
	recorders []Recorder
	byName    map[string]int
}

// NewRegistry returns an empty recorder registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// IndexByName returns the index of the recorder with the given name.
func (r *Registry) IndexByName(name string) (int, error) {
	idx, ok := r.byName[name]
	if !ok {
		return 0, modelerr.New(modelerr.KindRecorderIndexNotFound)
	}
	return idx, nil
}

// Get returns the recorder at idx.
func (r *Registry) Get(idx int) (Recorder, error) {
	if idx < 0 || idx >= len(r.recorders) {
		return nil, modelerr.New(modelerr.KindRecorderIndexNotFound)
	}
	return r.recorders[idx], nil
}

// Len returns the number of registered recorders.
func (r *Registry) Len() int {
	return len(r.recorders)
}

// All returns the registered recorders in declaration order. Callers must
// not mutate the returned slice.
func (r *Registry) All() []Recorder {
	return r.recorders
}

// Add appends rec to the registry, failing if its name collides with an
// existing recorder.
func (r *Registry) Add(rec Recorder) (int, error) {
	name := rec.Meta().Name
	if existing, ok := r.byName[name]; ok {
		return 0, modelerr.NewNamed(modelerr.KindRecorderNameExists, name, existing)
	}
	idx := len(r.recorders)
	r.recorders = append(r.recorders, rec)
	r.byName[name] = idx
	return idx, nil
}

// SetExtent informs every Extentable recorder of the run's total
// timestep/scenario counts, called once by the model façade before the
// first timestep is solved.
func (r *Registry) SetExtent(numTimesteps, numScenarios int) {
	for _, rec := range r.recorders {
		if ext, ok := rec.(Extentable); ok {
			ext.SetExtent(numTimesteps, numScenarios)
		}
	}
}

// SaveAll invokes every registered recorder, in declaration order, for one
// (timestep, scenario) observation. The first error aborts the call.
func (r *Registry) SaveAll(ts timestep.Timestep, sidx scenario.Index, ns state.NetworkState, pvalues []float64) error {
	for _, rec := range r.recorders {
		if err := rec.Save(ts, sidx, ns, pvalues); err != nil {
			return err
		}
	}
	return nil
}
