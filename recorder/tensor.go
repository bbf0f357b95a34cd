package recorder

import (
	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// TensorRecorder accumulates one Metric into a dense in-memory
// [timesteps x scenarios] grid, the core (always-available) recorder
// backend. Reference persistent backends (recorder/sqlrec,
// recorder/badgerrec) satisfy the same Recorder contract but are not
// imported by this package — persisting recorder output is the external
// collaborator spec.md §1 names as out of scope for the core engine.
type TensorRecorder struct {
	meta   Meta
	Metric Metric

	numScenarios int
	values       []float64 // row-major: [ts*numScenarios + scenario]
}

// NewTensorRecorder returns a TensorRecorder named name observing metric.
func NewTensorRecorder(name string, metric Metric) *TensorRecorder {
	return &TensorRecorder{meta: Meta{Name: name}, Metric: metric}
}

func (t *TensorRecorder) Meta() Meta { return t.meta }

// SetExtent implements Extentable.
func (t *TensorRecorder) SetExtent(numTimesteps, numScenarios int) {
	t.numScenarios = numScenarios
	t.values = make([]float64, numTimesteps*numScenarios)
}

func (t *TensorRecorder) Save(ts timestep.Timestep, sidx scenario.Index, ns state.NetworkState, pvalues []float64) error {
	v, err := t.Metric.Read(ns, pvalues)
	if err != nil {
		return err
	}
	idx := ts.Index*t.numScenarios + sidx.Index
	if idx >= len(t.values) {
		// SetExtent was never called (recorder used outside Model.Run, or
		// without a known extent) — grow on demand.
		grown := make([]float64, idx+1)
		copy(grown, t.values)
		t.values = grown
	}
	t.values[idx] = v
	return nil
}

// At returns the observation for (timestepIndex, scenarioIndex).
func (t *TensorRecorder) At(timestepIndex, scenarioIndex int) float64 {
	return t.values[timestepIndex*t.numScenarios+scenarioIndex]
}

// Values returns the full row-major backing slice. Callers must not
// mutate it.
func (t *TensorRecorder) Values() []float64 {
	return t.values
}
