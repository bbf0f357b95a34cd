package badgerrec

import (
	"reflect"
	"testing"

	"github.com/relloyd/pywr-go/recorder"
	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

func TestScenarioSeriesReturnsValuesInTimestepOrder(t *testing.T) {
	r, err := Open("output-flow", t.TempDir(), "run-1", recorder.Metric{Kind: recorder.NodeOutFlow, Index: 0})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	values := []float64{10, 20, 30}
	for i, v := range values {
		ns := state.NetworkState{Nodes: []state.NodeState{{OutFlow: v}}}
		if err := r.Save(timestep.Timestep{Index: i}, scenario.Index{Index: 0}, ns, nil); err != nil {
			t.Fatalf("Save[%d]: %v", i, err)
		}
	}
	// A second scenario's observations must not bleed into the first's series.
	otherNs := state.NetworkState{Nodes: []state.NodeState{{OutFlow: 999}}}
	if err := r.Save(timestep.Timestep{Index: 0}, scenario.Index{Index: 1}, otherNs, nil); err != nil {
		t.Fatalf("Save (other scenario): %v", err)
	}

	got, err := r.ScenarioSeries(0)
	if err != nil {
		t.Fatalf("ScenarioSeries: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("ScenarioSeries(0) = %v, want %v", got, values)
	}
}

func TestRecorderMeta(t *testing.T) {
	r, err := Open("output-flow", t.TempDir(), "run-1", recorder.Metric{Kind: recorder.NodeOutFlow, Index: 0})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	if r.Meta().Name != "output-flow" {
		t.Errorf("Meta().Name = %q, want %q", r.Meta().Name, "output-flow")
	}
}
