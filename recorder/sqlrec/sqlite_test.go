package sqlrec

import (
	"path/filepath"
	"testing"

	"github.com/relloyd/pywr-go/recorder"
	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

func TestSQLiteRecorderSavesAndReplacesObservations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observations.db")
	r, err := NewSQLiteRecorder("output-flow", path, "run-1", recorder.Metric{Kind: recorder.NodeOutFlow, Index: 0})
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	ns := state.NetworkState{Nodes: []state.NodeState{{OutFlow: 10}}}
	if err := r.Save(timestep.Timestep{Index: 0}, scenario.Index{Index: 0}, ns, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var value float64
	row := r.db.QueryRow(`SELECT value FROM observations WHERE run_id = ? AND timestep_index = ? AND scenario_index = ? AND recorder_name = ?`,
		"run-1", 0, 0, "output-flow")
	if err := row.Scan(&value); err != nil {
		t.Fatalf("querying saved observation: %v", err)
	}
	if value != 10 {
		t.Errorf("saved value = %v, want 10", value)
	}

	ns.Nodes[0].OutFlow = 12
	if err := r.Save(timestep.Timestep{Index: 0}, scenario.Index{Index: 0}, ns, nil); err != nil {
		t.Fatalf("Save (replace): %v", err)
	}
	row = r.db.QueryRow(`SELECT value FROM observations WHERE run_id = ? AND timestep_index = ? AND scenario_index = ? AND recorder_name = ?`,
		"run-1", 0, 0, "output-flow")
	if err := row.Scan(&value); err != nil {
		t.Fatalf("querying replaced observation: %v", err)
	}
	if value != 12 {
		t.Errorf("replaced value = %v, want 12", value)
	}
}

func TestSQLiteRecorderMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observations.db")
	r, err := NewSQLiteRecorder("output-flow", path, "run-1", recorder.Metric{Kind: recorder.NodeOutFlow, Index: 0})
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	if r.Meta().Name != "output-flow" {
		t.Errorf("Meta().Name = %q, want %q", r.Meta().Name, "output-flow")
	}
}
