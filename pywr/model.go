// Package pywr is the model façade: it owns a network graph, parameter and
// recorder registries, and a scenario collection, and drives the per-
// timestep, per-scenario run loop that ties them together with a Solver.
package pywr

import (
	"time"

	"github.com/relloyd/pywr-go/modelerr"
	"github.com/relloyd/pywr-go/network"
	"github.com/relloyd/pywr-go/observe"
	"github.com/relloyd/pywr-go/param"
	"github.com/relloyd/pywr-go/pywrmetrics"
	"github.com/relloyd/pywr-go/recorder"
	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/solver"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// Model owns the full definition of a network flow simulation: its graph,
// its parameters, its recorders, and the scenario groups it will be
// replayed over.
type Model struct {
	Graph     *network.Graph
	Params    *param.Registry
	Recorders *recorder.Registry
	Scenarios *scenario.Collection
}

// New returns an empty Model ready for construction.
func New() *Model {
	return &Model{
		Graph:     network.NewGraph(),
		Params:    param.NewRegistry(),
		Recorders: recorder.NewRegistry(),
		Scenarios: scenario.NewCollection(),
	}
}

// Node construction, delegated to Graph.

func (m *Model) AddInputNode(name string) (network.NodeIndex, error) { return m.Graph.AddInputNode(name) }
func (m *Model) AddLinkNode(name string) (network.NodeIndex, error)  { return m.Graph.AddLinkNode(name) }
func (m *Model) AddOutputNode(name string) (network.NodeIndex, error) {
	return m.Graph.AddOutputNode(name)
}
func (m *Model) AddStorageNode(name string, initialVolume float64) (network.NodeIndex, error) {
	return m.Graph.AddStorageNode(name, initialVolume)
}

// Connect adds a directed edge between two already-declared nodes.
func (m *Model) Connect(from, to network.NodeIndex) (network.EdgeIndex, error) {
	return m.Graph.Connect(from, to)
}

// SetNodeConstraint binds a parameter to one of a node's flow/volume
// constraint slots.
func (m *Model) SetNodeConstraint(node network.NodeIndex, param network.ParameterIndex, kind network.ConstraintKind) error {
	return m.Graph.SetConstraint(node, &param, kind)
}

// ClearNodeConstraint unbinds a node's constraint slot.
func (m *Model) ClearNodeConstraint(node network.NodeIndex, kind network.ConstraintKind) error {
	return m.Graph.SetConstraint(node, nil, kind)
}

// SetNodeCost binds a node's cost parameter.
func (m *Model) SetNodeCost(node network.NodeIndex, param network.ParameterIndex) error {
	return m.Graph.SetCost(node, &param)
}

// AddParameter registers a parameter and returns its index.
func (m *Model) AddParameter(p param.Parameter) (int, error) {
	return m.Params.Add(p)
}

// AddRecorder registers a recorder and returns its index.
func (m *Model) AddRecorder(r recorder.Recorder) (int, error) {
	return m.Recorders.Add(r)
}

// AddScenarioGroup declares a named scenario axis.
func (m *Model) AddScenarioGroup(name string, size int) {
	m.Scenarios.AddGroup(name, size)
}

// RunOptions configures Model.Run's observability and concurrency.
type RunOptions struct {
	// RunID tags every emitted Event and metric sample. Defaults to "" if
	// unset.
	RunID string

	// MaxConcurrentScenarios bounds how many scenarios are solved in
	// parallel within one timestep. 0 or 1 means sequential (the default).
	// Scenarios are independent of each other but a scenario's own
	// timesteps must be solved in order, so concurrency is only ever
	// applied across scenarios within a single timestep.
	MaxConcurrentScenarios int

	// Emitter receives run-lifecycle and per-solve events. Defaults to a
	// NullEmitter.
	Emitter observe.Emitter

	// Metrics, if set, records solve latency and solver failure counts.
	Metrics *pywrmetrics.Metrics
}

// Run materializes the timestep sequence and the scenario enumeration,
// then advances every scenario through every timestep: evaluate
// parameters, solve, record, advance state. The first error from any
// stage aborts the run.
func (m *Model) Run(tsr *timestep.Timestepper, solv solver.Solver, opts RunOptions) error {
	emitter := opts.Emitter
	if emitter == nil {
		emitter = observe.NewNullEmitter()
	}

	timesteps := tsr.Timesteps()
	scenarios := m.Scenarios.Indices()
	numScenarios := len(scenarios)

	storageVolumes := make(map[int]float64)
	for i := range m.Graph.Nodes {
		n := &m.Graph.Nodes[i]
		if n.Role == network.Storage {
			storageVolumes[i] = n.InitialVolume
		}
	}

	m.Recorders.SetExtent(len(timesteps), numScenarios)

	if err := solv.Setup(m.Graph); err != nil {
		return modelerr.Wrap(modelerr.KindSolverSetupFailed, err.Error(), err)
	}

	emitter.Emit(observe.Event{RunID: opts.RunID, TimestepIndex: -1, ScenarioIndex: -1, Msg: "run_start"})

	states := make([]state.NetworkState, numScenarios)
	for i := range states {
		states[i] = state.New(len(m.Graph.Nodes), len(m.Graph.Edges), storageVolumes)
	}

	pool := newScenarioPool(opts.MaxConcurrentScenarios)

	for _, ts := range timesteps {
		if opts.Metrics != nil {
			opts.Metrics.SetActiveScenarios(min(numScenarios, pool.maxConcurrent))
		}

		err := pool.run(numScenarios, func(s int) error {
			return m.solveOne(ts, scenarios[s], &states[s], solv, opts, emitter)
		})
		if opts.Metrics != nil {
			opts.Metrics.SetActiveScenarios(0)
		}
		if err != nil {
			emitter.Emit(observe.Event{
				RunID: opts.RunID, TimestepIndex: ts.Index, ScenarioIndex: -1,
				Msg: "run_error", Meta: map[string]any{"error": err.Error()},
			})
			return err
		}
	}

	emitter.Emit(observe.Event{RunID: opts.RunID, TimestepIndex: -1, ScenarioIndex: -1, Msg: "run_complete"})
	return nil
}

// solveOne advances a single scenario by one timestep: evaluate
// parameters, solve, record, and write the next state back into states[s].
func (m *Model) solveOne(ts timestep.Timestep, sidx scenario.Index, current *state.NetworkState, solv solver.Solver, opts RunOptions, emitter observe.Emitter) error {
	pstate, err := m.Params.ComputeAll(ts, sidx, *current)
	if err != nil {
		return err
	}

	start := time.Now()
	next, err := solv.Solve(m.Graph, ts, *current, pstate.Values())
	if opts.Metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		opts.Metrics.RecordSolve(opts.RunID, time.Since(start), status)
	}
	if err != nil {
		if merr, ok := err.(*modelerr.Error); ok && opts.Metrics != nil {
			opts.Metrics.RecordSolverFailure(opts.RunID, string(merr.Kind))
		}
		return err
	}

	if err := m.Recorders.SaveAll(ts, sidx, next, pstate.Values()); err != nil {
		return err
	}

	emitter.Emit(observe.Event{
		RunID: opts.RunID, TimestepIndex: ts.Index, ScenarioIndex: sidx.Index, Msg: "solve_complete",
	})

	*current = next
	return nil
}
