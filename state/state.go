// Package state holds the per-scenario mutable snapshots that advance one
// timestep at a time: NetworkState (node/edge flows and storage volumes)
// and ParameterState (the ordered sequence of per-timestep parameter
// values). Only the solver's decode phase writes NetworkState; parameters
// and recorders only ever read it.
package state

import "github.com/relloyd/pywr-go/modelerr"

// NodeState is the per-node slot of a NetworkState. Rather than a Go sum
// type (which the language has no native support for), Storage-only
// Volume is carried alongside the flow fields every node has, with
// IsStorage distinguishing which reading is meaningful — the same shape
// spec.md describes as FlowState{in_flow,out_flow} vs.
// StorageState{volume,in_flow,out_flow}.
type NodeState struct {
	IsStorage bool
	InFlow    float64
	OutFlow   float64
	// Volume is meaningful only when IsStorage is true.
	Volume float64
}

// EdgeState is the per-edge slot of a NetworkState.
type EdgeState struct {
	Flow float64
}

// NetworkState is one scenario's snapshot of node and edge state at a
// point in the run. Length equals node/edge counts at the time of Run.
type NetworkState struct {
	Nodes []NodeState
	Edges []EdgeState
}

// New returns a NetworkState sized for numNodes/numEdges, with all flow
// counters zero and storage flags/initial volumes as given by
// storageVolumes (a sparse map from node index to its declared initial
// volume; absent entries default to a non-storage FlowState).
func New(numNodes, numEdges int, storageVolumes map[int]float64) NetworkState {
	nodes := make([]NodeState, numNodes)
	for idx, vol := range storageVolumes {
		nodes[idx] = NodeState{IsStorage: true, Volume: vol}
	}
	return NetworkState{
		Nodes: nodes,
		Edges: make([]EdgeState, numEdges),
	}
}

// Clone returns a deep copy safe to decode a new solution into without
// disturbing the state a concurrently-running scenario may still hold a
// reference to.
func (s NetworkState) Clone() NetworkState {
	nodes := make([]NodeState, len(s.Nodes))
	copy(nodes, s.Nodes)
	edges := make([]EdgeState, len(s.Edges))
	copy(edges, s.Edges)
	return NetworkState{Nodes: nodes, Edges: edges}
}

// NodeInFlow returns the in-flow recorded at node idx.
func (s NetworkState) NodeInFlow(idx int) (float64, error) {
	if idx < 0 || idx >= len(s.Nodes) {
		return 0, modelerr.New(modelerr.KindNodeIndexNotFound)
	}
	return s.Nodes[idx].InFlow, nil
}

// NodeOutFlow returns the out-flow recorded at node idx.
func (s NetworkState) NodeOutFlow(idx int) (float64, error) {
	if idx < 0 || idx >= len(s.Nodes) {
		return 0, modelerr.New(modelerr.KindNodeIndexNotFound)
	}
	return s.Nodes[idx].OutFlow, nil
}

// NodeVolume returns the storage volume recorded at node idx (meaningful
// only for Storage nodes; zero for others).
func (s NetworkState) NodeVolume(idx int) (float64, error) {
	if idx < 0 || idx >= len(s.Nodes) {
		return 0, modelerr.New(modelerr.KindNodeIndexNotFound)
	}
	return s.Nodes[idx].Volume, nil
}

// EdgeFlow returns the flow recorded on edge idx.
func (s NetworkState) EdgeFlow(idx int) (float64, error) {
	if idx < 0 || idx >= len(s.Edges) {
		return 0, modelerr.New(modelerr.KindNodeIndexNotFound)
	}
	return s.Edges[idx].Flow, nil
}

// ParameterState is the ordered sequence of scalar parameter values
// computed so far within one (timestep, scenario) evaluation. Length
// equals parameter count at Run start once evaluation completes; during
// evaluation a parameter at position k may only read positions [0, k).
type ParameterState struct {
	values []float64
}

// NewParameterState returns an empty ParameterState with capacity hinted
// by the number of registered parameters.
func NewParameterState(capacity int) *ParameterState {
	return &ParameterState{values: make([]float64, 0, capacity)}
}

// Push appends the next parameter's computed value.
func (p *ParameterState) Push(v float64) {
	p.values = append(p.values, v)
}

// Len returns the number of values computed so far.
func (p *ParameterState) Len() int {
	return len(p.values)
}

// Get returns the value at idx, failing if idx has not been computed yet
// (idx >= current length) or is negative.
func (p *ParameterState) Get(idx int) (float64, error) {
	if idx < 0 || idx >= len(p.values) {
		return 0, modelerr.New(modelerr.KindParameterIndexNotFound)
	}
	return p.values[idx], nil
}

// Values returns the full computed slice. Callers must not mutate it.
func (p *ParameterState) Values() []float64 {
	return p.values
}
