// Package solver defines the pluggable LP-solve contract a Model delegates
// each (timestep, scenario) solve to (spec.md §4.5/§6). The core engine
// depends only on this interface; solver/refsolver supplies a reference
// implementation, and a production deployment may substitute a faster LP
// backend without touching network/param/recorder/pywr.
package solver

import (
	"github.com/relloyd/pywr-go/network"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// Solver is the external contract spec.md §6 names "the LP backend". Setup
// is called once per run, after the graph is finalized and before the first
// timestep; it gives the backend a chance to precompute anything that does
// not vary by timestep (e.g. a fixed constraint-matrix sparsity pattern).
// Solve is called once per (timestep, scenario): it receives the graph, the
// evaluated parameter values for this timestep/scenario, and the network
// state the previous timestep left behind (storage volumes carry forward;
// flows do not), and must return the next NetworkState with every edge's
// flow and every node's in/out-flow (and, for Storage nodes, volume)
// decoded from the LP solution.
type Solver interface {
	Setup(g *network.Graph) error
	Solve(g *network.Graph, ts timestep.Timestep, current state.NetworkState, pvalues []float64) (state.NetworkState, error)
}

// ConstraintValue resolves a node's optional constraint parameter binding
// against this timestep's computed parameter values, returning fallback
// when the node has no parameter bound to that slot. Reference and
// third-party Solver implementations share this helper since the binding
// convention (nil means "no constraint") is part of the contract, not an
// implementation detail of any one backend.
func ConstraintValue(param *network.ParameterIndex, pvalues []float64, fallback float64) float64 {
	if param == nil {
		return fallback
	}
	idx := int(*param)
	if idx < 0 || idx >= len(pvalues) {
		return fallback
	}
	return pvalues[idx]
}
