package refsolver

import (
	"errors"

	"github.com/relloyd/pywr-go/modelerr"
	"github.com/relloyd/pywr-go/network"
	"github.com/relloyd/pywr-go/solver"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// Solver is the reference solver.Solver: it rebuilds a fresh LP for every
// (timestep, scenario) solve rather than caching a sparsity pattern across
// calls, trading reuse for a straightforward, clearly-correct translation
// from graph to tableau. A production backend that needs to amortize setup
// cost across solves should do so behind its own Setup implementation.
type Solver struct{}

// New returns a ready-to-use reference solver.
func New() *Solver {
	return &Solver{}
}

// Setup performs no precomputation: this reference implementation has
// nothing to cache between solves.
func (s *Solver) Setup(g *network.Graph) error {
	return nil
}

// Solve translates the graph, current state and evaluated parameter values
// into an LP (one non-negative variable per edge), solves it, and decodes
// the result into the next NetworkState.
func (s *Solver) Solve(g *network.Graph, ts timestep.Timestep, current state.NetworkState, pvalues []float64) (state.NetworkState, error) {
	n := len(g.Edges)
	p := newLP(n)

	for i := range g.Nodes {
		node := &g.Nodes[i]
		switch node.Role {
		case network.Link:
			p.addRow(netFlowCoeffs(node, n), eq, 0)

		case network.Input:
			if node.MaxFlowParam != nil {
				p.addRow(outCoeffs(node, n), le, solver.ConstraintValue(node.MaxFlowParam, pvalues, 0))
			}
			if node.MinFlowParam != nil {
				p.addRow(outCoeffs(node, n), ge, solver.ConstraintValue(node.MinFlowParam, pvalues, 0))
			}

		case network.Output:
			if node.MaxFlowParam != nil {
				p.addRow(inCoeffs(node, n), le, solver.ConstraintValue(node.MaxFlowParam, pvalues, 0))
			}
			if node.MinFlowParam != nil {
				p.addRow(inCoeffs(node, n), ge, solver.ConstraintValue(node.MinFlowParam, pvalues, 0))
			}

		case network.Storage:
			dt := ts.Delta()
			if dt <= 0 {
				return state.NetworkState{}, modelerr.Wrap(modelerr.KindSolverSetupFailed,
					"storage node requires a positive timestep duration", nil)
			}
			vol := current.Nodes[i].Volume
			if node.MaxVolumeParam != nil {
				maxVol := solver.ConstraintValue(node.MaxVolumeParam, pvalues, vol)
				p.addRow(netFlowCoeffs(node, n), le, (maxVol-vol)/dt)
			}
			// A storage node's volume floors at zero even with no MinVolume
			// binding, the same way an edge's flow floors at zero with no
			// MinFlow binding.
			minVol := solver.ConstraintValue(node.MinVolumeParam, pvalues, 0)
			p.addRow(netFlowCoeffs(node, n), ge, (minVol-vol)/dt)
		}
	}

	for _, e := range g.Edges {
		from := &g.Nodes[e.From]
		to := &g.Nodes[e.To]
		p.cost[e.Index] += solver.ConstraintValue(from.CostParam, pvalues, 0)
		if to.Role == network.Output {
			p.cost[e.Index] += solver.ConstraintValue(to.CostParam, pvalues, 0)
		}
	}

	x, _, err := p.solve()
	if err != nil {
		switch {
		case errors.Is(err, errInfeasible):
			return state.NetworkState{}, modelerr.Wrap(modelerr.KindSolverInfeasible, err.Error(), err)
		case errors.Is(err, errUnbounded):
			return state.NetworkState{}, modelerr.Wrap(modelerr.KindSolverUnbounded, err.Error(), err)
		default:
			return state.NetworkState{}, modelerr.Wrap(modelerr.KindSolverNumeric, err.Error(), err)
		}
	}

	return decode(g, ts, current, x), nil
}

// outCoeffs returns a row with +1 for each of node's outgoing edges.
func outCoeffs(node *network.Node, numVars int) []float64 {
	c := make([]float64, numVars)
	for _, e := range node.Outgoing {
		c[e] += 1
	}
	return c
}

// inCoeffs returns a row with +1 for each of node's incoming edges.
func inCoeffs(node *network.Node, numVars int) []float64 {
	c := make([]float64, numVars)
	for _, e := range node.Incoming {
		c[e] += 1
	}
	return c
}

// netFlowCoeffs returns a row with +1 for incoming edges and -1 for
// outgoing edges, the net-flow expression link conservation and storage
// volume dynamics are both stated in terms of.
func netFlowCoeffs(node *network.Node, numVars int) []float64 {
	c := make([]float64, numVars)
	for _, e := range node.Incoming {
		c[e] += 1
	}
	for _, e := range node.Outgoing {
		c[e] -= 1
	}
	return c
}

// decode writes the LP solution x (one value per edge) back into a fresh
// NetworkState: edge flows, node in/out-flow totals, and (for Storage
// nodes) the volume carried forward under the timestep's duration.
func decode(g *network.Graph, ts timestep.Timestep, current state.NetworkState, x []float64) state.NetworkState {
	next := current.Clone()
	for i, f := range x {
		next.Edges[i].Flow = f
	}
	dt := ts.Delta()
	for i := range g.Nodes {
		node := &g.Nodes[i]
		var in, out float64
		for _, e := range node.Incoming {
			in += x[e]
		}
		for _, e := range node.Outgoing {
			out += x[e]
		}
		next.Nodes[i].InFlow = in
		next.Nodes[i].OutFlow = out
		if node.Role == network.Storage {
			next.Nodes[i].Volume = current.Nodes[i].Volume + (in-out)*dt
		}
	}
	return next
}
