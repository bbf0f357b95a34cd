package recorder

import (
	"fmt"

	"github.com/relloyd/pywr-go/state"
)

// MetricKind identifies which observable a TensorRecorder (or any metric-
// driven recorder) reads from a timestep's state.
type MetricKind int

const (
	NodeInFlow MetricKind = iota
	NodeOutFlow
	NodeVolume
	EdgeFlow
	ParameterValue
)

// Metric selects one scalar observable: a node's in/out-flow or volume, an
// edge's flow, or a parameter's value, by index.
type Metric struct {
	Kind  MetricKind
	Index int
}

// Read extracts this metric's value from one scenario's network state and
// the parameter values computed for this timestep.
func (m Metric) Read(ns state.NetworkState, pvalues []float64) (float64, error) {
	switch m.Kind {
	case NodeInFlow:
		return ns.NodeInFlow(m.Index)
	case NodeOutFlow:
		return ns.NodeOutFlow(m.Index)
	case NodeVolume:
		return ns.NodeVolume(m.Index)
	case EdgeFlow:
		return ns.EdgeFlow(m.Index)
	case ParameterValue:
		if m.Index < 0 || m.Index >= len(pvalues) {
			return 0, fmt.Errorf("recorder: parameter index %d out of range [0,%d)", m.Index, len(pvalues))
		}
		return pvalues[m.Index], nil
	default:
		return 0, fmt.Errorf("recorder: unknown metric kind %d", m.Kind)
	}
}
