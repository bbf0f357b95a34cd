package param

import (
	"fmt"

	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// Constant always yields the same value, regardless of timestep or
// scenario.
type Constant struct {
	meta  Meta
	Value float64
}

// NewConstant returns a Constant parameter named name with the given
// value.
func NewConstant(name string, value float64) *Constant {
	return &Constant{meta: Meta{Name: name}, Value: value}
}

func (c *Constant) Meta() Meta { return c.meta }

func (c *Constant) Compute(timestep.Timestep, scenario.Index, state.NetworkState, *state.ParameterState) (float64, error) {
	return c.Value, nil
}

// Vector yields Values[timestep.Index]; referencing a timestep past the
// end of Values is a fatal parameter error.
type Vector struct {
	meta   Meta
	Values []float64
}

// NewVector returns a Vector parameter named name over the given series.
func NewVector(name string, values []float64) *Vector {
	return &Vector{meta: Meta{Name: name}, Values: values}
}

func (v *Vector) Meta() Meta { return v.meta }

func (v *Vector) Compute(ts timestep.Timestep, _ scenario.Index, _ state.NetworkState, _ *state.ParameterState) (float64, error) {
	if ts.Index < 0 || ts.Index >= len(v.Values) {
		return 0, fmt.Errorf("param %q: timestep index %d out of range [0,%d)", v.meta.Name, ts.Index, len(v.Values))
	}
	return v.Values[ts.Index], nil
}

// AggFunc identifies how an Aggregated parameter combines its children.
type AggFunc int

const (
	Sum AggFunc = iota
	Product
	Min
	Max
	Mean
)

// Aggregated combines the values of earlier-declared parameters (by
// index) with Func. ChildIndices must each be strictly less than this
// parameter's own index; Registry.Add enforces that at construction time.
type Aggregated struct {
	meta         Meta
	ChildIndices []int
	Func         AggFunc
}

// NewAggregated returns an Aggregated parameter named name over the given
// child parameter indices, combined with fn.
func NewAggregated(name string, children []int, fn AggFunc) *Aggregated {
	return &Aggregated{meta: Meta{Name: name}, ChildIndices: children, Func: fn}
}

func (a *Aggregated) Meta() Meta { return a.meta }

func (a *Aggregated) Compute(_ timestep.Timestep, _ scenario.Index, _ state.NetworkState, prior *state.ParameterState) (float64, error) {
	if len(a.ChildIndices) == 0 {
		return 0, nil
	}

	values := make([]float64, 0, len(a.ChildIndices))
	for _, idx := range a.ChildIndices {
		v, err := prior.Get(idx)
		if err != nil {
			return 0, err
		}
		values = append(values, v)
	}

	switch a.Func {
	case Sum:
		var total float64
		for _, v := range values {
			total += v
		}
		return total, nil
	case Product:
		total := 1.0
		for _, v := range values {
			total *= v
		}
		return total, nil
	case Min:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m, nil
	case Max:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m, nil
	case Mean:
		var total float64
		for _, v := range values {
			total += v
		}
		return total / float64(len(values)), nil
	default:
		return 0, fmt.Errorf("param %q: unknown aggregation function %d", a.meta.Name, a.Func)
	}
}
