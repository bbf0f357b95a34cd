package recorder

import (
	"math"
	"strconv"

	"github.com/relloyd/pywr-go/modelerr"
	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// Default tolerances for AssertionRecorder's approximate-equality check
// (SPEC_FULL.md §4.3, resolving spec.md's Open Question (c)).
const (
	DefaultAbsTol = 1e-8
	DefaultRelTol = 1e-6
)

// AssertionRecorder compares each observation of Metric against an
// expected [timesteps x scenarios] array, row-major by timestep index
// then scenario index, failing the run on the first mismatch outside
// tolerance.
type AssertionRecorder struct {
	meta   Meta
	Metric Metric

	// Expected is the reference grid: Expected[ts*numScenarios+scenario].
	Expected []float64

	numScenarios int
	AbsTol       float64
	RelTol       float64
}

// NewAssertionRecorder returns an AssertionRecorder named name, comparing
// metric against expected (row-major [timesteps x scenarios], with
// numScenarios columns per row) using the default tolerances.
func NewAssertionRecorder(name string, metric Metric, numScenarios int, expected []float64) *AssertionRecorder {
	return &AssertionRecorder{
		meta:         Meta{Name: name},
		Metric:       metric,
		Expected:     expected,
		numScenarios: numScenarios,
		AbsTol:       DefaultAbsTol,
		RelTol:       DefaultRelTol,
	}
}

func (a *AssertionRecorder) Meta() Meta { return a.meta }

// approxEqual reports whether actual and expected agree to within the
// recorder's combined relative+absolute tolerance:
// |actual-expected| <= absTol + relTol*|expected|.
func approxEqual(actual, expected, absTol, relTol float64) bool {
	return math.Abs(actual-expected) <= absTol+relTol*math.Abs(expected)
}

func (a *AssertionRecorder) Save(ts timestep.Timestep, sidx scenario.Index, ns state.NetworkState, pvalues []float64) error {
	actual, err := a.Metric.Read(ns, pvalues)
	if err != nil {
		return err
	}

	idx := ts.Index*a.numScenarios + sidx.Index
	if idx < 0 || idx >= len(a.Expected) {
		return modelerr.NewNamed(modelerr.KindAssertionFailed, a.meta.Name, idx)
	}
	expected := a.Expected[idx]

	if !approxEqual(actual, expected, a.AbsTol, a.RelTol) {
		return &modelerr.Error{
			Kind:   modelerr.KindAssertionFailed,
			Name:   a.meta.Name,
			Index:  idx,
			Detail: assertionDetail(ts, sidx, expected, actual),
		}
	}
	return nil
}

func assertionDetail(ts timestep.Timestep, sidx scenario.Index, expected, actual float64) string {
	return "timestep=" + strconv.Itoa(ts.Index) + " scenario=" + strconv.Itoa(sidx.Index) +
		" expected=" + strconv.FormatFloat(expected, 'g', -1, 64) +
		" actual=" + strconv.FormatFloat(actual, 'g', -1, 64)
}
