package pywr

import (
	"testing"

	"github.com/relloyd/pywr-go/network"
	"github.com/relloyd/pywr-go/param"
	"github.com/relloyd/pywr-go/recorder"
	"github.com/relloyd/pywr-go/solver/refsolver"
	"github.com/relloyd/pywr-go/timestep"
)

func defaultTimestepper(t *testing.T) *timestep.Timestepper {
	t.Helper()
	tsr, err := timestep.New("2020-01-01", "2020-01-15", "%Y-%m-%d", 1)
	if err != nil {
		t.Fatalf("timestep.New: %v", err)
	}
	return tsr
}

// uniform returns a row-major [timesteps x scenarios] grid filled with a
// single value, the shape AssertionRecorder compares against.
func uniform(numTimesteps, numScenarios int, value float64) []float64 {
	grid := make([]float64, numTimesteps*numScenarios)
	for i := range grid {
		grid[i] = value
	}
	return grid
}

func buildChainModel(t *testing.T) *Model {
	t.Helper()
	m := New()

	input, err := m.AddInputNode("input")
	if err != nil {
		t.Fatalf("AddInputNode: %v", err)
	}
	link, err := m.AddLinkNode("link")
	if err != nil {
		t.Fatalf("AddLinkNode: %v", err)
	}
	output, err := m.AddOutputNode("output")
	if err != nil {
		t.Fatalf("AddOutputNode: %v", err)
	}
	if _, err := m.Connect(input, link); err != nil {
		t.Fatalf("Connect input->link: %v", err)
	}
	if _, err := m.Connect(link, output); err != nil {
		t.Fatalf("Connect link->output: %v", err)
	}

	inputMax, err := m.AddParameter(param.NewConstant("input-max-flow", 10.0))
	if err != nil {
		t.Fatalf("add input-max-flow: %v", err)
	}
	if err := m.SetNodeConstraint(input, network.ParameterIndex(inputMax), network.MaxFlow); err != nil {
		t.Fatalf("SetNodeConstraint input: %v", err)
	}

	baseDemand, err := m.AddParameter(param.NewConstant("base-demand", 10.0))
	if err != nil {
		t.Fatalf("add base-demand: %v", err)
	}
	demandFactor, err := m.AddParameter(param.NewConstant("demand-factor", 1.2))
	if err != nil {
		t.Fatalf("add demand-factor: %v", err)
	}
	totalDemand, err := m.AddParameter(param.NewAggregated("total-demand", []int{baseDemand, demandFactor}, param.Product))
	if err != nil {
		t.Fatalf("add total-demand: %v", err)
	}
	if err := m.SetNodeConstraint(output, network.ParameterIndex(totalDemand), network.MaxFlow); err != nil {
		t.Fatalf("SetNodeConstraint output: %v", err)
	}

	demandCost, err := m.AddParameter(param.NewConstant("demand-cost", -10.0))
	if err != nil {
		t.Fatalf("add demand-cost: %v", err)
	}
	if err := m.SetNodeCost(output, network.ParameterIndex(demandCost)); err != nil {
		t.Fatalf("SetNodeCost output: %v", err)
	}

	m.AddScenarioGroup("test-scenario", 10)
	return m
}

// TestRunChainModelSatisfiesEveryAssertion mirrors a model run where
// throughput is limited by the input's supply rather than the output's
// demand: every node's flow, and the total-demand parameter, holds steady
// across every timestep and scenario.
func TestRunChainModelSatisfiesEveryAssertion(t *testing.T) {
	m := buildChainModel(t)
	tsr := defaultTimestepper(t)
	numTimesteps := len(tsr.Timesteps())
	numScenarios := 10

	inputIdx, _ := m.Graph.NodeByName("input")
	linkIdx, _ := m.Graph.NodeByName("link")
	outputIdx, _ := m.Graph.NodeByName("output")
	totalDemandIdx, _ := m.Params.IndexByName("total-demand")

	if _, err := m.AddRecorder(recorder.NewAssertionRecorder(
		"input-flow", recorder.Metric{Kind: recorder.NodeOutFlow, Index: int(inputIdx)},
		numScenarios, uniform(numTimesteps, numScenarios, 10.0))); err != nil {
		t.Fatalf("add input-flow recorder: %v", err)
	}
	if _, err := m.AddRecorder(recorder.NewAssertionRecorder(
		"link-flow", recorder.Metric{Kind: recorder.NodeOutFlow, Index: int(linkIdx)},
		numScenarios, uniform(numTimesteps, numScenarios, 10.0))); err != nil {
		t.Fatalf("add link-flow recorder: %v", err)
	}
	if _, err := m.AddRecorder(recorder.NewAssertionRecorder(
		"output-flow", recorder.Metric{Kind: recorder.NodeInFlow, Index: int(outputIdx)},
		numScenarios, uniform(numTimesteps, numScenarios, 10.0))); err != nil {
		t.Fatalf("add output-flow recorder: %v", err)
	}
	if _, err := m.AddRecorder(recorder.NewAssertionRecorder(
		"total-demand", recorder.Metric{Kind: recorder.ParameterValue, Index: totalDemandIdx},
		numScenarios, uniform(numTimesteps, numScenarios, 12.0))); err != nil {
		t.Fatalf("add total-demand recorder: %v", err)
	}

	if err := m.Run(tsr, refsolver.New(), RunOptions{RunID: "test-run"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

// TestRunStorageModelDrainsThenClampsOutflowToZero mirrors a model run
// against a storage node whose reservoir depletes at a constant demand
// rate and then sits empty, with the output's inflow clamping to zero once
// the reservoir can no longer supply it.
func TestRunStorageModelDrainsThenClampsOutflowToZero(t *testing.T) {
	m := New()

	reservoir, err := m.AddStorageNode("reservoir", 100.0)
	if err != nil {
		t.Fatalf("AddStorageNode: %v", err)
	}
	output, err := m.AddOutputNode("output")
	if err != nil {
		t.Fatalf("AddOutputNode: %v", err)
	}
	if _, err := m.Connect(reservoir, output); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	demandIdx, err := m.AddParameter(param.NewConstant("demand", 10.0))
	if err != nil {
		t.Fatalf("add demand: %v", err)
	}
	if err := m.SetNodeConstraint(output, network.ParameterIndex(demandIdx), network.MaxFlow); err != nil {
		t.Fatalf("SetNodeConstraint demand: %v", err)
	}
	costIdx, err := m.AddParameter(param.NewConstant("demand-cost", -10.0))
	if err != nil {
		t.Fatalf("add demand-cost: %v", err)
	}
	if err := m.SetNodeCost(output, network.ParameterIndex(costIdx)); err != nil {
		t.Fatalf("SetNodeCost: %v", err)
	}
	maxVolIdx, err := m.AddParameter(param.NewConstant("max-volume", 100.0))
	if err != nil {
		t.Fatalf("add max-volume: %v", err)
	}
	if err := m.SetNodeConstraint(reservoir, network.ParameterIndex(maxVolIdx), network.MaxVolume); err != nil {
		t.Fatalf("SetNodeConstraint max-volume: %v", err)
	}

	m.AddScenarioGroup("test-scenario", 10)

	tsr := defaultTimestepper(t)
	numScenarios := 10

	outputFlow := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 0, 0, 0, 0, 0}
	reservoirVolume := []float64{90, 80, 70, 60, 50, 40, 30, 20, 10, 0, 0, 0, 0, 0, 0}

	outputFlowGrid := make([]float64, 0, len(outputFlow)*numScenarios)
	volumeGrid := make([]float64, 0, len(reservoirVolume)*numScenarios)
	for i := range outputFlow {
		for s := 0; s < numScenarios; s++ {
			outputFlowGrid = append(outputFlowGrid, outputFlow[i])
			volumeGrid = append(volumeGrid, reservoirVolume[i])
		}
	}

	if _, err := m.AddRecorder(recorder.NewAssertionRecorder(
		"output-flow", recorder.Metric{Kind: recorder.NodeInFlow, Index: int(output)},
		numScenarios, outputFlowGrid)); err != nil {
		t.Fatalf("add output-flow recorder: %v", err)
	}
	if _, err := m.AddRecorder(recorder.NewAssertionRecorder(
		"reservoir-volume", recorder.Metric{Kind: recorder.NodeVolume, Index: int(reservoir)},
		numScenarios, volumeGrid)); err != nil {
		t.Fatalf("add reservoir-volume recorder: %v", err)
	}

	if err := m.Run(tsr, refsolver.New(), RunOptions{RunID: "test-run-storage"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

// TestRunWithBoundedConcurrencyProducesTheSameResult runs the chain model
// with scenario-level concurrency enabled and checks it still satisfies
// every assertion, since scenarios in this model are independent of one
// another.
func TestRunWithBoundedConcurrencyProducesTheSameResult(t *testing.T) {
	m := buildChainModel(t)
	tsr := defaultTimestepper(t)
	numTimesteps := len(tsr.Timesteps())
	numScenarios := 10

	outputIdx, _ := m.Graph.NodeByName("output")
	if _, err := m.AddRecorder(recorder.NewAssertionRecorder(
		"output-flow", recorder.Metric{Kind: recorder.NodeInFlow, Index: int(outputIdx)},
		numScenarios, uniform(numTimesteps, numScenarios, 10.0))); err != nil {
		t.Fatalf("add output-flow recorder: %v", err)
	}

	opts := RunOptions{RunID: "test-run-concurrent", MaxConcurrentScenarios: 4}
	if err := m.Run(tsr, refsolver.New(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
