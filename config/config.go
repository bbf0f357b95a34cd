// Package config loads a network definition from JSON: nodes, edges,
// parameters, constraint/cost bindings, scenario groups and the
// timestepper. Fixed-shape fields are decoded with encoding/json; the
// free-form payload an External parameter hands its host factory is read
// with gjson, since its shape is unknown to this package by design.
// ApplyOverrides patches a document's scalar leaves in place with sjson,
// the pattern an operator uses to parameterize one JSON template per
// environment without templating the whole file.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/relloyd/pywr-go/network"
	"github.com/relloyd/pywr-go/param"
	"github.com/relloyd/pywr-go/pywr"
	"github.com/relloyd/pywr-go/timestep"
)

type nodeSpec struct {
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	InitialVolume float64 `json:"initial_volume"`
}

type edgeSpec struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type paramSpec struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Value    float64   `json:"value"`
	Values   []float64 `json:"values"`
	Func     string    `json:"func"`
	Children []string  `json:"children"`
	Method   string    `json:"method"`
	// Args is intentionally absent: its shape varies per host factory and
	// is read with gjson against the raw document instead of decoded here.
}

type constraintSpec struct {
	Node      string `json:"node"`
	Kind      string `json:"kind"`
	Parameter string `json:"parameter"`
}

type costSpec struct {
	Node      string `json:"node"`
	Parameter string `json:"parameter"`
}

type scenarioSpec struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type timestepSpec struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Format   string `json:"format"`
	StepDays int    `json:"step_days"`
}

type document struct {
	Nodes       []nodeSpec       `json:"nodes"`
	Edges       []edgeSpec       `json:"edges"`
	Parameters  []paramSpec      `json:"parameters"`
	Constraints []constraintSpec `json:"constraints"`
	Costs       []costSpec       `json:"costs"`
	Scenarios   []scenarioSpec   `json:"scenarios"`
	Timestep    timestepSpec     `json:"timestep"`
}

// ExternalFactory builds an opaque handle for a param.External parameter
// from its raw JSON args payload. rawArgs is the verbatim JSON text found
// at parameters[i].args; the factory is responsible for interpreting it.
type ExternalFactory func(rawArgs string) (any, error)

// LoadNetwork parses raw into a Model plus the Timestepper its "timestep"
// section describes. factories resolves each "external" parameter's
// "method" field to a host-supplied constructor for its Handle.
func LoadNetwork(raw []byte, factories map[string]ExternalFactory) (*pywr.Model, *timestep.Timestepper, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("config: parsing document: %w", err)
	}

	m := pywr.New()

	nodeIdx := make(map[string]network.NodeIndex, len(doc.Nodes))
	for _, n := range doc.Nodes {
		idx, err := addNode(m, n)
		if err != nil {
			return nil, nil, fmt.Errorf("config: node %q: %w", n.Name, err)
		}
		nodeIdx[n.Name] = idx
	}

	for _, e := range doc.Edges {
		from, ok := nodeIdx[e.From]
		if !ok {
			return nil, nil, fmt.Errorf("config: edge references unknown node %q", e.From)
		}
		to, ok := nodeIdx[e.To]
		if !ok {
			return nil, nil, fmt.Errorf("config: edge references unknown node %q", e.To)
		}
		if _, err := m.Connect(from, to); err != nil {
			return nil, nil, fmt.Errorf("config: connecting %q -> %q: %w", e.From, e.To, err)
		}
	}

	paramIdx := make(map[string]int, len(doc.Parameters))
	for i, ps := range doc.Parameters {
		idx, err := addParameter(m, raw, i, ps, paramIdx, factories)
		if err != nil {
			return nil, nil, fmt.Errorf("config: parameter %q: %w", ps.Name, err)
		}
		paramIdx[ps.Name] = idx
	}

	for _, cs := range doc.Constraints {
		node, ok := nodeIdx[cs.Node]
		if !ok {
			return nil, nil, fmt.Errorf("config: constraint references unknown node %q", cs.Node)
		}
		kind, err := parseConstraintKind(cs.Kind)
		if err != nil {
			return nil, nil, err
		}
		pidx, ok := paramIdx[cs.Parameter]
		if !ok {
			return nil, nil, fmt.Errorf("config: constraint references unknown parameter %q", cs.Parameter)
		}
		if err := m.SetNodeConstraint(node, network.ParameterIndex(pidx), kind); err != nil {
			return nil, nil, fmt.Errorf("config: binding constraint on %q: %w", cs.Node, err)
		}
	}

	for _, cs := range doc.Costs {
		node, ok := nodeIdx[cs.Node]
		if !ok {
			return nil, nil, fmt.Errorf("config: cost references unknown node %q", cs.Node)
		}
		pidx, ok := paramIdx[cs.Parameter]
		if !ok {
			return nil, nil, fmt.Errorf("config: cost references unknown parameter %q", cs.Parameter)
		}
		if err := m.SetNodeCost(node, network.ParameterIndex(pidx)); err != nil {
			return nil, nil, fmt.Errorf("config: binding cost on %q: %w", cs.Node, err)
		}
	}

	for _, ss := range doc.Scenarios {
		m.AddScenarioGroup(ss.Name, ss.Size)
	}

	tsr, err := timestep.New(doc.Timestep.Start, doc.Timestep.End, doc.Timestep.Format, doc.Timestep.StepDays)
	if err != nil {
		return nil, nil, fmt.Errorf("config: timestep: %w", err)
	}

	return m, tsr, nil
}

func addNode(m *pywr.Model, n nodeSpec) (network.NodeIndex, error) {
	switch n.Role {
	case "input":
		return m.AddInputNode(n.Name)
	case "link":
		return m.AddLinkNode(n.Name)
	case "output":
		return m.AddOutputNode(n.Name)
	case "storage":
		return m.AddStorageNode(n.Name, n.InitialVolume)
	default:
		return 0, fmt.Errorf("unknown role %q", n.Role)
	}
}

func addParameter(m *pywr.Model, raw []byte, i int, ps paramSpec, paramIdx map[string]int, factories map[string]ExternalFactory) (int, error) {
	switch ps.Type {
	case "constant":
		return m.AddParameter(param.NewConstant(ps.Name, ps.Value))
	case "vector":
		return m.AddParameter(param.NewVector(ps.Name, ps.Values))
	case "aggregated":
		fn, err := parseAggFunc(ps.Func)
		if err != nil {
			return 0, err
		}
		children := make([]int, 0, len(ps.Children))
		for _, name := range ps.Children {
			idx, ok := paramIdx[name]
			if !ok {
				return 0, fmt.Errorf("aggregated parameter references unknown child %q", name)
			}
			children = append(children, idx)
		}
		return m.AddParameter(param.NewAggregated(ps.Name, children, fn))
	case "external":
		factory, ok := factories[ps.Method]
		if !ok {
			return 0, fmt.Errorf("no external factory registered for method %q", ps.Method)
		}
		argsPath := fmt.Sprintf("parameters.%d.args", i)
		argsRaw := gjson.GetBytes(raw, argsPath).Raw
		handle, err := factory(argsRaw)
		if err != nil {
			return 0, fmt.Errorf("external factory %q: %w", ps.Method, err)
		}
		return m.AddParameter(param.NewExternal(ps.Name, handle, ps.Method))
	default:
		return 0, fmt.Errorf("unknown parameter type %q", ps.Type)
	}
}

func parseConstraintKind(s string) (network.ConstraintKind, error) {
	switch s {
	case "min_flow":
		return network.MinFlow, nil
	case "max_flow":
		return network.MaxFlow, nil
	case "min_volume":
		return network.MinVolume, nil
	case "max_volume":
		return network.MaxVolume, nil
	default:
		return 0, fmt.Errorf("unknown constraint kind %q", s)
	}
}

func parseAggFunc(s string) (param.AggFunc, error) {
	switch s {
	case "sum":
		return param.Sum, nil
	case "product":
		return param.Product, nil
	case "min":
		return param.Min, nil
	case "max":
		return param.Max, nil
	case "mean":
		return param.Mean, nil
	default:
		return 0, fmt.Errorf("unknown aggregation function %q", s)
	}
}

// ApplyOverrides patches raw's JSON leaves in place, one sjson.SetBytes
// call per override path ("nodes.0.initial_volume", "parameters.2.value",
// ...), so one template document can be parameterized per environment
// without re-rendering the whole file.
func ApplyOverrides(raw []byte, overrides map[string]any) ([]byte, error) {
	out := raw
	for path, value := range overrides {
		patched, err := sjson.SetBytes(out, path, value)
		if err != nil {
			return nil, fmt.Errorf("config: applying override %q: %w", path, err)
		}
		out = patched
	}
	return out, nil
}
