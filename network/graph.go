package network

import "github.com/relloyd/pywr-go/modelerr"

// Graph owns the append-only sequences of nodes and edges that make up a
// network. It is embedded in the model façade; nothing outside this package
// mutates Nodes/Edges directly.
type Graph struct {
	Nodes []Node
	Edges []Edge

	byName map[string]NodeIndex
}

// NewGraph returns an empty graph ready for construction.
func NewGraph() *Graph {
	return &Graph{byName: make(map[string]NodeIndex)}
}

// NodeByName returns the index of the node with the given name.
func (g *Graph) NodeByName(name string) (NodeIndex, error) {
	idx, ok := g.byName[name]
	if !ok {
		return 0, modelerr.New(modelerr.KindNodeIndexNotFound)
	}
	return idx, nil
}

// Node returns a pointer to the node at idx, or an error if idx is out of
// range. The pointer aliases Graph storage; callers in this package and
// package pywr may mutate through it during construction and solve-decode.
func (g *Graph) Node(idx NodeIndex) (*Node, error) {
	if int(idx) < 0 || int(idx) >= len(g.Nodes) {
		return nil, modelerr.New(modelerr.KindNodeIndexNotFound)
	}
	return &g.Nodes[idx], nil
}

// Edge returns the edge at idx, or an error if idx is out of range.
func (g *Graph) Edge(idx EdgeIndex) (*Edge, error) {
	if int(idx) < 0 || int(idx) >= len(g.Edges) {
		return nil, modelerr.New(modelerr.KindNodeIndexNotFound)
	}
	return &g.Edges[idx], nil
}

func (g *Graph) addNode(name string, role Role) (NodeIndex, error) {
	if existing, ok := g.byName[name]; ok {
		return 0, modelerr.NewNamed(modelerr.KindNodeNameAlreadyExists, name, int(existing))
	}
	idx := NodeIndex(len(g.Nodes))
	g.Nodes = append(g.Nodes, newNode(idx, name, role))
	g.byName[name] = idx
	return idx, nil
}

// AddInputNode appends a new Input node and returns its index.
func (g *Graph) AddInputNode(name string) (NodeIndex, error) {
	return g.addNode(name, Input)
}

// AddLinkNode appends a new Link node and returns its index.
func (g *Graph) AddLinkNode(name string) (NodeIndex, error) {
	return g.addNode(name, Link)
}

// AddOutputNode appends a new Output node and returns its index.
func (g *Graph) AddOutputNode(name string) (NodeIndex, error) {
	return g.addNode(name, Output)
}

// AddStorageNode appends a new Storage node with the given initial volume
// and returns its index.
func (g *Graph) AddStorageNode(name string, initialVolume float64) (NodeIndex, error) {
	idx, err := g.addNode(name, Storage)
	if err != nil {
		return 0, err
	}
	g.Nodes[idx].InitialVolume = initialVolume
	return idx, nil
}

// Connect adds a directed edge from -> to, mutating both endpoints'
// incoming/outgoing edge sets. The from == to guard below rejects
// self-loops first, so the two &g.Nodes[...] references taken afterwards
// never alias the same element.
func (g *Graph) Connect(from, to NodeIndex) (EdgeIndex, error) {
	switch {
	case from == to:
		return 0, modelerr.New(modelerr.KindInvalidNodeConnection)
	case int(from) < 0 || int(from) >= len(g.Nodes):
		return 0, modelerr.New(modelerr.KindNodeIndexNotFound)
	case int(to) < 0 || int(to) >= len(g.Nodes):
		return 0, modelerr.New(modelerr.KindNodeIndexNotFound)
	}

	fromNode := &g.Nodes[from]
	toNode := &g.Nodes[to]

	if fromNode.Role == Output {
		return 0, modelerr.New(modelerr.KindInvalidConnectionForRole)
	}
	if toNode.Role == Input {
		return 0, modelerr.New(modelerr.KindInvalidConnectionForRole)
	}

	edgeIdx := EdgeIndex(len(g.Edges))
	g.Edges = append(g.Edges, Edge{Index: edgeIdx, From: from, To: to})
	fromNode.Outgoing = append(fromNode.Outgoing, edgeIdx)
	toNode.Incoming = append(toNode.Incoming, edgeIdx)

	return edgeIdx, nil
}

// SetConstraint binds (or, with param == nil, unbinds) a parameter to one of
// a node's role-specific constraint slots. Unsupported role/kind pairings
// fail with StorageConstraintsUndefined or FlowConstraintsUndefined and
// leave the node unchanged.
func (g *Graph) SetConstraint(node NodeIndex, param *ParameterIndex, kind ConstraintKind) error {
	n, err := g.Node(node)
	if err != nil {
		return err
	}
	if !n.HasConstraintSlot(kind) {
		if kind == MinVolume || kind == MaxVolume {
			return modelerr.New(modelerr.KindStorageConstraintsUndef)
		}
		return modelerr.New(modelerr.KindFlowConstraintsUndef)
	}

	switch kind {
	case MinFlow:
		n.MinFlowParam = param
	case MaxFlow:
		n.MaxFlowParam = param
	case MinVolume:
		n.MinVolumeParam = param
	case MaxVolume:
		n.MaxVolumeParam = param
	}
	return nil
}

// SetCost binds (or, with param == nil, unbinds) the node's cost parameter.
// A node with no bound cost parameter has an implicit cost of zero.
func (g *Graph) SetCost(node NodeIndex, param *ParameterIndex) error {
	n, err := g.Node(node)
	if err != nil {
		return err
	}
	n.CostParam = param
	return nil
}
