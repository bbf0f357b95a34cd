package network

import "testing"

func TestGraphSimpleModel(t *testing.T) {
	g := NewGraph()

	inputIdx, err := g.AddInputNode("input")
	if err != nil || inputIdx != 0 {
		t.Fatalf("AddInputNode: idx=%d err=%v", inputIdx, err)
	}
	linkIdx, err := g.AddLinkNode("link")
	if err != nil || linkIdx != 1 {
		t.Fatalf("AddLinkNode: idx=%d err=%v", linkIdx, err)
	}
	outputIdx, err := g.AddOutputNode("output")
	if err != nil || outputIdx != 2 {
		t.Fatalf("AddOutputNode: idx=%d err=%v", outputIdx, err)
	}

	edgeIdx, err := g.Connect(inputIdx, linkIdx)
	if err != nil || edgeIdx != 0 {
		t.Fatalf("Connect(input,link): idx=%d err=%v", edgeIdx, err)
	}
	edgeIdx, err = g.Connect(linkIdx, outputIdx)
	if err != nil || edgeIdx != 1 {
		t.Fatalf("Connect(link,output): idx=%d err=%v", edgeIdx, err)
	}

	if len(g.Nodes[inputIdx].Outgoing) != 1 {
		t.Errorf("input node should have 1 outgoing edge, got %d", len(g.Nodes[inputIdx].Outgoing))
	}
	if len(g.Nodes[linkIdx].Incoming) != 1 || len(g.Nodes[linkIdx].Outgoing) != 1 {
		t.Errorf("link node should have 1 incoming and 1 outgoing edge")
	}
	if len(g.Nodes[outputIdx].Incoming) != 1 {
		t.Errorf("output node should have 1 incoming edge, got %d", len(g.Nodes[outputIdx].Incoming))
	}
}

func TestGraphDuplicateNodeName(t *testing.T) {
	g := NewGraph()
	if _, err := g.AddInputNode("my-node"); err != nil {
		t.Fatalf("first add: %v", err)
	}

	if _, err := g.AddInputNode("my-node"); err == nil {
		t.Fatal("expected NodeNameAlreadyExists for duplicate AddInputNode")
	}
	if _, err := g.AddLinkNode("my-node"); err == nil {
		t.Fatal("expected NodeNameAlreadyExists for duplicate AddLinkNode")
	}
	if _, err := g.AddOutputNode("my-node"); err == nil {
		t.Fatal("expected NodeNameAlreadyExists for duplicate AddOutputNode")
	}
	if _, err := g.AddStorageNode("my-node", 10.0); err == nil {
		t.Fatal("expected NodeNameAlreadyExists for duplicate AddStorageNode")
	}
}

func TestGraphConnectRejectsSelfLoop(t *testing.T) {
	g := NewGraph()
	idx, _ := g.AddLinkNode("a")
	if _, err := g.Connect(idx, idx); err == nil {
		t.Fatal("expected error connecting a node to itself")
	}
}

func TestGraphConnectRejectsInvalidRoles(t *testing.T) {
	g := NewGraph()
	in, _ := g.AddInputNode("in")
	out, _ := g.AddOutputNode("out")
	link, _ := g.AddLinkNode("link")

	if _, err := g.Connect(out, in); err == nil {
		t.Fatal("expected error connecting from an Output node")
	}
	if _, err := g.Connect(link, in); err == nil {
		t.Fatal("expected error connecting into an Input node")
	}
}

func TestSetConstraintRejectsWrongSlotForRole(t *testing.T) {
	g := NewGraph()
	inputIdx, _ := g.AddInputNode("input")
	var paramIdx ParameterIndex = 0

	if err := g.SetConstraint(inputIdx, &paramIdx, MaxFlow); err != nil {
		t.Fatalf("expected MaxFlow to be legal on an Input node: %v", err)
	}
	if err := g.SetConstraint(inputIdx, &paramIdx, MaxVolume); err == nil {
		t.Fatal("expected StorageConstraintsUndefined binding MaxVolume on an Input node")
	}

	storageIdx, _ := g.AddStorageNode("reservoir", 100)
	if err := g.SetConstraint(storageIdx, &paramIdx, MaxFlow); err == nil {
		t.Fatal("expected FlowConstraintsUndefined binding MaxFlow on a Storage node")
	}
}
