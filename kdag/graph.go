package kdag

import (
	"errors"
	"fmt"

	"github.com/birdayz/kblocks/kmodel"
)

// Sentinel errors for common failure cases.
var (
	ErrNodeAlreadyExists = errors.New("node already exists")
	ErrNodeNotFound      = errors.New("node not found")
	ErrCycleDetected     = errors.New("cycle detected in pipeline")
	ErrInvalidNodeID     = errors.New("invalid node ID")
	ErrInvalidTopology   = errors.New("invalid topology")
)

// MaxNodesPerDAG prevents pathological graphs.
const MaxNodesPerDAG = 10000

// NodeID is a strongly-typed identifier for graph nodes. It equals the block
// id it was created from.
type NodeID string

// Validate checks if the NodeID is valid.
func (id NodeID) Validate() error {
	if id == "" {
		return fmt.Errorf("%w: NodeID cannot be empty", ErrInvalidNodeID)
	}
	return nil
}

// Node is one block of the pipeline graph.
type Node struct {
	ID   NodeID
	Type kmodel.BlockType

	// Parent edges (incoming). A parent appears once per connection.
	Parents []NodeID

	// Child edges (outgoing). A child appears once per connection.
	Children []NodeID
}

// Graph is the structural view of a pipeline. It carries no block configs
// and no results.
type Graph struct {
	Nodes map[NodeID]*Node

	// Deterministic node ordering (insertion order)
	NodeOrder []NodeID

	rank map[NodeID]int
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:     make(map[NodeID]*Node),
		NodeOrder: make([]NodeID, 0),
		rank:      make(map[NodeID]int),
	}
}

// AddNode adds a node to the graph.
func (g *Graph) AddNode(id NodeID, blockType kmodel.BlockType) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if _, exists := g.Nodes[id]; exists {
		return fmt.Errorf("%w: %s", ErrNodeAlreadyExists, id)
	}
	if len(g.Nodes) >= MaxNodesPerDAG {
		return fmt.Errorf("%w: node count exceeds maximum %d", ErrInvalidTopology, MaxNodesPerDAG)
	}
	g.Nodes[id] = &Node{
		ID:       id,
		Type:     blockType,
		Parents:  []NodeID{},
		Children: []NodeID{},
	}
	g.rank[id] = len(g.NodeOrder)
	g.NodeOrder = append(g.NodeOrder, id)
	return nil
}

// AddEdge adds a directed edge from parent to child. Adding the same edge
// twice records two edges.
func (g *Graph) AddEdge(parentID, childID NodeID) error {
	parent, ok := g.Nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: parent %s", ErrNodeNotFound, parentID)
	}
	child, ok := g.Nodes[childID]
	if !ok {
		return fmt.Errorf("%w: child %s", ErrNodeNotFound, childID)
	}

	parent.Children = append(parent.Children, childID)
	child.Parents = append(child.Parents, parentID)
	return nil
}

// FromPipeline builds the graph of a pipeline. Every block becomes a node and
// every connection an edge from its source block to its target block.
// Connections referencing unknown blocks yield ErrNodeNotFound.
func FromPipeline(p *kmodel.Pipeline) (*Graph, error) {
	g := NewGraph()
	for _, b := range p.Blocks {
		if err := g.AddNode(NodeID(b.ID), b.Type); err != nil {
			return nil, fmt.Errorf("block %q: %w", b.ID, err)
		}
	}
	for _, c := range p.Connections {
		if err := g.AddEdge(NodeID(c.SourceBlockID), NodeID(c.TargetBlockID)); err != nil {
			return nil, fmt.Errorf("connection %q: %w", c.ID, err)
		}
	}
	return g, nil
}
