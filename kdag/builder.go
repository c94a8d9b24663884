package kdag

import (
	"fmt"

	"github.com/birdayz/kblocks/kmodel"
)

// Builder constructs a validated pipeline.
//
// IMPORTANT: Builder is NOT safe for concurrent use. The resulting pipeline
// must be treated as immutable.
type Builder struct {
	id          string
	name        string
	graph       *Graph
	blocks      []kmodel.Block
	connections []kmodel.Connection
	err         error
}

// NewBuilder creates a new pipeline builder.
func NewBuilder(id, name string) *Builder {
	return &Builder{
		id:    id,
		name:  name,
		graph: NewGraph(),
	}
}

// AddBlock registers a block. The block type is taken from the config when
// the block has none.
func (b *Builder) AddBlock(block kmodel.Block) error {
	if block.Type == "" && block.Config != nil {
		block.Type = block.Config.BlockType()
	}
	if block.Config != nil && block.Config.BlockType() != block.Type {
		return fmt.Errorf("%w: block %s has type %s but %s config",
			ErrInvalidTopology, block.ID, block.Type, block.Config.BlockType())
	}
	if err := b.graph.AddNode(NodeID(block.ID), block.Type); err != nil {
		return err
	}
	b.blocks = append(b.blocks, block)
	return nil
}

// Connect adds a connection from an output port to an input port. Both
// blocks and both ports must already be registered.
func (b *Builder) Connect(sourceBlockID, sourcePortID, targetBlockID, targetPortID string) error {
	src, ok := b.block(sourceBlockID)
	if !ok {
		return fmt.Errorf("%w: source %s", ErrNodeNotFound, sourceBlockID)
	}
	dst, ok := b.block(targetBlockID)
	if !ok {
		return fmt.Errorf("%w: target %s", ErrNodeNotFound, targetBlockID)
	}
	if !hasPort(src.Outputs, sourcePortID) {
		return fmt.Errorf("%w: block %s has no output port %q", ErrInvalidTopology, sourceBlockID, sourcePortID)
	}
	if _, ok := dst.InputIndex(targetPortID); !ok {
		return fmt.Errorf("%w: block %s has no input port %q", ErrInvalidTopology, targetBlockID, targetPortID)
	}
	if err := b.graph.AddEdge(NodeID(sourceBlockID), NodeID(targetBlockID)); err != nil {
		return err
	}

	b.connections = append(b.connections, kmodel.Connection{
		ID:            fmt.Sprintf("%s:%s->%s:%s", sourceBlockID, sourcePortID, targetBlockID, targetPortID),
		SourceBlockID: sourceBlockID,
		SourcePortID:  sourcePortID,
		TargetBlockID: targetBlockID,
		TargetPortID:  targetPortID,
	})
	return nil
}

// Build validates the graph and returns the pipeline.
func (b *Builder) Build() (*kmodel.Pipeline, error) {
	if err := b.graph.Validate(); err != nil {
		return nil, err
	}
	return &kmodel.Pipeline{
		ID:          b.id,
		Name:        b.name,
		Blocks:      b.blocks,
		Connections: b.connections,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *kmodel.Pipeline {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

// GetGraph returns the underlying graph for read-only access.
func (b *Builder) GetGraph() *Graph {
	return b.graph
}

func (b *Builder) block(id string) (*kmodel.Block, bool) {
	for i := range b.blocks {
		if b.blocks[i].ID == id {
			return &b.blocks[i], true
		}
	}
	return nil, false
}

func hasPort(ports []kmodel.Port, id string) bool {
	for _, p := range ports {
		if p.ID == id {
			return true
		}
	}
	return false
}

// MustAddBlock is like AddBlock but panics on error.
func MustAddBlock(b *Builder, block kmodel.Block) {
	must(b.AddBlock(block))
}

// MustConnect is like Connect but panics on error.
func MustConnect(b *Builder, sourceBlockID, sourcePortID, targetBlockID, targetPortID string) {
	must(b.Connect(sourceBlockID, sourcePortID, targetBlockID, targetPortID))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
