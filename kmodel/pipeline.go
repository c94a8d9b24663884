package kmodel

// Connection is a directed edge from an output port to an input port.
type Connection struct {
	ID            string `json:"id"`
	SourceBlockID string `json:"sourceBlockId"`
	SourcePortID  string `json:"sourcePortId"`
	TargetBlockID string `json:"targetBlockId"`
	TargetPortID  string `json:"targetPortId"`
}

// Pipeline is the immutable input of one execution run.
type Pipeline struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Blocks      []Block        `json:"blocks"`
	Connections []Connection   `json:"connections"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Block returns the block with the given id.
func (p *Pipeline) Block(id string) (*Block, bool) {
	for i := range p.Blocks {
		if p.Blocks[i].ID == id {
			return &p.Blocks[i], true
		}
	}
	return nil, false
}

// IncomingConnections returns all connections targeting the given block, in
// pipeline order.
func (p *Pipeline) IncomingConnections(blockID string) []Connection {
	var conns []Connection
	for _, c := range p.Connections {
		if c.TargetBlockID == blockID {
			conns = append(conns, c)
		}
	}
	return conns
}
