package kdag

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
)

// Validate checks that the graph is acyclic.
func (g *Graph) Validate() error {
	if len(g.Nodes) > MaxNodesPerDAG {
		return fmt.Errorf("%w: node count %d exceeds maximum %d",
			ErrInvalidTopology, len(g.Nodes), MaxNodesPerDAG)
	}
	if err := g.detectCycles(); err != nil {
		return fmt.Errorf("pipeline validation failed: %w", err)
	}
	return nil
}

// detectCycles uses Depth-First Search (DFS) to find cycles in the graph.
// Returns ErrCycleDetected with the offending path if any cycle is found.
// Time complexity: O(V + E) where V is vertices and E is edges.
func (g *Graph) detectCycles() error {
	visited := make(map[NodeID]bool, len(g.Nodes))
	recStack := make(map[NodeID]bool, len(g.Nodes))

	var dfs func(NodeID, []NodeID) error
	dfs = func(nodeID NodeID, path []NodeID) error {
		visited[nodeID] = true
		recStack[nodeID] = true
		path = append(path, nodeID)

		for _, childID := range g.Nodes[nodeID].Children {
			if !visited[childID] {
				if err := dfs(childID, path); err != nil {
					return err
				}
			} else if recStack[childID] {
				start := slices.Index(path, childID)
				cyclePath := append(slices.Clone(path[start:]), childID)
				pathStr := make([]string, len(cyclePath))
				for i, id := range cyclePath {
					pathStr[i] = string(id)
				}
				return fmt.Errorf("%w: %s", ErrCycleDetected, strings.Join(pathStr, " -> "))
			}
		}

		recStack[nodeID] = false
		return nil
	}

	// Check all nodes (handles disconnected components)
	for _, nodeID := range g.NodeOrder {
		if !visited[nodeID] {
			if err := dfs(nodeID, nil); err != nil {
				return err
			}
		}
	}

	return nil
}

// insertByRank inserts an item into a slice sorted by declaration rank.
func (g *Graph) insertByRank(queue []NodeID, item NodeID) []NodeID {
	idx := sort.Search(len(queue), func(i int) bool {
		return g.rank[queue[i]] >= g.rank[item]
	})
	return slices.Insert(queue, idx, item)
}

// TopologicalSort orders the nodes with Kahn's algorithm so that every edge
// points from an earlier to a later node. Among ready nodes, the one declared
// first in the pipeline goes first.
//
// If fewer nodes than exist in the graph can be ordered, the graph contains a
// cycle and ErrCycleDetected is returned.
func (g *Graph) TopologicalSort() ([]NodeID, error) {
	inDegree := make(map[NodeID]int, len(g.Nodes))
	for _, node := range g.Nodes {
		for _, childID := range node.Children {
			inDegree[childID]++
		}
	}

	queue := make([]NodeID, 0, len(g.Nodes))
	for _, nodeID := range g.NodeOrder {
		if inDegree[nodeID] == 0 {
			queue = append(queue, nodeID)
		}
	}

	result := make([]NodeID, 0, len(g.Nodes))
	for len(queue) > 0 {
		nodeID := queue[0]
		queue = queue[1:]
		result = append(result, nodeID)

		for _, childID := range g.Nodes[nodeID].Children {
			inDegree[childID]--
			if inDegree[childID] == 0 {
				queue = g.insertByRank(queue, childID)
			}
		}
	}

	if len(result) != len(g.Nodes) {
		if err := g.detectCycles(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: ordered %d of %d blocks", ErrCycleDetected, len(result), len(g.Nodes))
	}

	return result, nil
}

// Levels groups the nodes into execution levels. Every node's parents are in
// earlier levels, so all nodes of one level can run concurrently once the
// previous level finished. Nodes within a level keep topological order.
func (g *Graph) Levels() ([][]NodeID, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	depth := make(map[NodeID]int, len(order))
	var levels [][]NodeID
	for _, nodeID := range order {
		d := 0
		for _, parentID := range g.Nodes[nodeID].Parents {
			if depth[parentID]+1 > d {
				d = depth[parentID] + 1
			}
		}
		depth[nodeID] = d
		if d == len(levels) {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], nodeID)
	}
	return levels, nil
}
