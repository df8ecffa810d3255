package engine

import (
	"bioroute/internal/domain"
)

// Limits bounds the size of a route. Zero means unlimited.
type Limits struct {
	MaxNodes int `yaml:"max_nodes" json:"max_nodes"`
	MaxEdges int `yaml:"max_edges" json:"max_edges"`
}

// Graph is a validated, acyclic route ready for evaluation.
// Node indices follow the input order.
type Graph struct {
	nodes []domain.RouteNode
	index map[string]int
	edges []domain.RouteEdge
	preds [][]int
	succs [][]int
	order []int
}

// Build validates nodes and edges and returns the route graph.
//
// It fails with KindGraphTooLarge when the route exceeds limits,
// KindDuplicateNodeID when two nodes share an id, KindDanglingReference when
// an edge names an unknown node and KindCycleDetected when the route is not
// acyclic. A repeated source/target pair is kept once.
func Build(nodes []domain.RouteNode, edges []domain.RouteEdge, limits Limits) (*Graph, error) {
	if limits.MaxNodes > 0 && len(nodes) > limits.MaxNodes {
		return nil, newError(KindGraphTooLarge, PhaseValidating,
			"route has %d nodes, limit is %d", len(nodes), limits.MaxNodes)
	}
	if limits.MaxEdges > 0 && len(edges) > limits.MaxEdges {
		return nil, newError(KindGraphTooLarge, PhaseValidating,
			"route has %d edges, limit is %d", len(edges), limits.MaxEdges)
	}

	g := &Graph{
		nodes: nodes,
		index: make(map[string]int, len(nodes)),
		preds: make([][]int, len(nodes)),
		succs: make([][]int, len(nodes)),
	}
	for i, n := range nodes {
		if _, dup := g.index[n.NodeID]; dup {
			err := newError(KindDuplicateNodeID, PhaseValidating, "duplicate node id %q", n.NodeID)
			err.NodeID = n.NodeID
			return nil, err
		}
		g.index[n.NodeID] = i
	}

	seen := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		src, ok := g.index[e.Source]
		if !ok {
			return nil, danglingError(e, e.Source)
		}
		dst, ok := g.index[e.Target]
		if !ok {
			return nil, danglingError(e, e.Target)
		}
		pair := [2]int{src, dst}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		g.edges = append(g.edges, e)
		g.succs[src] = append(g.succs[src], dst)
		g.preds[dst] = append(g.preds[dst], src)
	}

	order, err := schedule(g)
	if err != nil {
		return nil, err
	}
	g.order = order
	return g, nil
}

func danglingError(e domain.RouteEdge, missing string) *Error {
	err := newError(KindDanglingReference, PhaseValidating,
		"edge %s references unknown node %q", e.Key(), missing)
	err.NodeID = missing
	err.EdgeKey = e.Key()
	return err
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node at index i
func (g *Graph) Node(i int) domain.RouteNode {
	return g.nodes[i]
}

// Edges returns the de-duplicated edges in input order
func (g *Graph) Edges() []domain.RouteEdge {
	out := make([]domain.RouteEdge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Order returns the node ids in evaluation order
func (g *Graph) Order() []string {
	ids := make([]string, len(g.order))
	for i, idx := range g.order {
		ids[i] = g.nodes[idx].NodeID
	}
	return ids
}

// Predecessors returns the ids of the nodes feeding id, in edge order
func (g *Graph) Predecessors(id string) []string {
	return g.ids(g.preds, id)
}

// Successors returns the ids of the nodes fed by id, in edge order
func (g *Graph) Successors(id string) []string {
	return g.ids(g.succs, id)
}

func (g *Graph) ids(adj [][]int, id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, len(adj[i]))
	for k, j := range adj[i] {
		out[k] = g.nodes[j].NodeID
	}
	return out
}
