package domain

// Position is the canvas position of a route node
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// RouteNode is one technology instance placed in a route
type RouteNode struct {
	NodeID     string             `json:"node_id" yaml:"node_id"`
	TechID     string             `json:"tech_id" yaml:"tech_id"`
	Position   *Position          `json:"position,omitempty" yaml:"position,omitempty"`
	Parameters map[string]float64 `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// NewRouteNode creates a node with an empty parameter set
func NewRouteNode(nodeID, techID string) RouteNode {
	return RouteNode{
		NodeID:     nodeID,
		TechID:     techID,
		Parameters: make(map[string]float64),
	}
}

// WithParam returns a copy of n with parameter key set to v
func (n RouteNode) WithParam(key string, v float64) RouteNode {
	params := make(map[string]float64, len(n.Parameters)+1)
	for k, val := range n.Parameters {
		params[k] = val
	}
	params[key] = v
	n.Parameters = params
	return n
}

// RouteEdge is a directed connection between two route nodes
type RouteEdge struct {
	Source       string `json:"source" yaml:"source"`
	Target       string `json:"target" yaml:"target"`
	SourceHandle string `json:"source_handle,omitempty" yaml:"source_handle,omitempty"`
	TargetHandle string `json:"target_handle,omitempty" yaml:"target_handle,omitempty"`
}

// Key returns the stream key of the edge, "source->target"
func (e RouteEdge) Key() string {
	return EdgeKey(e.Source, e.Target)
}

// EdgeKey builds the stream key for a source/target pair
func EdgeKey(source, target string) string {
	return source + "->" + target
}

// Route is a user-assembled technology graph
type Route struct {
	Nodes []RouteNode `json:"nodes" yaml:"nodes"`
	Edges []RouteEdge `json:"edges" yaml:"edges"`
}

// Node returns the node with the given id
func (r *Route) Node(id string) (RouteNode, bool) {
	for _, n := range r.Nodes {
		if n.NodeID == id {
			return n, true
		}
	}
	return RouteNode{}, false
}
