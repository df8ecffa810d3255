package engine

import (
	"bioroute/internal/domain"
)

// Reference resolves technology ids. Implementations must be safe for
// concurrent reads and must not change during a calculation.
type Reference interface {
	Lookup(techID string) (domain.Technology, bool)
}

// ReferenceMap is a Reference backed by a plain map
type ReferenceMap map[string]domain.Technology

// Lookup implements Reference
func (m ReferenceMap) Lookup(techID string) (domain.Technology, bool) {
	t, ok := m[techID]
	return t, ok
}

// Engine evaluates routes. It holds no per-call state.
type Engine struct {
	registry *Registry
	limits   Limits
}

// Option configures an Engine
type Option func(*Engine)

// WithLimits sets the route size ceiling
func WithLimits(l Limits) Option {
	return func(e *Engine) {
		e.limits = l
	}
}

// WithRegistry replaces the built-in evaluators
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// New creates an Engine with the default registry
func New(opts ...Option) *Engine {
	e := &Engine{registry: DefaultRegistry()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Limits returns the configured size ceiling
func (e *Engine) Limits() Limits {
	return e.limits
}

// Calculate validates and evaluates route against ref.
// On failure it returns a *Error and no partial result.
func (e *Engine) Calculate(ref Reference, route domain.Route) (*Result, error) {
	g, err := Build(route.Nodes, route.Edges, e.limits)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ref, g)
}

// Evaluate runs an already built graph
func (e *Engine) Evaluate(ref Reference, g *Graph) (*Result, error) {
	// keyed by node index pair; ids may themselves contain "->"
	flows := make(map[[2]int]Stream, len(g.edges))
	streams := make(map[string]Stream, len(g.edges))
	details := make(map[string]NodeResult, len(g.nodes))
	ordered := make([]NodeResult, 0, len(g.nodes))

	for _, i := range g.order {
		node := g.nodes[i]
		tech, ok := ref.Lookup(node.TechID)
		if !ok {
			err := newError(KindUnknownTechnology, PhaseEvaluating,
				"node %q references unknown technology %q", node.NodeID, node.TechID)
			err.NodeID = node.NodeID
			return nil, err
		}
		if tech.ID == "" {
			tech.ID = node.TechID
		}

		inputs := make([]Stream, 0, len(g.preds[i]))
		for _, p := range g.preds[i] {
			inputs = append(inputs, flows[[2]int{p, i}])
		}

		out, values := e.registry.Lookup(tech.Category).Evaluate(Input{
			Tech:   tech,
			Params: node.Parameters,
			Merged: Sum(inputs...),
		})
		if values == nil {
			values = Values{}
		}

		res := NodeResult{
			NodeID:   node.NodeID,
			TechID:   node.TechID,
			TechName: tech.Name,
			Category: tech.Category,
			Values:   values,
		}
		details[node.NodeID] = res
		ordered = append(ordered, res)

		for _, s := range g.succs[i] {
			flows[[2]int{i, s}] = out
			streams[domain.EdgeKey(node.NodeID, g.nodes[s].NodeID)] = out
		}
	}

	return &Result{
		Summary:     Aggregate(ordered),
		NodeDetails: details,
		Streams:     streams,
		Order:       g.Order(),
	}, nil
}
