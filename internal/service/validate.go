package service

import (
	"fmt"

	"bioroute/internal/domain"
	"bioroute/internal/engine"
)

// KindIncompatibleConnection marks an edge whose source produces nothing the
// target accepts
const KindIncompatibleConnection = "IncompatibleConnection"

// Issue is one validation finding
type Issue struct {
	Kind    string `json:"kind"`
	NodeID  string `json:"node_id,omitempty"`
	Edge    string `json:"edge,omitempty"`
	Message string `json:"message"`
}

// Validation is the outcome of Validate
type Validation struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func (v *Validation) fail(i Issue) {
	v.Valid = false
	v.Errors = append(v.Errors, i)
}

func (v *Validation) warn(i Issue) {
	v.Warnings = append(v.Warnings, i)
}

// Validate checks route without calculating it. Structural failures (size,
// duplicate ids, dangling edges, cycles) stop at the first one found, the
// catalog checks report every offending node and edge.
func (s *RouteService) Validate(route domain.Route) *Validation {
	v := &Validation{Valid: true, Errors: []Issue{}, Warnings: []Issue{}}
	ref := s.store.Current().Catalog

	if _, err := engine.Build(route.Nodes, route.Edges, s.engine.Limits()); err != nil {
		if e, ok := engine.AsError(err); ok {
			v.fail(Issue{Kind: string(e.Kind), NodeID: e.NodeID, Edge: e.EdgeKey, Message: e.Message})
		} else {
			v.fail(Issue{Kind: "Invalid", Message: err.Error()})
		}
	}

	techs := make(map[string]domain.Technology, len(route.Nodes))
	for _, n := range route.Nodes {
		tech, ok := ref.Lookup(n.TechID)
		if !ok {
			v.fail(Issue{
				Kind:    string(engine.KindUnknownTechnology),
				NodeID:  n.NodeID,
				Message: fmt.Sprintf("node %q references unknown technology %q", n.NodeID, n.TechID),
			})
			continue
		}
		techs[n.NodeID] = tech
	}

	incoming := make(map[string]int, len(route.Nodes))
	outgoing := make(map[string]int, len(route.Nodes))
	for _, e := range route.Edges {
		incoming[e.Target]++
		outgoing[e.Source]++

		src, okSrc := techs[e.Source]
		dst, okDst := techs[e.Target]
		if !okSrc || !okDst {
			continue
		}
		if !src.CanFeed(dst) {
			v.fail(Issue{
				Kind: KindIncompatibleConnection,
				Edge: e.Key(),
				Message: fmt.Sprintf("%s outputs %v but %s accepts %v",
					src.Name, src.Outputs, dst.Name, dst.Accepts),
			})
		}
	}

	for _, n := range route.Nodes {
		tech, ok := techs[n.NodeID]
		if !ok {
			continue
		}
		switch {
		case tech.Category == domain.CategoryFeedstock && outgoing[n.NodeID] == 0:
			v.warn(Issue{Kind: "Unconnected", NodeID: n.NodeID,
				Message: fmt.Sprintf("feedstock %q feeds nothing", n.NodeID)})
		case tech.Category != domain.CategoryFeedstock && incoming[n.NodeID] == 0:
			v.warn(Issue{Kind: "Unconnected", NodeID: n.NodeID,
				Message: fmt.Sprintf("node %q has no input", n.NodeID)})
		}
	}

	return v
}
