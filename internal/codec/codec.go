// Package codec reads and writes scenario documents in JSON and YAML.
package codec

import (
	"fmt"
	"io"
	"strings"

	"bioroute/internal/domain"
)

// DocumentKind tags exported scenario documents
const DocumentKind = "bioroute/scenario"

// Importer interface for importing scenarios from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Scenario, error)
	Format() string
}

// Exporter interface for exporting scenarios to various formats
type Exporter interface {
	Export(s *domain.Scenario, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
	ContentType() string
}

// document is the portable form of a scenario. Ids, share tokens and
// results are not part of it.
type document struct {
	Kind        string             `json:"kind" yaml:"kind"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Author      string             `json:"author,omitempty" yaml:"author,omitempty"`
	Nodes       []domain.RouteNode `json:"nodes" yaml:"nodes"`
	Edges       []domain.RouteEdge `json:"edges" yaml:"edges"`
}

func toDocument(s *domain.Scenario) document {
	return document{
		Kind:        DocumentKind,
		Name:        s.Name,
		Description: s.Description,
		Author:      s.Author,
		Nodes:       s.Nodes,
		Edges:       s.Edges,
	}
}

func (d document) toScenario() (*domain.Scenario, error) {
	if d.Kind != "" && d.Kind != DocumentKind {
		return nil, fmt.Errorf("unsupported document kind %q", d.Kind)
	}
	for i, n := range d.Nodes {
		if n.NodeID == "" {
			return nil, fmt.Errorf("node %d has no node_id", i)
		}
		if n.TechID == "" {
			return nil, fmt.Errorf("node %q has no tech_id", n.NodeID)
		}
	}
	for i, e := range d.Edges {
		if e.Source == "" || e.Target == "" {
			return nil, fmt.Errorf("edge %d needs both source and target", i)
		}
	}

	s := domain.NewScenario("", d.Name, domain.Route{Nodes: d.Nodes, Edges: d.Edges})
	s.Description = d.Description
	s.Author = d.Author
	return s, nil
}

// ForFormat returns the codec for "json" or "yaml" (also "yml")
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}
