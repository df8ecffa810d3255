package domain

import (
	"encoding/json"
	"time"
)

// Scenario is a saved route together with its last calculation
type Scenario struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Author      string          `json:"author,omitempty" yaml:"author,omitempty"`
	Nodes       []RouteNode     `json:"nodes" yaml:"nodes"`
	Edges       []RouteEdge     `json:"edges" yaml:"edges"`
	ShareToken  string          `json:"share_token,omitempty" yaml:"share_token,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Results     json.RawMessage `json:"results,omitempty" yaml:"-"`
	CreatedAt   time.Time       `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" yaml:"updated_at"`
}

// NewScenario creates a scenario for the given route
func NewScenario(id, name string, route Route) *Scenario {
	now := time.Now().UTC()
	return &Scenario{
		ID:        id,
		Name:      name,
		Nodes:     route.Nodes,
		Edges:     route.Edges,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Route returns the scenario graph
func (s *Scenario) Route() Route {
	return Route{Nodes: s.Nodes, Edges: s.Edges}
}

// ScenarioSummary is the list view of a scenario
type ScenarioSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Author     string    `json:"author,omitempty"`
	NodeCount  int       `json:"node_count"`
	ShareToken string    `json:"share_token,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Summarize returns the list view of s
func (s *Scenario) Summarize() ScenarioSummary {
	return ScenarioSummary{
		ID:         s.ID,
		Name:       s.Name,
		Author:     s.Author,
		NodeCount:  len(s.Nodes),
		ShareToken: s.ShareToken,
		UpdatedAt:  s.UpdatedAt,
	}
}

// Template is a pre-built route shipped with the catalog
type Template struct {
	ID            string      `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	NameEN        string      `json:"name_en,omitempty" yaml:"name_en,omitempty"`
	Description   string      `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionEN string      `json:"description_en,omitempty" yaml:"description_en,omitempty"`
	Nodes         []RouteNode `json:"nodes" yaml:"nodes"`
	Edges         []RouteEdge `json:"edges" yaml:"edges"`
}

// Route returns the template graph
func (t Template) Route() Route {
	return Route{Nodes: t.Nodes, Edges: t.Edges}
}
