package domain

import (
	"fmt"
	"sort"
)

// Category is the technology category tag used for evaluator dispatch
type Category string

const (
	CategoryFeedstock    Category = "feedstock"
	CategoryPretreatment Category = "pretreatment"
	CategoryDigester     Category = "digester"
	CategoryUpgrading    Category = "upgrading"
	CategoryEndUse       Category = "enduse"
	CategoryByproduct    Category = "byproduct"
)

// Categories lists the known categories in route order
var Categories = []Category{
	CategoryFeedstock,
	CategoryPretreatment,
	CategoryDigester,
	CategoryUpgrading,
	CategoryEndUse,
	CategoryByproduct,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParameterSpec describes a user-adjustable parameter of a technology
type ParameterSpec struct {
	Key          string  `json:"key" yaml:"key"`
	Label        string  `json:"label" yaml:"label"`
	Unit         string  `json:"unit" yaml:"unit"`
	DefaultValue float64 `json:"default_value" yaml:"default_value"`
	Min          float64 `json:"min" yaml:"min"`
	Max          float64 `json:"max" yaml:"max"`
	Step         float64 `json:"step" yaml:"step"`
	Tooltip      string  `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
}

// Technology is one entry of the technology reference catalog
type Technology struct {
	ID          string             `json:"id" yaml:"id"`
	Category    Category           `json:"category" yaml:"category"`
	Name        string             `json:"name" yaml:"name"`
	NameEN      string             `json:"name_en,omitempty" yaml:"name_en,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string             `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color       string             `json:"color,omitempty" yaml:"color,omitempty"`
	Accepts     []string           `json:"accepts" yaml:"accepts"`
	Outputs     []string           `json:"outputs" yaml:"outputs"`
	Parameters  []ParameterSpec    `json:"parameters" yaml:"parameters"`
	Defaults    map[string]float64 `json:"defaults" yaml:"defaults"`
	References  []string           `json:"references,omitempty" yaml:"references,omitempty"`
}

// Default returns the catalog default for key
func (t Technology) Default(key string) (float64, bool) {
	v, ok := t.Defaults[key]
	return v, ok
}

// Parameter returns the parameter descriptor for key
func (t Technology) Parameter(key string) (ParameterSpec, bool) {
	for _, p := range t.Parameters {
		if p.Key == key {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// CanFeed reports whether any output type of t is accepted by next
func (t Technology) CanFeed(next Technology) bool {
	for _, out := range t.Outputs {
		for _, in := range next.Accepts {
			if out == in {
				return true
			}
		}
	}
	return false
}

// Catalog is an immutable, versioned set of technologies.
// Callers must not modify the technologies it returns.
type Catalog struct {
	version string
	techs   []Technology
	index   map[string]int
}

// NewCatalog builds a catalog, rejecting empty or repeated ids
func NewCatalog(version string, techs []Technology) (*Catalog, error) {
	c := &Catalog{
		version: version,
		techs:   make([]Technology, 0, len(techs)),
		index:   make(map[string]int, len(techs)),
	}
	for i, t := range techs {
		if t.ID == "" {
			return nil, fmt.Errorf("technology at position %d has no id", i)
		}
		if _, dup := c.index[t.ID]; dup {
			return nil, fmt.Errorf("technology %q defined more than once", t.ID)
		}
		if t.Defaults == nil {
			t.Defaults = map[string]float64{}
		}
		c.index[t.ID] = len(c.techs)
		c.techs = append(c.techs, t)
	}
	return c, nil
}

// Version returns the catalog version string
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of technologies
func (c *Catalog) Len() int {
	return len(c.techs)
}

// Lookup returns the technology with the given id
func (c *Catalog) Lookup(id string) (Technology, bool) {
	i, ok := c.index[id]
	if !ok {
		return Technology{}, false
	}
	return c.techs[i], true
}

// All returns every technology in catalog order
func (c *Catalog) All() []Technology {
	out := make([]Technology, len(c.techs))
	copy(out, c.techs)
	return out
}

// ByCategory returns the technologies of one category in catalog order
func (c *Catalog) ByCategory(cat Category) []Technology {
	var out []Technology
	for _, t := range c.techs {
		if t.Category == cat {
			out = append(out, t)
		}
	}
	return out
}

// Grouped returns the technologies keyed by category
func (c *Catalog) Grouped() map[Category][]Technology {
	out := make(map[Category][]Technology)
	for _, t := range c.techs {
		out[t.Category] = append(out[t.Category], t)
	}
	return out
}

// IDs returns the sorted technology ids
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.index))
	for id := range c.index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
