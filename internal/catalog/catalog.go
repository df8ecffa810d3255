// Package catalog loads the technology reference and route templates from
// YAML and keeps the current version available for lock-free reads.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"bioroute/internal/domain"
)

//go:embed data/technologies.yaml
var defaultTechnologies []byte

//go:embed data/templates.yaml
var defaultTemplates []byte

// EmbeddedSource names the catalog compiled into the binary
const EmbeddedSource = "embedded"

type technologiesFile struct {
	Version      string              `yaml:"version"`
	Technologies []domain.Technology `yaml:"technologies"`
}

type templatesFile struct {
	Templates []domain.Template `yaml:"templates"`
}

// Snapshot is one immutable load of the catalog and its templates. Digest
// hashes the raw documents it was built from.
type Snapshot struct {
	Catalog   *domain.Catalog
	Templates []domain.Template
	Source    string
	Digest    string
	LoadedAt  time.Time
}

// Template returns the template with the given id
func (s *Snapshot) Template(id string) (domain.Template, bool) {
	for _, t := range s.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Template{}, false
}

// Parse decodes a technologies document
func Parse(data []byte) (*domain.Catalog, error) {
	var f technologiesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse technologies: %w", err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("technologies document has no version")
	}
	for _, t := range f.Technologies {
		if t.Category == "" {
			return nil, fmt.Errorf("technology %q has no category", t.ID)
		}
	}
	return domain.NewCatalog(f.Version, f.Technologies)
}

// ParseTemplates decodes a templates document and checks every node
// against c.
func ParseTemplates(data []byte, c *domain.Catalog) ([]domain.Template, error) {
	var f templatesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	seen := make(map[string]bool, len(f.Templates))
	for _, t := range f.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template without id")
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("template %q defined more than once", t.ID)
		}
		seen[t.ID] = true
		for _, n := range t.Nodes {
			if _, ok := c.Lookup(n.TechID); !ok {
				return nil, fmt.Errorf("template %q: node %q references unknown technology %q", t.ID, n.NodeID, n.TechID)
			}
		}
	}
	return f.Templates, nil
}

// Default returns the embedded catalog
func Default() (*Snapshot, error) {
	return build(defaultTechnologies, defaultTemplates, EmbeddedSource)
}

// Load reads the catalog from files. An empty path selects the embedded
// document for that part.
func Load(technologiesPath, templatesPath string) (*Snapshot, error) {
	techData, source := defaultTechnologies, EmbeddedSource
	if technologiesPath != "" {
		data, err := os.ReadFile(technologiesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read technologies: %w", err)
		}
		techData, source = data, technologiesPath
	}

	tplData := defaultTemplates
	if templatesPath != "" {
		data, err := os.ReadFile(templatesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read templates: %w", err)
		}
		tplData = data
	}
	return build(techData, tplData, source)
}

func build(techData, tplData []byte, source string) (*Snapshot, error) {
	c, err := Parse(techData)
	if err != nil {
		return nil, err
	}
	templates, err := ParseTemplates(tplData, c)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Catalog:   c,
		Templates: templates,
		Source:    source,
		Digest:    digest(techData, tplData),
		LoadedAt:  time.Now().UTC(),
	}, nil
}

func digest(techData, tplData []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write(techData)
	h.Write([]byte{0})
	h.Write(tplData)
	return hex.EncodeToString(h.Sum(nil))
}
