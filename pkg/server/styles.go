package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StyleTable maps CURIE namespaces to the display class the frontend
// uses to color result rows. Unknown namespaces fall back to Default.
type StyleTable struct {
	Default string            `yaml:"default" json:"default"`
	Classes map[string]string `yaml:"classes" json:"classes"`
}

// DefaultStyles returns the built-in namespace style table.
func DefaultStyles() *StyleTable {
	return &StyleTable{
		Default: "badge-secondary",
		Classes: map[string]string{
			"go":           "badge-success",
			"wikipathways": "badge-info",
			"reactome":     "badge-info",
			"hp":           "badge-warning",
			"hgnc":         "badge-primary",
			"fplx":         "badge-primary",
			"chebi":        "badge-danger",
			"ec-code":      "badge-danger",
			"mesh":         "badge-dark",
		},
	}
}

// LoadStyles reads a style table from a YAML file, filling gaps from
// the defaults.
func LoadStyles(path string) (*StyleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style table: %w", err)
	}
	t := DefaultStyles()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse style table: %w", err)
	}
	if t.Default == "" {
		t.Default = DefaultStyles().Default
	}
	return t, nil
}

// Class returns the style class for a namespace.
func (t *StyleTable) Class(namespace string) string {
	if c, ok := t.Classes[namespace]; ok {
		return c
	}
	return t.Default
}
