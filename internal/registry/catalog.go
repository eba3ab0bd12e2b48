package registry

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var bundledCatalog []byte

// Bundled returns the registry compiled into the binary.
func Bundled() (*Registry, error) {
	return Parse(bundledCatalog)
}

// LoadFile reads an alternate catalog from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML and builds a validated registry.
func Parse(data []byte) (*Registry, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if c.Version < 1 {
		return nil, fmt.Errorf("invalid catalog version: %d", c.Version)
	}
	r, err := New(&c)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return r, nil
}
