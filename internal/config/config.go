package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotInitialized is returned by Read when the project has no config file.
var ErrNotInitialized = errors.New("project not initialized: run 'ui-lab init' first")

// Manager reads and writes the config file of one project root.
type Manager struct {
	root string
}

// NewManager returns a manager scoped to root.
func NewManager(root string) *Manager {
	return &Manager{root: root}
}

// Path returns the absolute location of the config file.
func (m *Manager) Path() string {
	return filepath.Join(m.root, FileName)
}

// IsInitialized reports whether a readable, valid config exists.
func (m *Manager) IsInitialized() bool {
	_, err := m.Read()
	return err == nil
}

// Read parses the config file, fills defaults and validates it.
func (m *Manager) Read() (*ProjectConfig, error) {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var c ProjectConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	Normalize(&c)

	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Write persists c through a temp file and rename so a crash never leaves a
// truncated config behind.
func (m *Manager) Write(c *ProjectConfig) error {
	if err := Validate(c); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	target := m.Path()
	tmpPath := target + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// AddInstalledComponents unions ids into the installed set and rewrites the
// file, even when nothing changed.
func (m *Manager) AddInstalledComponents(ids []string) error {
	c, err := m.Read()
	if err != nil {
		return err
	}
	next := c.WithInstalled(ids...)
	return m.Write(&next)
}

// CreateDefaultConfig builds a fresh config with the documented defaults.
func CreateDefaultConfig(preset string, mode Mode, typescript bool, installationType InstallationType) ProjectConfig {
	c := ProjectConfig{
		InstallationType:    installationType,
		Theme:               Theme{Preset: preset, Mode: mode},
		TypeScript:          typescript,
		ComponentDir:        DefaultComponentDir,
		PathAlias:           DefaultPathAlias,
		InstalledComponents: ComponentSet{},
	}
	Normalize(&c)
	return c
}

// Normalize fills every optional field with its default. It is applied once
// at load time so callers never need their own fallbacks.
func Normalize(c *ProjectConfig) {
	if c.InstallationType == "" {
		c.InstallationType = Headless
	}
	if c.Theme.Preset == "" {
		c.Theme.Preset = DefaultPreset
	}
	if c.Theme.Mode == "" {
		c.Theme.Mode = Light
	}
	c.ComponentDir = strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(c.ComponentDir)), "./")
	if len(c.ComponentDir) > 1 {
		c.ComponentDir = strings.TrimRight(c.ComponentDir, "/")
	}
	if c.ComponentDir == "" || c.ComponentDir == "." {
		c.ComponentDir = DefaultComponentDir
	}
	if c.PathAlias == "" {
		c.PathAlias = DefaultPathAlias
	}
	if c.InstalledComponents == nil {
		c.InstalledComponents = ComponentSet{}
	}
}

// Validate checks the schema invariants of a config.
func Validate(c *ProjectConfig) error {
	if !c.InstallationType.Valid() {
		return fmt.Errorf("invalid installationType %q: want %q or %q", c.InstallationType, Headless, PrePackaged)
	}
	if !c.Theme.Mode.Valid() {
		return fmt.Errorf("invalid theme mode %q: want %q or %q", c.Theme.Mode, Light, Dark)
	}
	if c.ComponentDir == "" {
		return fmt.Errorf("componentDir is required")
	}
	if filepath.IsAbs(c.ComponentDir) || path.IsAbs(c.ComponentDir) {
		return fmt.Errorf("componentDir must be relative, got %q", c.ComponentDir)
	}
	for _, part := range strings.Split(filepath.ToSlash(c.ComponentDir), "/") {
		if part == ".." {
			return fmt.Errorf("componentDir must stay inside the project, got %q", c.ComponentDir)
		}
	}
	if c.PathAlias == "" {
		return fmt.Errorf("pathAlias is required")
	}
	return nil
}

// ImportPath returns the specifier for module, a path relative to the
// component directory, under the configured alias.
func (c ProjectConfig) ImportPath(module string) string {
	return c.PathAlias + c.ComponentDir + "/" + module
}
