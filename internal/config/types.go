package config

import (
	"encoding/json"
	"sort"
)

// FileName is the project-local config file. Its presence and validity
// define whether a project is initialized.
const FileName = "ui-lab.config.json"

const (
	DefaultComponentDir = "components/ui"
	DefaultPathAlias    = "@/"
	DefaultPreset       = "neutral"
)

// InstallationType selects how components reach the consuming project.
type InstallationType string

const (
	// Headless copies component sources into the project.
	Headless InstallationType = "headless"
	// PrePackaged depends on the published component package.
	PrePackaged InstallationType = "pre-packaged"
)

// Valid reports whether t is a known installation type.
func (t InstallationType) Valid() bool {
	return t == Headless || t == PrePackaged
}

// Mode is the theme colour scheme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == Light || m == Dark
}

// Theme is the preset and mode chosen at init.
type Theme struct {
	Preset string `json:"preset"`
	Mode   Mode   `json:"mode"`
}

// ProjectConfig is the persisted project state.
type ProjectConfig struct {
	InstallationType    InstallationType `json:"installationType"`
	Theme               Theme            `json:"theme"`
	TypeScript          bool             `json:"typescript"`
	ComponentDir        string           `json:"componentDir"`
	PathAlias           string           `json:"pathAlias"`
	UseSrc              bool             `json:"useSrc"`
	InstalledComponents ComponentSet     `json:"installedComponents"`
}

// WithInstalled returns a copy of c whose installed set also contains ids.
// c itself is not modified.
func (c ProjectConfig) WithInstalled(ids ...string) ProjectConfig {
	c.InstalledComponents = c.InstalledComponents.Union(ids...)
	return c
}

// ComponentSet is a set of component ids. It is serialized as a sorted array.
type ComponentSet map[string]struct{}

// NewComponentSet builds a set from ids.
func NewComponentSet(ids ...string) ComponentSet {
	s := make(ComponentSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s ComponentSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Union returns a new set holding s and ids.
func (s ComponentSet) Union(ids ...string) ComponentSet {
	out := make(ComponentSet, len(s)+len(ids))
	for id := range s {
		out[id] = struct{}{}
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s ComponentSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s ComponentSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *ComponentSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewComponentSet(ids...)
	return nil
}
