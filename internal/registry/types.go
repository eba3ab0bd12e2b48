package registry

import (
	"path"
	"path/filepath"
	"strings"
)

// Catalog is the on-disk shape of a component catalog (catalog.yaml).
type Catalog struct {
	Version        int     `yaml:"version"`
	Package        string  `yaml:"package"`
	PackageVersion string  `yaml:"packageVersion"`
	Components     []Entry `yaml:"components"`
}

// Entry describes a single installable component.
type Entry struct {
	ID           string    `yaml:"id"`
	ExportName   string    `yaml:"export"`
	Category     string    `yaml:"category,omitempty"`
	Description  string    `yaml:"description,omitempty"`
	Dependencies []string  `yaml:"dependencies,omitempty"`
	Packages     []Package `yaml:"packages,omitempty"`
	Files        []File    `yaml:"files"`
}

// Module is the import path of the component relative to the component
// directory: its first file without the extension, and without a trailing
// /index.
func (e Entry) Module() string {
	if len(e.Files) == 0 {
		return e.ID
	}
	p := path.Clean(filepath.ToSlash(e.Files[0].Path))
	p = strings.TrimSuffix(p, path.Ext(p))
	if dir, base := path.Split(p); base == "index" && dir != "" {
		p = strings.TrimSuffix(dir, "/")
	}
	return p
}

// Package is an external npm package requirement.
type Package struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Spec returns the package in name@range form, as accepted by package managers.
func (p Package) Spec() string {
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "@" + p.Version
}

// File is one source file of a component. Template is rendered before it is
// written into the consuming project.
type File struct {
	Path     string `yaml:"path"`
	Template string `yaml:"template"`
}
