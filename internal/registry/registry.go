package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gosimple/slug"
)

// Registry is an immutable, validated-on-demand component catalog.
type Registry struct {
	pkg        string
	pkgVersion string
	entries    map[string]Entry
}

// New builds a registry from a catalog. Duplicate or empty ids are rejected;
// graph-level checks live in Validate.
func New(c *Catalog) (*Registry, error) {
	r := &Registry{
		pkg:        c.Package,
		pkgVersion: c.PackageVersion,
		entries:    make(map[string]Entry, len(c.Components)),
	}
	for _, e := range c.Components {
		if e.ID == "" {
			return nil, fmt.Errorf("component with empty id")
		}
		if _, dup := r.entries[e.ID]; dup {
			return nil, fmt.Errorf("duplicate component id %q", e.ID)
		}
		r.entries[e.ID] = e
	}
	return r, nil
}

// PackageName is the published package used by pre-packaged installs.
func (r *Registry) PackageName() string { return r.pkg }

// PackageSpec returns the pre-built package as name@range.
func (r *Registry) PackageSpec() Package {
	return Package{Name: r.pkg, Version: r.pkgVersion}
}

// Lookup returns the entry for id and whether it exists.
func (r *Registry) Lookup(id string) (Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// IDs returns every registered id in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered components.
func (r *Registry) Len() int { return len(r.entries) }

// Partition splits ids into registered and unregistered ones, dropping
// duplicates while keeping first-seen order.
func (r *Registry) Partition(ids []string) (valid, invalid []string) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if r.Has(id) {
			valid = append(valid, id)
		} else {
			invalid = append(invalid, id)
		}
	}
	return valid, invalid
}

// Validate checks the whole catalog: ids are slugs, every entry has an export
// name and at least one file, dependencies exist, and the dependency graph is
// acyclic.
func (r *Registry) Validate() error {
	var errs []error
	for _, id := range r.IDs() {
		e := r.entries[id]
		if !slug.IsSlug(id) {
			errs = append(errs, fmt.Errorf("component id %q is not a valid slug", id))
		}
		if e.ExportName == "" {
			errs = append(errs, fmt.Errorf("component %q has no export name", id))
		}
		if len(e.Files) == 0 {
			errs = append(errs, fmt.Errorf("component %q has no files", id))
		}
		for _, dep := range e.Dependencies {
			if !r.Has(dep) {
				errs = append(errs, fmt.Errorf("component %q depends on %q, which does not exist", id, dep))
			}
		}
		for _, p := range e.Packages {
			if p.Name == "" {
				errs = append(errs, fmt.Errorf("component %q declares a package without a name", id))
			}
		}
	}
	if cycle := r.findCycle(); cycle != nil {
		errs = append(errs, fmt.Errorf("circular dependency: %s", strings.Join(cycle, " → ")))
	}
	return errors.Join(errs...)
}

// findCycle returns the first dependency cycle found, or nil.
func (r *Registry) findCycle() []string {
	state := make(map[string]int) // 0=unvisited, 1=in-progress, 2=done
	var path []string

	var dfs func(id string) []string
	dfs = func(id string) []string {
		state[id] = 1
		path = append(path, id)

		for _, dep := range r.entries[id].Dependencies {
			if !r.Has(dep) {
				continue
			}
			switch state[dep] {
			case 1:
				for i, n := range path {
					if n == dep {
						cycle := append([]string{}, path[i:]...)
						return append(cycle, dep)
					}
				}
			case 0:
				if cycle := dfs(dep); cycle != nil {
					return cycle
				}
			}
		}

		path = path[:len(path)-1]
		state[id] = 2
		return nil
	}

	for _, id := range r.IDs() {
		if state[id] == 0 {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
