package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/company/ui-lab/internal/registry"
)

// Catalog is the registry view the resolver needs.
type Catalog interface {
	Lookup(id string) (registry.Entry, bool)
}

// Resolution is the result of dependency resolution.
type Resolution struct {
	// Components is the transitive closure in topological order:
	// every component appears after all of its dependencies.
	Components []string
	// Packages holds the external packages, deduplicated by name and sorted.
	Packages []registry.Package
	// Conflicts lists packages required with disjoint version ranges.
	Conflicts []Conflict
	// Explicit are the components directly requested.
	Explicit map[string]bool
	// DependencyOf maps transitive deps to the component that first pulled them in.
	DependencyOf map[string]string
}

// HasConflicts reports whether installation must be blocked.
func (r *Resolution) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Conflict describes one package whose version ranges cannot all be satisfied.
type Conflict struct {
	Package    string   `json:"package"`
	RequiredBy []string `json:"requiredBy"`
	Ranges     []string `json:"ranges"`
}

func (c Conflict) String() string {
	parts := make([]string, len(c.RequiredBy))
	for i := range c.RequiredBy {
		parts[i] = fmt.Sprintf("%s wants %s", c.RequiredBy[i], c.Ranges[i])
	}
	return fmt.Sprintf("%s (%s)", c.Package, strings.Join(parts, ", "))
}

// CircularDependencyError indicates a cycle in the dependency graph.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Cycle, " → "))
}

// MissingComponentError indicates a requested component doesn't exist.
type MissingComponentError struct {
	Component string
}

func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("component not found: %s", e.Component)
}

// MissingDependencyError indicates a dependency doesn't exist.
type MissingDependencyError struct {
	Component  string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("component %q depends on %q, which does not exist", e.Component, e.Dependency)
}

// Resolver resolves component dependencies against a catalog.
type Resolver struct {
	catalog Catalog
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve computes the closure of explicit, orders it with Kahn's algorithm
// and aggregates external packages. Version conflicts are reported in the
// Resolution, not as an error; errors are reserved for ids missing from the
// catalog and for cycles.
func (r *Resolver) Resolve(explicit []string) (*Resolution, error) {
	for _, id := range explicit {
		if _, ok := r.catalog.Lookup(id); !ok {
			return nil, &MissingComponentError{Component: id}
		}
	}

	needed := make(map[string]registry.Entry)
	explicitSet := make(map[string]bool)
	dependencyOf := make(map[string]string)

	for _, id := range explicit {
		explicitSet[id] = true
	}

	// BFS to find all transitive dependencies
	queue := make([]string, len(explicit))
	copy(queue, explicit)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if _, seen := needed[current]; seen {
			continue
		}
		entry, ok := r.catalog.Lookup(current)
		if !ok {
			return nil, &MissingComponentError{Component: current}
		}
		needed[current] = entry

		for _, dep := range entry.Dependencies {
			if _, ok := r.catalog.Lookup(dep); !ok {
				return nil, &MissingDependencyError{Component: current, Dependency: dep}
			}
			if !explicitSet[dep] && dependencyOf[dep] == "" {
				dependencyOf[dep] = current
			}
			queue = append(queue, dep)
		}
	}

	order, err := r.topoSort(needed)
	if err != nil {
		return nil, err
	}

	packages, conflicts := collectPackages(order, needed)

	return &Resolution{
		Components:   order,
		Packages:     packages,
		Conflicts:    conflicts,
		Explicit:     explicitSet,
		DependencyOf: dependencyOf,
	}, nil
}

// topoSort orders needed components dependencies-first. Ties are broken
// alphabetically so the order depends only on the closure, not on the
// order ids were requested in.
func (r *Resolver) topoSort(needed map[string]registry.Entry) ([]string, error) {
	inDegree := make(map[string]int, len(needed))
	adj := make(map[string][]string) // dep -> dependents
	for id, entry := range needed {
		if _, ok := inDegree[id]; !ok {
			inDegree[id] = 0
		}
		for _, dep := range uniqueStrings(entry.Dependencies) {
			if _, ok := needed[dep]; ok {
				adj[dep] = append(adj[dep], id)
				inDegree[id]++
			}
		}
	}

	var ready []string
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(needed))
	for len(ready) > 0 {
		sort.Strings(ready)
		node := ready[0]
		ready = ready[1:]
		order = append(order, node)

		for _, dependent := range adj[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) != len(needed) {
		return nil, &CircularDependencyError{Cycle: findCycle(needed)}
	}
	return order, nil
}

type requirement struct {
	component string
	rng       string
}

// collectPackages unions package requirements in topological order. For each
// package name the first requirement wins unless another one is disjoint
// from it, in which case every requirement for that name is reported.
func collectPackages(order []string, needed map[string]registry.Entry) ([]registry.Package, []Conflict) {
	byName := make(map[string][]requirement)
	for _, id := range order {
		for _, p := range needed[id].Packages {
			byName[p.Name] = append(byName[p.Name], requirement{component: id, rng: p.Version})
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	packages := make([]registry.Package, 0, len(names))
	var conflicts []Conflict
	for _, name := range names {
		reqs := byName[name]
		if !compatible(reqs) {
			c := Conflict{Package: name}
			for _, req := range reqs {
				c.RequiredBy = append(c.RequiredBy, req.component)
				c.Ranges = append(c.Ranges, req.rng)
			}
			conflicts = append(conflicts, c)
			continue
		}
		packages = append(packages, registry.Package{Name: name, Version: reqs[0].rng})
	}
	return packages, conflicts
}

func compatible(reqs []requirement) bool {
	for i := 0; i < len(reqs); i++ {
		for j := i + 1; j < len(reqs); j++ {
			if !RangesIntersect(reqs[i].rng, reqs[j].rng) {
				return false
			}
		}
	}
	return true
}

// findCycle finds a cycle among the needed components.
func findCycle(needed map[string]registry.Entry) []string {
	visited := make(map[string]int) // 0=unvisited, 1=in-progress, 2=done
	var path []string

	var dfs func(node string) []string
	dfs = func(node string) []string {
		visited[node] = 1
		path = append(path, node)

		for _, dep := range needed[node].Dependencies {
			if _, ok := needed[dep]; !ok {
				continue
			}
			if visited[dep] == 1 {
				for i, n := range path {
					if n == dep {
						cycle := make([]string, len(path[i:])+1)
						copy(cycle, path[i:])
						cycle[len(cycle)-1] = dep
						return cycle
					}
				}
			}
			if visited[dep] == 0 {
				if cycle := dfs(dep); cycle != nil {
					return cycle
				}
			}
		}

		path = path[:len(path)-1]
		visited[node] = 2
		return nil
	}

	ids := make([]string, 0, len(needed))
	for id := range needed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if visited[id] == 0 {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
