package detect

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// PackageManager identifies a host JavaScript package manager.
type PackageManager string

const (
	NPM  PackageManager = "npm"
	PNPM PackageManager = "pnpm"
	Yarn PackageManager = "yarn"
	Bun  PackageManager = "bun"
)

// lockfiles maps lockfile names to their package manager, checked in order.
var lockfiles = []struct {
	name    string
	manager PackageManager
}{
	{"pnpm-lock.yaml", PNPM},
	{"yarn.lock", Yarn},
	{"bun.lockb", Bun},
	{"bun.lock", Bun},
	{"package-lock.json", NPM},
}

// Project describes what was found at a project root.
type Project struct {
	Root           string
	HasPackageJSON bool
	PackageManager PackageManager
	TypeScript     bool
	UseSrc         bool
}

// DetectProject inspects root for a package manifest, lockfiles, a tsconfig
// and a src/ directory.
func DetectProject(root string) Project {
	return Project{
		Root:           root,
		HasPackageJSON: exists(filepath.Join(root, "package.json")),
		PackageManager: DetectPackageManager(root),
		TypeScript:     exists(filepath.Join(root, "tsconfig.json")),
		UseSrc:         isDir(filepath.Join(root, "src")),
	}
}

// DetectPackageManager picks the manager whose lockfile is present, falling
// back to npm.
func DetectPackageManager(root string) PackageManager {
	for _, lf := range lockfiles {
		if exists(filepath.Join(root, lf.name)) {
			return lf.manager
		}
	}
	return NPM
}

// PackageJSON is the subset of package.json the installer reads.
type PackageJSON struct {
	Name             string            `json:"name"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// Declared returns the range under which name is declared, searching
// dependencies, devDependencies and peerDependencies in that order.
func (p *PackageJSON) Declared(name string) (string, bool) {
	for _, deps := range []map[string]string{p.Dependencies, p.DevDependencies, p.PeerDependencies} {
		if v, ok := deps[name]; ok {
			return v, true
		}
	}
	return "", false
}

// ErrNoPackageJSON is returned when root has no package.json.
var ErrNoPackageJSON = errors.New("package.json not found")

// ReadPackageJSON parses root/package.json.
func ReadPackageJSON(root string) (*PackageJSON, error) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoPackageJSON
		}
		return nil, fmt.Errorf("reading package.json: %w", err)
	}

	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}
	return &pkg, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
