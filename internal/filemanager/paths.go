package filemanager

import (
	"fmt"
	"path/filepath"
	"strings"
)

// validateRelPath rejects registry paths that could escape the component
// directory.
func validateRelPath(name, label string) error {
	if name == "" {
		return fmt.Errorf("empty %s", label)
	}
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned != filepath.FromSlash(name) || filepath.IsAbs(cleaned) {
		return fmt.Errorf("invalid %s: %q", label, name)
	}
	for _, part := range strings.Split(filepath.ToSlash(cleaned), "/") {
		if part == ".." {
			return fmt.Errorf("invalid %s: %q", label, name)
		}
	}
	return nil
}

// validateInsideDir checks that resolved is a child of base after cleaning.
func validateInsideDir(base, resolved string) error {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return err
	}
	absResolved, err := filepath.Abs(resolved)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(absResolved, absBase+string(filepath.Separator)) && absResolved != absBase {
		return fmt.Errorf("path %q escapes base directory %q", resolved, base)
	}
	return nil
}

// sourceExt maps TypeScript sources to their JavaScript counterparts when
// the project does not use TypeScript.
func sourceExt(path string, typescript bool) string {
	if typescript {
		return path
	}
	switch filepath.Ext(path) {
	case ".tsx":
		return strings.TrimSuffix(path, ".tsx") + ".jsx"
	case ".ts":
		if strings.HasSuffix(path, ".d.ts") {
			return path
		}
		return strings.TrimSuffix(path, ".ts") + ".js"
	}
	return path
}
