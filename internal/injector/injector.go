// Package injector maintains the managed theme block inside the project's
// global stylesheet, leaving everything outside the markers untouched.
package injector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	MarkerStart = "/* ui-lab:theme:start (managed by ui-lab, do not edit) */"
	MarkerEnd   = "/* ui-lab:theme:end */"
)

// StylesheetPaths returns the conventional global stylesheet and its
// fallback, relative to the project root.
func StylesheetPaths(useSrc bool) (primary, fallback string) {
	if useSrc {
		return filepath.Join("src", "app", "globals.css"), filepath.Join("src", "styles", "globals.css")
	}
	return filepath.Join("app", "globals.css"), filepath.Join("styles", "globals.css")
}

// WriteTheme injects css into the primary stylesheet, or into the fallback
// when the primary cannot be written. It returns the relative path written.
func WriteTheme(projectDir string, useSrc bool, css string) (string, error) {
	primary, fallback := StylesheetPaths(useSrc)
	block := BuildBlock(css)

	primaryErr := Inject(filepath.Join(projectDir, primary), block)
	if primaryErr == nil {
		return primary, nil
	}
	if err := Inject(filepath.Join(projectDir, fallback), block); err != nil {
		return "", fmt.Errorf("writing theme to %s (%v) and %s: %w", primary, primaryErr, fallback, err)
	}
	return fallback, nil
}

// BuildBlock wraps css in the managed markers.
func BuildBlock(css string) string {
	var b strings.Builder
	b.WriteString(MarkerStart)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(css, "\n"))
	b.WriteString("\n")
	b.WriteString(MarkerEnd)
	return b.String()
}

// VerifyResult contains the verification result for a stylesheet.
type VerifyResult struct {
	Path     string
	Exists   bool
	HasBlock bool
}

// Verify checks whether path holds a complete managed block.
func Verify(path string) VerifyResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return VerifyResult{Path: path}
	}
	content := string(data)
	start := strings.Index(content, MarkerStart)
	end := strings.Index(content, MarkerEnd)
	return VerifyResult{Path: path, Exists: true, HasBlock: start >= 0 && end > start}
}

// FindTheme returns the first conventional stylesheet holding the block.
func FindTheme(projectDir string, useSrc bool) (VerifyResult, bool) {
	primary, fallback := StylesheetPaths(useSrc)
	for _, rel := range []string{primary, fallback} {
		if r := Verify(filepath.Join(projectDir, rel)); r.HasBlock {
			r.Path = rel
			return r, true
		}
	}
	return VerifyResult{Path: primary}, false
}

// Inject creates or updates the managed block in path.
func Inject(path, block string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return atomicWrite(path, block+"\n")
		}
		return err
	}

	content := string(data)

	startIdx := strings.Index(content, MarkerStart)
	endIdx := strings.Index(content, MarkerEnd)

	var newContent string
	if startIdx >= 0 && endIdx >= 0 && endIdx > startIdx {
		endIdx += len(MarkerEnd)
		newContent = content[:startIdx] + block + content[endIdx:]
	} else if startIdx >= 0 || endIdx >= 0 {
		// one marker without the other: drop the stray marker and append
		cleaned := strings.Replace(content, MarkerStart, "", 1)
		cleaned = strings.Replace(cleaned, MarkerEnd, "", 1)
		newContent = appendBlock(cleaned, block)
	} else {
		// appended so @import and @tailwind directives stay first
		newContent = appendBlock(content, block)
	}

	if newContent == content {
		return nil
	}
	return atomicWrite(path, newContent)
}

func appendBlock(content, block string) string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return block + "\n"
	}
	return content + "\n\n" + block + "\n"
}

// atomicWrite writes content to a file using a temp file and rename.
func atomicWrite(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}
