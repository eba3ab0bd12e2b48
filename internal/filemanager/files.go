// Package filemanager renders component templates and writes them into the
// consuming project.
package filemanager

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"text/template"

	"github.com/company/ui-lab/internal/registry"
)

// Catalog is the registry view the file manager needs.
type Catalog interface {
	Lookup(id string) (registry.Entry, bool)
}

// Layout describes where files land in the consuming project.
type Layout struct {
	ComponentDir string
	PathAlias    string
	TypeScript   bool
	UseSrc       bool
}

// TemplateData is passed to every component template.
type TemplateData struct {
	Alias           string
	ComponentDir    string
	ComponentImport string
	UtilsImport     string
	TypeScript      bool
}

// Action says what writing a planned file does to the disk.
type Action string

const (
	Create    Action = "create"
	Overwrite Action = "overwrite"
	Unchanged Action = "unchanged"
)

// PlannedFile is one rendered file and the action needed to put it on disk.
type PlannedFile struct {
	Component string
	Path      string // relative to the project root, slash separated
	Content   []byte
	Action    Action
}

// WriteError reports the file that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Manager renders and writes component files for one project.
type Manager struct {
	catalog    Catalog
	projectDir string
	layout     Layout

	// write is swapped in tests to simulate flaky disks.
	write func(path string, data []byte) error
}

// NewManager creates a file manager rooted at projectDir.
func NewManager(catalog Catalog, projectDir string, layout Layout) *Manager {
	return &Manager{
		catalog:    catalog,
		projectDir: projectDir,
		layout:     layout,
		write:      atomicWriteFile,
	}
}

// baseDir is the project-relative directory the path alias points at.
func (m *Manager) baseDir() string {
	if m.layout.UseSrc {
		return "src"
	}
	return ""
}

// ComponentDir returns the project-relative directory holding components.
func (m *Manager) ComponentDir() string {
	return path.Join(m.baseDir(), m.layout.ComponentDir)
}

// Data returns the template data derived from the layout.
func (m *Manager) Data() TemplateData {
	return TemplateData{
		Alias:           m.layout.PathAlias,
		ComponentDir:    m.layout.ComponentDir,
		ComponentImport: m.layout.PathAlias + m.layout.ComponentDir,
		UtilsImport:     m.layout.PathAlias + "lib/utils",
		TypeScript:      m.layout.TypeScript,
	}
}

// Render renders every file of component id without touching the disk.
func (m *Manager) Render(id string) ([]PlannedFile, error) {
	entry, ok := m.catalog.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("component not found: %s", id)
	}

	data := m.Data()
	files := make([]PlannedFile, 0, len(entry.Files))
	for _, f := range entry.Files {
		if err := validateRelPath(f.Path, "file path"); err != nil {
			return nil, fmt.Errorf("component %s: %w", id, err)
		}

		content, err := renderTemplate(id+"/"+f.Path, f.Template, data)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", id, err)
		}

		files = append(files, PlannedFile{
			Component: id,
			Path:      path.Join(m.ComponentDir(), sourceExt(filepath.ToSlash(f.Path), m.layout.TypeScript)),
			Content:   content,
		})
	}
	return files, nil
}

// Plan renders the components in order and classifies each file against
// what is on disk.
func (m *Manager) Plan(ids []string) ([]PlannedFile, error) {
	var plan []PlannedFile
	for _, id := range ids {
		files, err := m.Render(id)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			action, err := m.classify(f)
			if err != nil {
				return nil, err
			}
			f.Action = action
			plan = append(plan, f)
		}
	}
	return plan, nil
}

// InstallComponentFiles writes the files of ids in order. Files whose content
// already matches are left alone; differing files are overwritten. On
// failure the files written so far stay on disk and are returned with a
// *WriteError.
func (m *Manager) InstallComponentFiles(ctx context.Context, ids []string) ([]PlannedFile, error) {
	plan, err := m.Plan(ids)
	if err != nil {
		return nil, err
	}
	return m.Apply(ctx, plan)
}

// Apply writes every planned file that is not Unchanged.
func (m *Manager) Apply(ctx context.Context, plan []PlannedFile) ([]PlannedFile, error) {
	var written []PlannedFile
	for _, f := range plan {
		if f.Action == Unchanged {
			continue
		}

		dest := filepath.Join(m.projectDir, filepath.FromSlash(f.Path))
		if err := validateInsideDir(m.projectDir, dest); err != nil {
			return written, &WriteError{Path: f.Path, Err: err}
		}

		err := retry(ctx, writeAttempts, writeDelay, func() error {
			return m.write(dest, f.Content)
		})
		if err != nil {
			return written, &WriteError{Path: f.Path, Err: err}
		}
		written = append(written, f)
	}
	return written, nil
}

func (m *Manager) classify(f PlannedFile) (Action, error) {
	dest := filepath.Join(m.projectDir, filepath.FromSlash(f.Path))
	if err := validateInsideDir(m.projectDir, dest); err != nil {
		return "", err
	}

	state, err := compareFile(dest, f.Content)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", f.Path, err)
	}
	switch state {
	case stateMissing:
		return Create, nil
	case stateMatches:
		return Unchanged, nil
	default:
		return Overwrite, nil
	}
}

func renderTemplate(name, text string, data TemplateData) ([]byte, error) {
	tmpl, err := template.New(name).Delims("[[", "]]").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// atomicWriteFile writes data through a temp file and rename, creating
// parent directories as needed.
func atomicWriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
