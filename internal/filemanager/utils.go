package filemanager

import (
	"context"
	"path"
)

const utilsTemplate = `[[if .TypeScript]]export type ClassValue = string | number | null | undefined | false | ClassValue[]

[[end]]// cn joins class names, skipping falsy values and flattening arrays.
export function cn(...inputs[[if .TypeScript]]: ClassValue[][[end]])[[if .TypeScript]]: string[[end]] {
  const out[[if .TypeScript]]: string[][[end]] = []
  for (const input of inputs) {
    if (!input) continue
    if (Array.isArray(input)) {
      const inner = cn(...input)
      if (inner) out.push(inner)
    } else {
      out.push(String(input))
    }
  }
  return out.join(" ")
}
`

// UtilsPath returns the project-relative location of the class-name helper.
func (m *Manager) UtilsPath() string {
	return path.Join(m.baseDir(), "lib", sourceExt("utils.ts", m.layout.TypeScript))
}

// PlanUtils renders the class-name helper the components import.
func (m *Manager) PlanUtils() (PlannedFile, error) {
	content, err := renderTemplate("utils", utilsTemplate, m.Data())
	if err != nil {
		return PlannedFile{}, err
	}
	f := PlannedFile{Path: m.UtilsPath(), Content: content}
	f.Action, err = m.classify(f)
	return f, err
}

// WriteUtils scaffolds the class-name helper. The output depends only on
// the layout, so repeated calls are no-ops.
func (m *Manager) WriteUtils(ctx context.Context) (PlannedFile, error) {
	f, err := m.PlanUtils()
	if err != nil {
		return f, err
	}
	if _, err := m.Apply(ctx, []PlannedFile{f}); err != nil {
		return f, err
	}
	return f, nil
}
