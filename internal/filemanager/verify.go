package filemanager

import "path/filepath"

// VerifyResult contains the results of a verification check.
type VerifyResult struct {
	Component string
	OK        bool
	Missing   []string
	Modified  []string
}

// VerifyComponent compares the files of id on disk with a fresh render.
func (m *Manager) VerifyComponent(id string) (VerifyResult, error) {
	result := VerifyResult{Component: id, OK: true}

	files, err := m.Render(id)
	if err != nil {
		return result, err
	}

	for _, f := range files {
		state, err := compareFile(filepath.Join(m.projectDir, filepath.FromSlash(f.Path)), f.Content)
		if err != nil {
			return result, err
		}
		switch state {
		case stateMissing:
			result.Missing = append(result.Missing, f.Path)
			result.OK = false
		case stateDiffers:
			result.Modified = append(result.Modified, f.Path)
			result.OK = false
		}
	}
	return result, nil
}

// VerifyAll verifies each id in order, stopping at the first render error.
func (m *Manager) VerifyAll(ids []string) ([]VerifyResult, error) {
	results := make([]VerifyResult, 0, len(ids))
	for _, id := range ids {
		r, err := m.VerifyComponent(id)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}
