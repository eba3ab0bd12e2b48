package registry

import "github.com/sahilm/fuzzy"

// Suggest returns up to limit registered ids that fuzzily match id, best first.
func (r *Registry) Suggest(id string, limit int) []string {
	matches := fuzzy.Find(id, r.IDs())
	var out []string
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// Search matches term against ids, export names and descriptions.
func (r *Registry) Search(term string) []Entry {
	ids := r.IDs()
	haystack := make([]string, len(ids))
	for i, id := range ids {
		e := r.entries[id]
		haystack[i] = id + " " + e.ExportName + " " + e.Category + " " + e.Description
	}

	var out []Entry
	for _, m := range fuzzy.Find(term, haystack) {
		out = append(out, r.entries[ids[m.Index]])
	}
	return out
}
