package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
)

// DocEntry describes one operation of one API version.
type DocEntry struct {
	Name         string `json:"name"`
	Method       string `json:"method"`
	Path         string `json:"path"`
	Anonymous    bool   `json:"anonymous"`
	RequiredRole string `json:"requiredRole,omitempty"`
}

// DocIndex is the generated documentation for a single API version.
type DocIndex struct {
	Version    string     `json:"version"`
	Operations []DocEntry `json:"operations"`
}

// BuildDocs resolves the route table into per-version documentation.
// Resolution failures (unroutable or duplicate routes) surface here, which
// makes BuildDocs the startup check for the route table.
func BuildDocs(routes []Route) (map[string]*DocIndex, error) {
	byVersion, err := ResolveVersions(routes)
	if err != nil {
		return nil, err
	}

	docs := make(map[string]*DocIndex, len(byVersion))
	for tag, served := range byVersion {
		index := &DocIndex{Version: tag}
		for _, route := range served {
			index.Operations = append(index.Operations, DocEntry{
				Name:         route.Name,
				Method:       route.Method,
				Path:         "/api/v" + tag + "/catalog" + route.Pattern,
				Anonymous:    !route.Policy.RequireAuth,
				RequiredRole: route.Policy.RequiredRole,
			})
		}
		sort.Slice(index.Operations, func(i, j int) bool {
			a, b := index.Operations[i], index.Operations[j]
			if a.Path != b.Path {
				return a.Path < b.Path
			}
			return a.Method < b.Method
		})
		docs[tag] = index
	}
	return docs, nil
}

// DocsHandler serves the generated documentation for /docs/{version}.
func DocsHandler(docs map[string]*DocIndex) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := docs[chi.URLParam(r, "version")]
		if !ok {
			http.Error(w, "unknown API version", http.StatusNotFound)
			return
		}
		respondJSON(w, http.StatusOK, index)
	}
}
