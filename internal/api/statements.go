package api

import (
	"net/http"
	"strings"
)

func (s *Server) handleParseStatement(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readUpload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file upload is required"})
		return
	}

	categories, err := s.promptCategories(r)
	if err != nil {
		writeError(w, err)
		return
	}

	txns, err := s.services.Statements.Parse(r.Context(), data, filename, categories)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}

// promptCategories uses the "categories" form value when the upload supplies
// one, otherwise the stored category names.
func (s *Server) promptCategories(r *http.Request) ([]string, error) {
	if raw := r.FormValue("categories"); raw != "" {
		var categories []string
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				categories = append(categories, c)
			}
		}
		if len(categories) > 0 {
			return categories, nil
		}
	}
	return s.services.Categories.Names(r.Context())
}
