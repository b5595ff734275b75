package api

import "net/http"

type parseDocumentTextRequest struct {
	Text       string   `json:"text"`
	Categories []string `json:"categories"`
}

func (s *Server) handleParseDocumentText(w http.ResponseWriter, r *http.Request) {
	var req parseDocumentTextRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	categories := req.Categories
	if len(categories) == 0 {
		var err error
		categories, err = s.services.Categories.Names(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
	}

	txns, err := s.services.Documents.ParseText(r.Context(), req.Text, categories)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}

type detectExpenseRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleDetectExpense(w http.ResponseWriter, r *http.Request) {
	var req detectExpenseRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	detection, err := s.services.Documents.DetectExpense(r.Context(), req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detection)
}
