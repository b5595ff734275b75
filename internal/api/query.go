package api

import (
	"net/http"
	"strings"
)

type queryRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	ctx := r.Context()
	sessionID, err := s.services.Conversations.GetOrCreateCurrent(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	response, err := s.services.Query.Process(ctx, sessionID, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	sessionID, err := s.services.Conversations.Clear(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"session_id": sessionID})
}
