package api

import (
	"net/http"

	"yukid/internal/types"
)

func (s *Server) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.services.Providers.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	// never echo the key back to the UI
	cfg.APIKey = ""
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSetProvider(w http.ResponseWriter, r *http.Request) {
	var cfg types.Provider
	if err := readJSON(r, &cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := s.services.Providers.Set(r.Context(), cfg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleTestProvider(w http.ResponseWriter, r *http.Request) {
	var cfg types.Provider
	if err := readJSON(r, &cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := s.services.Providers.TestConnection(r.Context(), cfg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	var cfg types.Provider
	if err := readJSON(r, &cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	models, err := s.services.Providers.ListModels(r.Context(), cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"models": models})
}
