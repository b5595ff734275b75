package api

import (
	"net/http"

	"yukid/internal/types"
)

func (s *Server) handleParseReceipt(w http.ResponseWriter, r *http.Request) {
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

	receipt, err := s.services.Receipts.ParseImage(r.Context(), data, filename, categories)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

type parseReceiptTextRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleParseReceiptText(w http.ResponseWriter, r *http.Request) {
	var req parseReceiptTextRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	categories, err := s.services.Categories.Names(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	receipt, err := s.services.Receipts.ParseText(r.Context(), req.Text, categories)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

type saveReceiptRequest struct {
	Receipt    types.ParsedReceipt `json:"receipt"`
	CategoryID string              `json:"category_id"`
}

func (s *Server) handleSaveReceipt(w http.ResponseWriter, r *http.Request) {
	var req saveReceiptRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ledgerID, err := s.services.Receipts.Save(r.Context(), req.Receipt, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"ledger_id": ledgerID})
}
