package http

import (
	"net/http"

	"dailyspend/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year")
	month := queryInt(r, "month")
	typeFilter := core.CategoryType(r.URL.Query().Get("type"))
	categoryID := int64(queryInt(r, "category_id"))

	txns, err := s.svc.ListMonth(r.Context(), year, month, typeFilter, categoryID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, txns)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	txn, err := s.svc.CreateTransaction(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in core.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	txn, err := s.svc.UpdateTransaction(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, txn)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.svc.DeleteTransaction(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleMonthSummary serves the server-side rendition of the dashboard
// aggregation so non-browser clients get the same numbers.
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.SummarizeMonth(r.Context(), queryInt(r, "year"), queryInt(r, "month"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sum)
}
