package http

import (
	"net/http"

	"dailyspend/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	typeFilter := core.CategoryType(r.URL.Query().Get("type"))
	categories, err := s.svc.ListCategories(r.Context(), typeFilter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in core.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	category, err := s.svc.CreateCategory(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in core.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	category, err := s.svc.UpdateCategory(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.svc.DeleteCategory(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
