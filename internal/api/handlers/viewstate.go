package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/promptnest/promptnest/internal/models"
	"github.com/promptnest/promptnest/internal/store"
)

// ViewStateHandler exposes the transient UI state the store tracks: the
// active filter/sort and the batch-selection set.
type ViewStateHandler struct {
	store *store.Store
}

func NewViewStateHandler(s *store.Store) *ViewStateHandler {
	return &ViewStateHandler{store: s}
}

type viewState struct {
	Filter models.FilterConfig `json:"filter"`
	Sort   models.SortOption   `json:"sort"`
}

func (h *ViewStateHandler) GetFilter(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewState{Filter: h.store.Filter(), Sort: h.store.Sort()})
}

func (h *ViewStateHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req viewState
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Sort != "" && !req.Sort.Valid() {
		writeError(w, http.StatusBadRequest, "sort must be one of newest, oldest, updated, rating")
		return
	}

	h.store.SetFilter(req.Filter)
	if req.Sort != "" {
		h.store.SetSort(req.Sort)
	}
	writeJSON(w, http.StatusOK, viewState{Filter: h.store.Filter(), Sort: h.store.Sort()})
}

type selectionRequest struct {
	IDs []string `json:"ids"`
}

func (h *ViewStateHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	ids := h.store.Selected()
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ids": ids, "count": len(ids)})
}

// SetSelection replaces the selection set wholesale; the UI sends the full
// set after each toggle.
func (h *ViewStateHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.store.ClearSelection()
	for _, id := range req.IDs {
		h.store.Select(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ViewStateHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.store.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}
