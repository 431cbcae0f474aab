package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/promptnest/promptnest/internal/store"
)

type CollectionHandler struct {
	store *store.Store
}

func NewCollectionHandler(s *store.Store) *CollectionHandler {
	return &CollectionHandler{store: s}
}

func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	cols := h.store.Collections()
	writeJSON(w, http.StatusOK, map[string]interface{}{"collections": cols, "count": len(cols)})
}

type collectionRequest struct {
	Name string `json:"name"`
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	col, err := h.store.AddCollection(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

func (h *CollectionHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.store.RenameCollection(r.Context(), chi.URLParam(r, "id"), req.Name)
	if errors.Is(err, store.ErrCollectionNotFound) {
		writeError(w, http.StatusNotFound, "collection not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteCollection(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrCollectionNotFound) {
		writeError(w, http.StatusNotFound, "collection not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
