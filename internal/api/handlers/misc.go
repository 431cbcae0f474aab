package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/promptnest/promptnest/internal/stats"
	"github.com/promptnest/promptnest/internal/storage"
	"github.com/promptnest/promptnest/internal/store"
	"github.com/promptnest/promptnest/internal/view"
)

// MiscHandler covers the small read-mostly surfaces: stats, the model list,
// the theme preference and the starter recipes.
type MiscHandler struct {
	store     *store.Store
	persister *storage.Persister
}

func NewMiscHandler(s *store.Store, p *storage.Persister) *MiscHandler {
	return &MiscHandler{store: s, persister: p}
}

func (h *MiscHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stats.Compute(h.store.Records(), h.store.Collections()))
}

// Models lists the distinct model names present in the library, for the
// filter dropdown.
func (h *MiscHandler) Models(w http.ResponseWriter, r *http.Request) {
	names := view.Models(h.store.Records())
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": names})
}

func (h *MiscHandler) Recipes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"recipes": store.Recipes()})
}

func (h *MiscHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.persister.LoadTheme(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (h *MiscHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		writeError(w, http.StatusBadRequest, "theme must be light or dark")
		return
	}

	if err := h.persister.SaveTheme(r.Context(), req.Theme); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}
