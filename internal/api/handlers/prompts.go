package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/promptnest/promptnest/internal/models"
	"github.com/promptnest/promptnest/internal/store"
	"github.com/promptnest/promptnest/internal/template"
	"github.com/promptnest/promptnest/internal/view"
)

type PromptHandler struct {
	store *store.Store
}

func NewPromptHandler(s *store.Store) *PromptHandler {
	return &PromptHandler{store: s}
}

// validate blocks bad input before it reaches the store; an empty title is a
// workflow-level rule, not a store invariant.
func validate(rec *models.PromptRecord) string {
	if strings.TrimSpace(rec.Title) == "" {
		return "title required"
	}
	if !rec.OutputKind.Valid() {
		return "outputKind must be one of image, video, audio, text"
	}
	if rec.Rating != nil {
		if rec.Rating.Stability < 1 || rec.Rating.Stability > 10 ||
			rec.Rating.Creativity < 1 || rec.Rating.Creativity > 10 {
			return "rating values must be in [1,10]"
		}
	}
	return ""
}

func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rec models.PromptRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validate(&rec); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.store.Create(r.Context(), rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List returns the derived view. With query parameters present they define an
// ephemeral filter/sort; without any, the stored filter state applies.
func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	var records []models.PromptRecord
	if r.URL.RawQuery == "" {
		records = h.store.View()
	} else {
		q := r.URL.Query()
		f := models.FilterConfig{
			SearchTerm:   q.Get("q"),
			OutputKind:   orAll(q.Get("kind")),
			SelectedTags: q["tag"],
			CollectionID: orAll(q.Get("collection")),
			Model:        orAll(q.Get("model")),
		}
		sortOpt := models.SortOption(q.Get("sort"))
		if !sortOpt.Valid() {
			sortOpt = models.SortNewest
		}
		records = view.Apply(h.store.Records(), f, sortOpt)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"prompts": records, "count": len(records)})
}

func orAll(v string) string {
	if v == "" {
		return models.FilterAll
	}
	return v
}

func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	var rec models.PromptRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validate(&rec); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), rec)
	if errors.Is(err, store.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type batchRequest struct {
	IDs          []string `json:"ids"`
	CollectionID string   `json:"collectionId"`
}

func (h *PromptHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids required")
		return
	}
	if err := h.store.BatchDelete(r.Context(), req.IDs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PromptHandler) BatchMove(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids required")
		return
	}
	if err := h.store.MoveToCollection(r.Context(), req.IDs, req.CollectionID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type compileRequest struct {
	Values map[string]string `json:"values"`
}

type compileResponse struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
}

// Compile substitutes the record's variables into both prompt texts.
// Unresolved placeholders stay as {{key}}.
func (h *PromptHandler) Compile(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}

	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, compileResponse{
		Primary:   template.Compile(rec.PromptPrimary, rec.Variables, req.Values),
		Secondary: template.Compile(rec.PromptSecondary, rec.Variables, req.Values),
	})
}

func (h *PromptHandler) MarkCopied(w http.ResponseWriter, r *http.Request) {
	if err := h.store.MarkCopied(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PromptHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	if err := h.store.MarkViewed(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
