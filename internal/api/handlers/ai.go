package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/promptnest/promptnest/internal/ai"
	"github.com/promptnest/promptnest/internal/store"
	"github.com/promptnest/promptnest/internal/template"
)

// Image upload bodies are capped at 8 MB.
const maxImageBytes = 8 << 20

type AIHandler struct {
	svc   *ai.Service
	store *store.Store
}

func NewAIHandler(svc *ai.Service, s *store.Store) *AIHandler {
	return &AIHandler{svc: svc, store: s}
}

// writeAIError maps the failure class onto an HTTP status and the fixed
// user-facing message for that class.
func writeAIError(w http.ResponseWriter, operation string, err error) {
	status := http.StatusBadGateway
	switch ai.Classify(err) {
	case ai.ClassMissingCredential:
		status = http.StatusServiceUnavailable
	case ai.ClassQuota:
		status = http.StatusTooManyRequests
	case ai.ClassPermission:
		status = http.StatusForbidden
	case ai.ClassInvalidCredential:
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, map[string]string{"error": ai.UserMessage(operation, err)})
}

type textRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang,omitempty"`
}

func decodeText(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text required")
		return req, false
	}
	return req, true
}

func (h *AIHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"configured": h.svc.Configured()})
}

func (h *AIHandler) Translate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	lang := req.TargetLang
	if lang == "" {
		lang = "English"
	}

	out, err := h.svc.Translate(r.Context(), req.Text, lang)
	if err != nil {
		writeAIError(w, "translate", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": out})
}

func (h *AIHandler) Polish(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}

	out, err := h.svc.Polish(r.Context(), req.Text)
	if err != nil {
		writeAIError(w, "polish", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": out})
}

func (h *AIHandler) ExtractMetadata(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}

	meta, err := h.svc.ExtractMetadata(r.Context(), req.Text)
	if err != nil {
		writeAIError(w, "extract metadata", err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// DescribeImage reads the raw image body and returns a generation prompt that
// would recreate it. Content-Type names the image format.
func (h *AIHandler) DescribeImage(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read image: "+err.Error())
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "image body required")
		return
	}

	out, err := h.svc.DescribeImage(r.Context(), data, r.Header.Get("Content-Type"))
	if err != nil {
		writeAIError(w, "describe image", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": out})
}

type runRequest struct {
	Values map[string]string `json:"values"`
	Model  string            `json:"model,omitempty"`
}

// RunSample compiles the record's primary prompt with the supplied variable
// values and executes it for a preview.
func (h *AIHandler) RunSample(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	compiled := template.Compile(rec.PromptPrimary, rec.Variables, req.Values)
	out, err := h.svc.RunSample(r.Context(), compiled, req.Model)
	if err != nil {
		writeAIError(w, "run sample", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"compiled": compiled, "output": out})
}

func (h *AIHandler) GenerateVariants(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}

	variants, err := h.svc.GenerateVariants(r.Context(), req.Text)
	if err != nil {
		writeAIError(w, "generate variants", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"variants": variants})
}

func (h *AIHandler) SuggestTags(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}

	suggestion, err := h.svc.SuggestTags(r.Context(), req.Text)
	if err != nil {
		writeAIError(w, "suggest tags", err)
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}
