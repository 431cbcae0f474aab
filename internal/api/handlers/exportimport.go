package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/promptnest/promptnest/internal/export"
	"github.com/promptnest/promptnest/internal/models"
	"github.com/promptnest/promptnest/internal/store"
)

// Import bodies are capped at 10 MB.
const maxImportBytes = 10 << 20

type ExportHandler struct {
	store *store.Store
}

func NewExportHandler(s *store.Store) *ExportHandler {
	return &ExportHandler{store: s}
}

// Export streams a download in the requested format. Scope selection mirrors
// the UI: explicitly selected records win, then the filtered view when it
// differs from the full set, then everything.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatJSON
	}
	if !format.Valid() {
		writeError(w, http.StatusBadRequest, "format must be one of json, md, csv")
		return
	}

	records := h.exportSet(r.URL.Query().Get("scope"))
	now := time.Now()

	var body []byte
	switch format {
	case export.FormatMarkdown:
		body = []byte(export.Markdown(records, now))
	case export.FormatCSV:
		text, err := export.CSV(records)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		body = []byte(text)
	default:
		data, err := export.JSON(records, h.store.Collections())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		body = data
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(now)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *ExportHandler) exportSet(scope string) []models.PromptRecord {
	all := h.store.Records()

	switch scope {
	case "all":
		return all
	case "view":
		return h.store.View()
	case "selected":
		return h.selected(all)
	}

	// Auto: selected, then filtered view when narrower than the full set.
	if sel := h.selected(all); len(sel) > 0 {
		return sel
	}
	if view := h.store.View(); len(view) != len(all) {
		return view
	}
	return all
}

func (h *ExportHandler) selected(all []models.PromptRecord) []models.PromptRecord {
	ids := h.store.Selected()
	if len(ids) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []models.PromptRecord
	for _, p := range all {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Import accepts a legacy record array or a full backup. A parse failure
// leaves the current data untouched.
func (h *ExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read import: "+err.Error())
		return
	}

	backup, err := export.ParseImport(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON import file")
		return
	}

	if err := h.store.ReplaceAll(r.Context(), backup.Records, backup.Collections); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records":     len(backup.Records),
		"collections": len(backup.Collections),
		"full":        backup.Collections != nil,
	})
}
