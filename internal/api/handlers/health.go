package handlers

import (
	"net/http"

	"github.com/promptnest/promptnest/internal/storage"
)

type HealthHandler struct {
	kv storage.KV
}

func NewHealthHandler(kv storage.KV) *HealthHandler {
	return &HealthHandler{kv: kv}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if h.kv != nil {
		if err := h.kv.Ping(r.Context()); err != nil {
			checks["storage"] = "unhealthy: " + err.Error()
		} else {
			checks["storage"] = "ok"
		}
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, map[string]interface{}{"status": statusStr(status), "checks": checks})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}
