// Package auth guards the API with a single static key. This is a
// single-user application, so there are no accounts or tokens; the key is
// compared in constant time against the configured value.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

type APIKeyMiddleware struct {
	key        string
	headerName string
}

func NewAPIKeyMiddleware(key, headerName string) *APIKeyMiddleware {
	if headerName == "" {
		headerName = "X-API-Key"
	}
	return &APIKeyMiddleware{key: key, headerName: headerName}
}

// Authenticate rejects requests whose key header does not match. With no key
// configured the middleware is a pass-through (local use).
func (m *APIKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.key == "" {
			next.ServeHTTP(w, r)
			return
		}

		got := r.Header.Get(m.headerName)
		if subtle.ConstantTimeCompare([]byte(got), []byte(m.key)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid API key"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
