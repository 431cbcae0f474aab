package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptnest/promptnest/internal/ai"
	"github.com/promptnest/promptnest/internal/config"
	"github.com/promptnest/promptnest/internal/llm"
	"github.com/promptnest/promptnest/internal/models"
	"github.com/promptnest/promptnest/internal/storage"
	"github.com/promptnest/promptnest/internal/store"
)

func newTestHandler(t *testing.T, apiKey string) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Auth.APIKey = apiKey
	cfg.Auth.APIKeyHeader = "X-API-Key"

	kv := storage.NewMemoryKV()
	persister := storage.NewPersister(kv)
	st := store.New(persister)
	require.NoError(t, st.Load(context.Background()))

	// Unconfigured gateway: AI endpoints report a missing credential.
	aiSvc := ai.NewService(llm.NewGateway(llm.Config{}), 1, 0)

	return NewRouter(cfg, st, persister, kv, aiSvc).Setup()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestHandler(t, "")

	w := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyGate(t *testing.T) {
	h := newTestHandler(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prompts/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays open.
	w = doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPromptCRUD(t *testing.T) {
	h := newTestHandler(t, "")

	w := doJSON(t, h, http.MethodPost, "/api/v1/prompts/", models.PromptRecord{
		Title:         "Neon Alley",
		PromptPrimary: "a {{subject}} in a neon alley",
		OutputKind:    models.OutputImage,
		SceneTag:      models.SceneScene,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.PromptRecord
	decode(t, w, &created)
	assert.NotEmpty(t, created.ID)
	require.Len(t, created.Variables, 1)
	assert.Equal(t, "subject", created.Variables[0].Key)

	w = doJSON(t, h, http.MethodGet, "/api/v1/prompts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	created.Title = "Neon Alley v2"
	w = doJSON(t, h, http.MethodPut, "/api/v1/prompts/"+created.ID, created)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.PromptRecord
	decode(t, w, &updated)
	assert.Len(t, updated.History, 1)

	w = doJSON(t, h, http.MethodDelete, "/api/v1/prompts/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/prompts/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPromptValidation(t *testing.T) {
	h := newTestHandler(t, "")

	w := doJSON(t, h, http.MethodPost, "/api/v1/prompts/", models.PromptRecord{
		PromptPrimary: "no title",
		OutputKind:    models.OutputImage,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/prompts/", models.PromptRecord{
		Title:      "bad kind",
		OutputKind: models.OutputKind("hologram"),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/prompts/", models.PromptRecord{
		Title:      "bad rating",
		OutputKind: models.OutputText,
		Rating:     &models.PromptRating{Stability: 11, Creativity: 5},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListWithQueryFilter(t *testing.T) {
	h := newTestHandler(t, "")

	w := doJSON(t, h, http.MethodGet, "/api/v1/prompts/?kind=video", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Prompts []models.PromptRecord `json:"prompts"`
		Count   int                   `json:"count"`
	}
	decode(t, w, &resp)
	for _, p := range resp.Prompts {
		assert.Equal(t, models.OutputVideo, p.OutputKind)
	}
}

func TestCompileEndpoint(t *testing.T) {
	h := newTestHandler(t, "")

	w := doJSON(t, h, http.MethodPost, "/api/v1/prompts/", models.PromptRecord{
		Title:         "Greeter",
		PromptPrimary: "hello {{name}}, welcome to {{place}}",
		OutputKind:    models.OutputText,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.PromptRecord
	decode(t, w, &created)

	w = doJSON(t, h, http.MethodPost, "/api/v1/prompts/"+created.ID+"/compile",
		map[string]any{"values": map[string]string{"name": "Ada"}})
	require.Equal(t, http.StatusOK, w.Code)

	var compiled struct {
		Primary string `json:"primary"`
	}
	decode(t, w, &compiled)
	assert.Equal(t, "hello Ada, welcome to {{place}}", compiled.Primary)
}

func TestCollectionLifecycle(t *testing.T) {
	h := newTestHandler(t, "")

	w := doJSON(t, h, http.MethodPost, "/api/v1/collections/", map[string]string{"name": "Tests"})
	require.Equal(t, http.StatusCreated, w.Code)
	var col models.Collection
	decode(t, w, &col)

	w = doJSON(t, h, http.MethodPut, "/api/v1/collections/"+col.ID, map[string]string{"name": "Renamed"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/api/v1/collections/"+col.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/api/v1/collections/"+col.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportDownload(t *testing.T) {
	h := newTestHandler(t, "")

	w := doJSON(t, h, http.MethodGet, "/api/v1/export?format=csv&scope=all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "promptnest_export_")
	assert.Contains(t, w.Body.String(), "title,type,scene")

	w = doJSON(t, h, http.MethodGet, "/api/v1/export?format=wav", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportReplacesData(t *testing.T) {
	h := newTestHandler(t, "")

	payload := `[{"id":"imp-1","title":"Imported","outputKind":"image","sceneTag":"scene"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", bytes.NewReader([]byte(payload)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	lw := doJSON(t, h, http.MethodGet, "/api/v1/prompts/", nil)
	var resp struct {
		Count int `json:"count"`
	}
	decode(t, lw, &resp)
	assert.Equal(t, 1, resp.Count)
}

func TestImportRejectsGarbage(t *testing.T) {
	h := newTestHandler(t, "")

	for _, body := range []string{"not json", "null", `{"collections":[]}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/import", bytes.NewReader([]byte(body)))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}

	// Existing data survives every failed import.
	lw := doJSON(t, h, http.MethodGet, "/api/v1/prompts/", nil)
	var resp struct {
		Count int `json:"count"`
	}
	decode(t, lw, &resp)
	assert.NotZero(t, resp.Count)
}

func TestThemeEndpoint(t *testing.T) {
	h := newTestHandler(t, "")

	w := doJSON(t, h, http.MethodGet, "/api/v1/theme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var theme map[string]string
	decode(t, w, &theme)
	assert.Equal(t, "light", theme["theme"])

	w = doJSON(t, h, http.MethodPut, "/api/v1/theme", map[string]string{"theme": "dark"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodPut, "/api/v1/theme", map[string]string{"theme": "sepia"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIEndpointsWithoutCredential(t *testing.T) {
	h := newTestHandler(t, "")

	w := doJSON(t, h, http.MethodGet, "/api/v1/ai/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]bool
	decode(t, w, &status)
	assert.False(t, status["configured"])

	w = doJSON(t, h, http.MethodPost, "/api/v1/ai/translate", map[string]string{"text": "hello"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]string
	decode(t, w, &resp)
	assert.Contains(t, resp["error"], "API key missing")
}

func TestStatsAndRecipes(t *testing.T) {
	h := newTestHandler(t, "")

	w := doJSON(t, h, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Total int `json:"total"`
	}
	decode(t, w, &summary)
	assert.NotZero(t, summary.Total, "seed data counted")

	w = doJSON(t, h, http.MethodGet, "/api/v1/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recipes struct {
		Recipes []models.Recipe `json:"recipes"`
	}
	decode(t, w, &recipes)
	assert.NotEmpty(t, recipes.Recipes)
}

func TestViewStateRoundTrip(t *testing.T) {
	h := newTestHandler(t, "")

	w := doJSON(t, h, http.MethodPut, "/api/v1/view/filter", map[string]any{
		"filter": map[string]any{"searchTerm": "neon", "outputKind": "image"},
		"sort":   "rating",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/view/filter", nil)
	var state struct {
		Filter models.FilterConfig `json:"filter"`
		Sort   models.SortOption   `json:"sort"`
	}
	decode(t, w, &state)
	assert.Equal(t, "neon", state.Filter.SearchTerm)
	assert.Equal(t, models.FilterAll, state.Filter.CollectionID, "unset dimensions normalize to all")
	assert.Equal(t, models.SortRating, state.Sort)

	w = doJSON(t, h, http.MethodPut, "/api/v1/view/selection", map[string]any{"ids": []string{"a", "b"}})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/api/v1/view/selection", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
