package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/promptnest/promptnest/internal/ai"
	"github.com/promptnest/promptnest/internal/api/handlers"
	"github.com/promptnest/promptnest/internal/api/middleware"
	"github.com/promptnest/promptnest/internal/auth"
	"github.com/promptnest/promptnest/internal/config"
	"github.com/promptnest/promptnest/internal/storage"
	"github.com/promptnest/promptnest/internal/store"
)

type Router struct {
	mux       *chi.Mux
	cfg       *config.Config
	store     *store.Store
	persister *storage.Persister
	kv        storage.KV
	aiSvc     *ai.Service
	apikey    *auth.APIKeyMiddleware
}

func NewRouter(cfg *config.Config, st *store.Store, p *storage.Persister, kv storage.KV, aiSvc *ai.Service) *Router {
	return &Router{
		mux:       chi.NewRouter(),
		cfg:       cfg,
		store:     st,
		persister: p,
		kv:        kv,
		aiSvc:     aiSvc,
		apikey:    auth.NewAPIKeyMiddleware(cfg.Auth.APIKey, cfg.Auth.APIKeyHeader),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(50, 100)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.kv)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	promptH := handlers.NewPromptHandler(rt.store)
	collectionH := handlers.NewCollectionHandler(rt.store)
	viewH := handlers.NewViewStateHandler(rt.store)
	exportH := handlers.NewExportHandler(rt.store)
	aiH := handlers.NewAIHandler(rt.aiSvc, rt.store)
	miscH := handlers.NewMiscHandler(rt.store, rt.persister)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.apikey.Authenticate)

		r.Route("/prompts", func(r chi.Router) {
			r.Post("/", promptH.Create)
			r.Get("/", promptH.List)
			r.Post("/batch/delete", promptH.BatchDelete)
			r.Post("/batch/move", promptH.BatchMove)
			r.Get("/{id}", promptH.Get)
			r.Put("/{id}", promptH.Update)
			r.Delete("/{id}", promptH.Delete)
			r.Post("/{id}/compile", promptH.Compile)
			r.Post("/{id}/copied", promptH.MarkCopied)
			r.Post("/{id}/viewed", promptH.MarkViewed)
			r.Post("/{id}/run", aiH.RunSample)
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", collectionH.List)
			r.Post("/", collectionH.Create)
			r.Put("/{id}", collectionH.Rename)
			r.Delete("/{id}", collectionH.Delete)
		})

		r.Route("/view", func(r chi.Router) {
			r.Get("/filter", viewH.GetFilter)
			r.Put("/filter", viewH.SetFilter)
			r.Get("/selection", viewH.GetSelection)
			r.Put("/selection", viewH.SetSelection)
			r.Delete("/selection", viewH.ClearSelection)
		})

		r.Get("/export", exportH.Export)
		r.Post("/import", exportH.Import)

		r.Route("/ai", func(r chi.Router) {
			r.Get("/status", aiH.Status)
			r.Post("/translate", aiH.Translate)
			r.Post("/polish", aiH.Polish)
			r.Post("/metadata", aiH.ExtractMetadata)
			r.Post("/describe-image", aiH.DescribeImage)
			r.Post("/variants", aiH.GenerateVariants)
			r.Post("/suggest-tags", aiH.SuggestTags)
		})

		r.Get("/stats", miscH.Stats)
		r.Get("/models", miscH.Models)
		r.Get("/recipes", miscH.Recipes)
		r.Get("/theme", miscH.GetTheme)
		r.Put("/theme", miscH.SetTheme)
	})

	return r
}
