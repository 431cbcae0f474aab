package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/promptnest/promptnest/internal/ai"
	"github.com/promptnest/promptnest/internal/api"
	"github.com/promptnest/promptnest/internal/config"
	"github.com/promptnest/promptnest/internal/llm"
	"github.com/promptnest/promptnest/internal/storage"
	"github.com/promptnest/promptnest/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	kv := openKV(ctx, cfg)
	defer kv.Close()

	persister := storage.NewPersister(kv)
	st := store.New(persister)
	if err := st.Load(ctx); err != nil {
		var perr *storage.ParseError
		if errors.As(err, &perr) {
			slog.Warn("stored data unreadable, starting from seed data", "error", perr)
		} else {
			slog.Error("failed to load data", "error", err)
			os.Exit(1)
		}
	}

	gateway := llm.NewGateway(llm.Config{
		OpenAIKey:       cfg.LLM.OpenAIKey,
		AnthropicKey:    cfg.LLM.AnthropicKey,
		OllamaURL:       cfg.LLM.OllamaURL,
		DefaultProvider: cfg.LLM.DefaultProvider,
		DefaultModel:    cfg.LLM.DefaultModel,
	})
	if !gateway.Configured() {
		slog.Warn("no LLM provider configured, AI endpoints will report missing credential")
	}
	aiSvc := ai.NewService(gateway, cfg.LLM.MaxRetries, cfg.LLM.InitialBackoff)

	router := api.NewRouter(cfg, st, persister, kv, aiSvc)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // AI calls with retries can take a while
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(), "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// openKV dials the configured backend. An unreachable backend degrades to the
// in-memory store so the app still comes up; data then lives only for the
// process lifetime.
func openKV(ctx context.Context, cfg *config.Config) storage.KV {
	switch cfg.Storage.Backend {
	case "postgres":
		kv, err := storage.NewPostgresKV(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			slog.Warn("postgres unavailable, falling back to in-memory storage", "error", err)
			return storage.NewMemoryKV()
		}
		return kv
	case "memory":
		return storage.NewMemoryKV()
	default:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, falling back to in-memory storage", "error", err)
			rdb.Close()
			return storage.NewMemoryKV()
		}
		return storage.NewRedisKV(rdb)
	}
}
