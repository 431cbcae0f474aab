package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Auth    AuthConfig
	LLM     LLMConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	// Backend is one of "redis", "postgres", "memory".
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
}

type AuthConfig struct {
	// APIKey guards /api/v1 when set; empty disables auth for local
	// single-user use.
	APIKey       string
	APIKeyHeader string
}

type LLMConfig struct {
	OpenAIKey       string
	AnthropicKey    string
	OllamaURL       string
	DefaultProvider string
	DefaultModel    string
	MaxRetries      int
	InitialBackoff  time.Duration
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxRetries, err := getEnvInt("AI_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid AI_MAX_RETRIES: %w", err)
	}

	backoffSec, err := getEnvInt("AI_INITIAL_BACKOFF_SECONDS", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid AI_INITIAL_BACKOFF_SECONDS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "redis"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			DatabaseURL:   getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			APIKey:       getEnv("API_KEY", ""),
			APIKeyHeader: getEnv("API_KEY_HEADER", "X-API-Key"),
		},
		LLM: LLMConfig{
			OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
			AnthropicKey:    getEnv("ANTHROPIC_API_KEY", ""),
			OllamaURL:       getEnv("OLLAMA_URL", ""),
			DefaultProvider: getEnv("LLM_DEFAULT_PROVIDER", "openai"),
			DefaultModel:    getEnv("LLM_DEFAULT_MODEL", "gpt-4o-mini"),
			MaxRetries:      maxRetries,
			InitialBackoff:  time.Duration(backoffSec) * time.Second,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "redis", "memory":
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
