package llm

import (
	"context"
	"fmt"
)

// Gateway routes requests to the configured providers. It carries no retry
// policy of its own: errors pass through unchanged so the caller can classify
// them and decide what is retryable.
type Gateway struct {
	providers       map[string]Provider
	defaultProvider string
	defaultModel    string
}

// Config selects which providers to construct. A provider with no credential
// is simply absent from the gateway.
type Config struct {
	OpenAIKey       string
	AnthropicKey    string
	OllamaURL       string
	DefaultProvider string
	DefaultModel    string
}

func NewGateway(cfg Config) *Gateway {
	g := &Gateway{
		providers:       make(map[string]Provider),
		defaultProvider: cfg.DefaultProvider,
		defaultModel:    cfg.DefaultModel,
	}

	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey)
	}
	if cfg.OllamaURL != "" {
		g.providers["ollama"] = NewOllamaProvider(cfg.OllamaURL)
	}

	return g
}

// Configured reports whether at least one provider has a credential.
func (g *Gateway) Configured() bool {
	return len(g.providers) > 0
}

func (g *Gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

// DefaultModel is the model used when a request leaves it empty.
func (g *Gateway) DefaultModel() string {
	return g.defaultModel
}

func (g *Gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	p, err := g.resolve(req.Provider)
	if err != nil {
		return nil, err
	}
	if req.Model == "" {
		req.Model = g.defaultModel
	}
	return p.ChatCompletion(ctx, req)
}

func (g *Gateway) Vision(ctx context.Context, req VisionRequest) (*ChatResponse, error) {
	p, err := g.resolve(req.Provider)
	if err != nil {
		return nil, err
	}
	if req.Model == "" {
		req.Model = g.defaultModel
	}
	return p.VisionCompletion(ctx, req)
}

// resolve picks the named provider, then the default, then any configured
// provider in a fixed preference order. A single-key setup works no matter
// which provider the default names.
func (g *Gateway) resolve(name string) (Provider, error) {
	if name == "" {
		name = g.defaultProvider
	}
	if p, ok := g.providers[name]; ok {
		return p, nil
	}
	for _, fallback := range []string{"openai", "anthropic", "ollama"} {
		if p, ok := g.providers[fallback]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("provider %q not configured", name)
}
