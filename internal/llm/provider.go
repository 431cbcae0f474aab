package llm

import "context"

// Provider abstracts an LLM provider (OpenAI, Anthropic, Ollama, etc.)
type Provider interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	VisionCompletion(ctx context.Context, req VisionRequest) (*ChatResponse, error)
	Name() string
	Models() []string
}

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatRequest is the input for chat completions.
type ChatRequest struct {
	Provider    string    `json:"provider,omitempty"`
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	// JSONMode asks the provider for a JSON-only response where the API
	// supports it; callers still validate the parsed payload.
	JSONMode bool `json:"json_mode,omitempty"`
}

// VisionRequest is the input for image-understanding completions.
type VisionRequest struct {
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	ImageData []byte `json:"-"`
	MimeType  string `json:"mime_type"` // image/png, image/jpeg, ...
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// ChatResponse is the output from chat and vision completions.
type ChatResponse struct {
	ID           string `json:"id"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	LatencyMs    int64  `json:"latency_ms"`
}
