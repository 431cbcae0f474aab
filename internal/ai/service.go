// Package ai implements the assisted-editing operations on top of the LLM
// gateway: translation, rewriting, metadata extraction, image description,
// sample runs, variant generation and tag suggestion.
//
// Retry policy: only rate-limit failures are retried, at most maxAttempts
// times, waiting the provider-suggested delay when the error carries one and
// otherwise an exponential backoff that starts at initialDelay and doubles
// per attempt. Every other failure class surfaces immediately.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/promptnest/promptnest/internal/llm"
	"github.com/promptnest/promptnest/internal/models"
)

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 2 * time.Second
	variantCount        = 3
)

type Service struct {
	gateway      *llm.Gateway
	maxAttempts  uint
	initialDelay time.Duration
}

func NewService(gw *llm.Gateway, maxAttempts int, initialDelay time.Duration) *Service {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if initialDelay <= 0 {
		initialDelay = defaultInitialDelay
	}
	return &Service{
		gateway:      gw,
		maxAttempts:  uint(maxAttempts),
		initialDelay: initialDelay,
	}
}

// Configured reports whether any provider credential is available. Callers
// check this before offering AI actions so a missing credential becomes a
// message, not an attempted call.
func (s *Service) Configured() bool {
	return s.gateway.Configured()
}

// withRetry runs fn under the single retry policy: only quota-class failures
// are retried, up to maxAttempts, with delayFor pacing the waits.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.RetryIf(func(err error) bool { return Classify(err) == ClassQuota }),
		retry.Attempts(s.maxAttempts),
		retry.DelayType(s.delayFor),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
}

func (s *Service) chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if !s.gateway.Configured() {
		return nil, ErrNoCredential
	}
	var resp *llm.ChatResponse
	err := s.withRetry(ctx, func() error {
		var cerr error
		resp, cerr = s.gateway.Chat(ctx, req)
		return cerr
	})
	return resp, err
}

// delayFor prefers the provider-suggested wait over the exponential schedule.
func (s *Service) delayFor(n uint, err error, _ *retry.Config) time.Duration {
	if d := suggestedDelay(err); d > 0 {
		return d
	}
	return s.initialDelay << n
}

// Translate renders text into targetLang, keeping terminology usable by
// generation models.
func (s *Service) Translate(ctx context.Context, text, targetLang string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following AI prompt to %s. Keep technical terms accurate for AI generation models (e.g., Midjourney, Stable Diffusion). Only return the translation:\n\n%s",
		targetLang, text)

	resp, err := s.chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// Polish rewrites a prompt for clarity and detail without changing its
// subject.
func (s *Service) Polish(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"Act as an expert Prompt Engineer. Improve the following prompt for better clarity, detail, and artistic output. Do not change the core subject, but enhance descriptors and structure. Return only the improved prompt:\n\n%s",
		text)

	resp, err := s.chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// Metadata is the structured result of analyzing a raw prompt.
type Metadata struct {
	Title      string   `json:"title"`
	OutputKind string   `json:"outputKind"`
	SceneTag   string   `json:"sceneTag"`
	TechTags   []string `json:"techTags"`
	StyleTags  []string `json:"styleTags"`
	UsageNote  string   `json:"usageNote"`
}

// ExtractMetadata asks the model to fill the knowledge-base fields for a raw
// prompt. The outputKind is normalized onto the fixed enumeration; the scene
// tag is kept verbatim (free-form scenes are allowed by the model).
func (s *Service) ExtractMetadata(ctx context.Context, promptText string) (*Metadata, error) {
	prompt := fmt.Sprintf(`Analyze the following AI prompt and extract structured metadata for a knowledge base.

Prompt: %q

Return a JSON object with exactly these fields:
- "title": a short, descriptive title (3-6 words)
- "outputKind": one of ["image", "video", "audio", "text"]
- "sceneTag": one of ["character", "scene", "style-transfer", "story", "tool", "other"]
- "techTags": 1-3 technical keywords (e.g., "consistency", "lighting", "camera-motion")
- "styleTags": 1-3 visual or artistic style keywords (e.g., "cyberpunk", "photorealistic")
- "usageNote": a brief tip on how to best use this prompt (max 15 words)

Return ONLY the JSON object.`, promptText)

	resp, err := s.chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := unmarshalResponse(resp.Content, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	if !models.OutputKind(meta.OutputKind).Valid() {
		meta.OutputKind = string(models.OutputText)
	}
	return &meta, nil
}

// DescribeImage produces a generation prompt that would recreate the style
// and composition of the supplied image.
func (s *Service) DescribeImage(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	if !s.gateway.Configured() {
		return "", ErrNoCredential
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	var resp *llm.ChatResponse
	err := s.withRetry(ctx, func() error {
		var cerr error
		resp, cerr = s.gateway.Vision(ctx, llm.VisionRequest{
			Prompt:    "Analyze this image and generate a high-quality AI image generation prompt (in English) that would recreate this style and composition. Focus on lighting, subject, camera angle, and artistic style. Return ONLY the prompt text.",
			ImageData: imageData,
			MimeType:  mimeType,
		})
		return cerr
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// RunSample executes a compiled prompt against the given model (empty means
// the gateway default) and returns the raw output for preview.
func (s *Service) RunSample(ctx context.Context, compiledText, model string) (string, error) {
	resp, err := s.chat(ctx, llm.ChatRequest{
		Model:    model,
		Messages: []llm.Message{{Role: "user", Content: compiledText}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// GenerateVariants returns three rewrites: more detailed, more concise, and
// more atmospheric.
func (s *Service) GenerateVariants(ctx context.Context, promptText string) ([]string, error) {
	prompt := fmt.Sprintf(`Provide 3 distinct variations of the following AI prompt.
1. One that is more descriptive and detailed.
2. One that is more concise and minimal.
3. One that focuses on artistic style and atmosphere.

Return ONLY a JSON object {"variants": [...]} holding an array of 3 strings. No markdown, no explanations.

Original prompt: %q`, promptText)

	resp, err := s.chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Variants []string `json:"variants"`
	}
	if err := unmarshalResponse(resp.Content, &payload); err != nil {
		// Some models return the bare array despite instructions.
		var bare []string
		if err2 := unmarshalResponse(resp.Content, &bare); err2 != nil {
			return nil, fmt.Errorf("parse variants: %w", err)
		}
		payload.Variants = bare
	}
	if len(payload.Variants) == 0 {
		return nil, fmt.Errorf("parse variants: empty result")
	}
	if len(payload.Variants) > variantCount {
		payload.Variants = payload.Variants[:variantCount]
	}
	return payload.Variants, nil
}

// TagSuggestion is the result of SuggestTags.
type TagSuggestion struct {
	TechTags  []string `json:"techTags"`
	StyleTags []string `json:"styleTags"`
}

// SuggestTags proposes tech and style tags for a prompt.
func (s *Service) SuggestTags(ctx context.Context, promptText string) (*TagSuggestion, error) {
	prompt := fmt.Sprintf(`Analyze the following AI prompt and suggest relevant tags.

Prompt: %q

Return a JSON object with:
- "techTags": 2-4 technical keywords describing techniques (e.g., "hi-res", "depth-of-field", "consistency", "camera-motion")
- "styleTags": 2-4 style keywords describing aesthetics (e.g., "cyberpunk", "minimalist", "retro", "photorealistic")

Focus on specific, useful tags that would help categorize this prompt. Return ONLY the JSON object.`, promptText)

	resp, err := s.chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	var suggestion TagSuggestion
	if err := unmarshalResponse(resp.Content, &suggestion); err != nil {
		return nil, fmt.Errorf("parse tag suggestion: %w", err)
	}
	return &suggestion, nil
}

// unmarshalResponse decodes a model response that may be wrapped in a
// markdown code fence.
func unmarshalResponse(raw string, dest any) error {
	return json.Unmarshal([]byte(stripCodeFence(strings.TrimSpace(raw))), dest)
}

// stripCodeFence removes markdown code block wrappers (```json ... ```).
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
