package ai

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// ErrNoCredential is returned before any network call when no provider has a
// configured credential.
var ErrNoCredential = errors.New("ai: no provider credential configured")

// Class buckets provider failures into the fixed set the UI knows how to
// phrase. Only ClassQuota is retryable.
type Class string

const (
	ClassMissingCredential Class = "missing-credential"
	ClassQuota             Class = "quota-exceeded"
	ClassPermission        Class = "permission-denied"
	ClassInvalidCredential Class = "invalid-credential"
	ClassOther             Class = "other"
)

// Classify inspects SDK error types first and falls back to message text for
// providers that only surface strings.
func Classify(err error) Class {
	if err == nil {
		return ClassOther
	}
	if errors.Is(err, ErrNoCredential) {
		return ClassMissingCredential
	}

	status := 0
	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		status = oaiErr.HTTPStatusCode
	}
	var antErr *anthropic.Error
	if errors.As(err, &antErr) {
		status = antErr.StatusCode
	}

	switch status {
	case 429:
		return ClassQuota
	case 403:
		return ClassPermission
	case 401:
		return ClassInvalidCredential
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "RESOURCE_EXHAUSTED"),
		strings.Contains(strings.ToLower(msg), "rate limit"):
		return ClassQuota
	case strings.Contains(msg, "403"), strings.Contains(msg, "PERMISSION_DENIED"):
		return ClassPermission
	case strings.Contains(msg, "401"), strings.Contains(msg, "API_KEY_INVALID"),
		strings.Contains(strings.ToLower(msg), "invalid api key"):
		return ClassInvalidCredential
	}
	return ClassOther
}

// Message is the fixed human-readable text for the class. ClassOther callers
// should prefer UserMessage, which includes the operation name.
func (c Class) Message() string {
	switch c {
	case ClassMissingCredential:
		return "API key missing. Configure a provider credential to use AI features."
	case ClassQuota:
		return "API quota exhausted (rate limit). Wait about a minute and try again, or check your key's quota."
	case ClassPermission:
		return "API access denied. Make sure your key is allowed to use the configured model."
	case ClassInvalidCredential:
		return "API key invalid. Re-configure the provider credential."
	default:
		return "AI service error."
	}
}

// UserMessage renders the notification text for a failed operation.
func UserMessage(operation string, err error) string {
	c := Classify(err)
	if c != ClassOther {
		return c.Message()
	}
	msg := err.Error()
	if len(msg) > 80 {
		msg = msg[:80] + "..."
	}
	return fmt.Sprintf("AI service error (%s): %s", operation, msg)
}

var retryDelayPattern = regexp.MustCompile(`(?i)(?:retry|try again) in (\d+(?:\.\d+)?)\s*(ms|s|sec|seconds?)?`)

// suggestedDelay extracts a provider-suggested wait from the error text, e.g.
// "Please try again in 20s" or "retry in 2.5". Unitless values are seconds.
// Zero means no suggestion.
func suggestedDelay(err error) time.Duration {
	if err == nil {
		return 0
	}
	m := retryDelayPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	val, perr := strconv.ParseFloat(m[1], 64)
	if perr != nil {
		return 0
	}
	if strings.EqualFold(m[2], "ms") {
		return time.Duration(val * float64(time.Millisecond))
	}
	return time.Duration(val * float64(time.Second))
}
