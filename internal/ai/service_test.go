package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_RetriesQuotaUntilSuccess(t *testing.T) {
	s := NewService(nil, 3, time.Millisecond)

	attempts := 0
	err := s.withRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("rate limit reached")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_QuotaExhaustsAttempts(t *testing.T) {
	s := NewService(nil, 3, time.Millisecond)

	attempts := 0
	err := s.withRetry(context.Background(), func() error {
		attempts++
		return errors.New("RESOURCE_EXHAUSTED")
	})

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, ClassQuota, Classify(err))
}

func TestWithRetry_OtherClassesFailFast(t *testing.T) {
	s := NewService(nil, 3, time.Millisecond)

	for _, msg := range []string{"connection refused", "got 401 from upstream", "PERMISSION_DENIED"} {
		attempts := 0
		err := s.withRetry(context.Background(), func() error {
			attempts++
			return errors.New(msg)
		})
		assert.Error(t, err, "message %q", msg)
		assert.Equal(t, 1, attempts, "message %q", msg)
	}
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	s := NewService(nil, 3, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := s.withRetry(ctx, func() error {
		attempts++
		return errors.New("rate limit reached")
	})

	assert.Error(t, err)
	assert.LessOrEqual(t, attempts, 2, "cancellation stops the retry loop")
}
