package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func feedbackResponse() MockResponse {
	return MockResponse{Content: json.RawMessage(answerFeedback)}
}

func TestRetry_UpstreamBlipThenFeedback(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("connection reset")}},
		feedbackResponse(),
	)

	resp, err := WithRetry(mock, retryConfig()).Generate(context.Background(), practiceRequest())
	require.NoError(t, err)
	assert.JSONEq(t, answerFeedback, string(resp.Content))
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("502")}}
	mock := NewMockProvider(down, down, down, feedbackResponse())

	_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), practiceRequest())
	require.Error(t, err)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_DefaultIsSingleAttempt(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		feedbackResponse(),
	)

	_, err := WithRetry(mock, DefaultConfig().Retry).Generate(context.Background(), practiceRequest())
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_FinalErrorsNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"truncated", &ErrMaxTokensExceeded{Content: json.RawMessage(`{"corrected":"Je`)}},
		{"rejected key", &ErrRejected{Status: 401, Err: errors.New("invalid api key")}},
		{"missing key", &ErrMissingCredential{Provider: "openai", EnvVar: EnvOpenAIKey}},
		{"caller gave up", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: tt.err}, feedbackResponse())

			_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), practiceRequest())
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, mock.CallCount())
		})
	}
}

func TestRetry_InvalidFeedbackRetriedOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`{"next_prompt":""}`), Err: errors.New("minLength")}}
	mock := NewMockProvider(bad, bad, feedbackResponse())

	_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), practiceRequest())

	var invalid *ErrInvalidResponse
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_CancelledDuringBackoff(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		feedbackResponse(),
	)
	cfg := retryConfig()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	_, err := WithRetry(mock, cfg).Generate(ctx, practiceRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_RateLimitWaitsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
		feedbackResponse(),
	)
	cfg := retryConfig()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	resp, err := WithRetry(mock, cfg).Generate(context.Background(), practiceRequest())
	require.NoError(t, err)
	assert.JSONEq(t, answerFeedback, string(resp.Content))
}

func TestBackoff_CappedWithJitter(t *testing.T) {
	cfg := RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}

	for range 50 {
		first := cfg.backoff(0, errors.New("x"))
		assert.InDelta(t, float64(100*time.Millisecond), float64(first), float64(21*time.Millisecond))

		capped := cfg.backoff(10, errors.New("x"))
		assert.LessOrEqual(t, capped, 1200*time.Millisecond)
		assert.GreaterOrEqual(t, capped, 800*time.Millisecond)
	}
}
