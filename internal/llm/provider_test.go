package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// practiceSchema has the shape of the feedback schema every practice
// exchange uses.
var practiceSchema = &Schema{
	Name:        "practice-feedback",
	Description: "Correction of the learner's answer plus the next practice prompt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"corrected":    map[string]any{"type": "string"},
			"explanation":  map[string]any{"type": "string"},
			"alternatives": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"next_prompt":  map[string]any{"type": "string", "minLength": 1},
		},
		"required":             []any{"corrected", "explanation", "alternatives", "next_prompt"},
		"additionalProperties": false,
	},
}

const answerFeedback = `{"corrected":"Je voudrais un café.","explanation":"Use the conditional for polite requests.","alternatives":["Un café, s'il vous plaît."],"next_prompt":"Où habitez-vous ?"}`

func practiceRequest() Request {
	return Request{
		System:    "You are a patient French tutor for an English speaker at A2 level.",
		Messages:  []Message{{Role: RoleUser, Content: "Learner answer: Je veux un café"}},
		Schema:    practiceSchema,
		MaxTokens: 512,
	}
}

func TestSystemPrompt_JSONObjectModeAppendsSchema(t *testing.T) {
	got := systemPrompt(practiceRequest())

	assert.True(t, strings.HasPrefix(got, "You are a patient French tutor"))
	assert.Contains(t, got, "single JSON object")
	assert.Contains(t, got, `"next_prompt"`)
}

func TestSystemPrompt_StrictModeLeavesSystemAlone(t *testing.T) {
	strict := *practiceSchema
	strict.Mode = StrictSchema
	req := practiceRequest()
	req.Schema = &strict

	assert.Equal(t, req.System, systemPrompt(req))
}

func TestSystemPrompt_NoSchema(t *testing.T) {
	req := Request{System: "tutor"}
	assert.Equal(t, "tutor", systemPrompt(req))
}

func TestFinish_UnwrapsFencedFeedback(t *testing.T) {
	text := "```json\n" + answerFeedback + "\n```"

	resp, err := finish(practiceRequest(), text, Usage{TotalTokens: 9}, "gpt-4o-mini", "end")
	require.NoError(t, err)
	assert.JSONEq(t, answerFeedback, string(resp.Content))
	assert.Equal(t, 9, resp.Usage.TotalTokens)
}

func TestFinish_TruncatedFeedbackIsMaxTokens(t *testing.T) {
	text := `{"corrected":"Je voudrais un café.","explanation":"Use the cond`

	_, err := finish(practiceRequest(), text, Usage{}, "gpt-4o-mini", "max_tokens")

	var maxTok *ErrMaxTokensExceeded
	require.True(t, errors.As(err, &maxTok), "got %T", err)
}

func TestFinish_MissingNextPromptIsInvalid(t *testing.T) {
	_, err := finish(practiceRequest(), `{"corrected":"","explanation":"","alternatives":[],"next_prompt":""}`, Usage{}, "m", "end")

	var invalid *ErrInvalidResponse
	require.True(t, errors.As(err, &invalid), "got %T", err)
}

func TestFinish_PlainTextBecomesJSONString(t *testing.T) {
	resp, err := finish(Request{}, "Bonjour !", Usage{}, "m", "end")
	require.NoError(t, err)

	var s string
	require.NoError(t, json.Unmarshal(resp.Content, &s))
	assert.Equal(t, "Bonjour !", s)
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, "gpt-4o-mini", resolveModel("", openaiModels, defaultOpenAIModel))
	assert.Equal(t, "claude-haiku-4-5-20251001", resolveModel("", anthropicModels, defaultAnthropicModel))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels, defaultGeminiModel))
	assert.Equal(t, "ft:gpt-4o-mini:parley", resolveModel("ft:gpt-4o-mini:parley", openaiModels, defaultOpenAIModel))
}

func TestMockProvider_QueueThenFallback(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(answerFeedback),
		Usage:   Usage{InputTokens: 120, OutputTokens: 45, TotalTokens: 165},
	})
	mock.Fallback = func(req Request) MockResponse {
		return MockResponse{Content: json.RawMessage(`{"corrected":"","explanation":"","alternatives":[],"next_prompt":"Encore ?"}`)}
	}

	first, err := mock.Generate(context.Background(), practiceRequest())
	require.NoError(t, err)
	assert.JSONEq(t, answerFeedback, string(first.Content))
	assert.Equal(t, 165, first.Usage.TotalTokens)

	second, err := mock.Generate(context.Background(), practiceRequest())
	require.NoError(t, err)
	assert.Contains(t, string(second.Content), "Encore")

	assert.Equal(t, 2, mock.CallCount())
	assert.Equal(t, "practice-feedback", mock.Calls[0].Schema.Name)
}

func TestMockProvider_EmptyQueueIsUnavailable(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), practiceRequest())

	var unavail *ErrProviderUnavailable
	require.True(t, errors.As(err, &unavail), "got %T", err)
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, "practice-answer", PurposeFrom(WithPurpose(ctx, "practice-answer")))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantEnv string
		wantErr bool
	}{
		{"openai without key", Config{Provider: "openai"}, EnvOpenAIKey, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, "", false},
		{"anthropic without key", Config{Provider: "anthropic"}, EnvAnthropicKey, true},
		{"mock needs no key", Config{Provider: "mock"}, "", false},
		{"unknown provider", Config{Provider: "llama"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantEnv != "" {
				var missing *ErrMissingCredential
				require.True(t, errors.As(err, &missing))
				assert.Equal(t, tt.wantEnv, missing.EnvVar)
			}
		})
	}
}
