package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider_Defaults(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", p.ModelID())
}

func TestNewOpenRouterProvider_VendorPrefixedModelPassesThrough(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey: "sk-or-test",
		Model:  "anthropic/claude-3-haiku",
	})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", p.ModelID())
}

func TestNewOpenRouterProvider_MissingKeyNamesEnvVar(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4o-mini"})

	var missing *ErrMissingCredential
	require.True(t, errors.As(err, &missing), "got %T", err)
	assert.Equal(t, EnvOpenRouterKey, missing.EnvVar)
}

func TestOpenRouterProvider_SendsPracticeRequestToBaseURL(t *testing.T) {
	var gotPath, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "openai/gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": `{"corrected":"","explanation":"","alternatives":[],"next_prompt":"Wie heißt du?"}`},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", BaseURL: srv.URL + "/api/v1"})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), practiceRequest())
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/chat/completions", gotPath)
	assert.Equal(t, "openai/gpt-4o-mini", gotModel)
	assert.JSONEq(t, `{"corrected":"","explanation":"","alternatives":[],"next_prompt":"Wie heißt du?"}`, string(resp.Content))
}
