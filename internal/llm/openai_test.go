package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	client := openai.NewClientWithConfig(config)

	return &OpenAIProvider{
		client: client,
		model:  "gpt-4o-mini",
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": `{"next_prompt":"¿Qué desea pedir?"}`,
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     40,
				"completion_tokens": 25,
				"total_tokens":      65,
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a language tutor.",
		Messages:  []Message{{Role: RoleUser, Content: "Start the session."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 {
		t.Fatalf("expected 40 input tokens, got %d", resp.Usage.InputTokens)
	}
	if resp.Usage.OutputTokens != 25 {
		t.Fatalf("expected 25 output tokens, got %d", resp.Usage.OutputTokens)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "tokens",
				"message": "Rate limit exceeded",
				"code":    "rate_limit_exceeded",
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "test"}},
		MaxTokens: 100,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ServerError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "server_error",
				"message": "Internal server error",
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "test"}},
		MaxTokens: 100,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ModelID(t *testing.T) {
	p := &OpenAIProvider{model: "gpt-4o-mini"}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("expected 'gpt-4o-mini', got %q", p.ModelID())
	}
}

func TestOpenAIProvider_BaseURLOverride(t *testing.T) {
	// Verify that the provider can be created with a custom BaseURL.
	cfg := OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o",
		BaseURL: "https://openrouter.ai/api/v1",
	}
	p, err := NewOpenAIProvider(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Fatalf("expected 'gpt-4o', got %q", p.ModelID())
	}
}

func TestOpenAIProvider_SchemaRequestAndValidation(t *testing.T) {
	var gotFormat map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotFormat, _ = body["response_format"].(map[string]any)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": `{"reply":42}`},
					"finish_reason": "stop",
				},
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "test"}},
		Schema: &Schema{
			Name: "test-reply",
			Mode: StrictSchema,
			Definition: map[string]any{
				"type":                 "object",
				"properties":           map[string]any{"reply": map[string]any{"type": "string"}},
				"required":             []any{"reply"},
				"additionalProperties": false,
			},
		},
	})

	if gotFormat["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %v", gotFormat["type"])
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse for wrong type, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_PracticeFeedbackUsesJSONObject(t *testing.T) {
	var body struct {
		Model          string                         `json:"model"`
		Messages       []openai.ChatCompletionMessage `json:"messages"`
		ResponseFormat map[string]any                 `json:"response_format"`
	}
	handler := func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-mini-2024-07-18",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "```json\n" + answerFeedback + "\n```"},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 310, "completion_tokens": 62, "total_tokens": 372},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	resp, err := p.Generate(context.Background(), practiceRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if body.ResponseFormat["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", body.ResponseFormat)
	}
	if _, ok := body.ResponseFormat["json_schema"]; ok {
		t.Fatal("json_object mode must not send a json_schema")
	}
	if len(body.Messages) != 2 || body.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("expected system + user messages, got %+v", body.Messages)
	}
	if !strings.Contains(body.Messages[0].Content, `"next_prompt"`) {
		t.Fatalf("system prompt should carry the schema, got %q", body.Messages[0].Content)
	}
	if string(resp.Content) != answerFeedback {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if resp.Model != "gpt-4o-mini-2024-07-18" || resp.Usage.TotalTokens != 372 {
		t.Fatalf("unexpected model/usage: %s %+v", resp.Model, resp.Usage)
	}
}

func TestOpenAIProvider_TruncatedFeedback(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": `{"corrected":"Je voudrais`},
				"finish_reason": "length",
			}},
		})
	}

	_, err := newTestOpenAIProvider(t, handler).Generate(context.Background(), practiceRequest())

	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_InvalidKeyIsRejected(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "invalid_request_error", "message": "Incorrect API key provided", "code": "invalid_api_key"},
		})
	}

	_, err := newTestOpenAIProvider(t, handler).Generate(context.Background(), practiceRequest())

	var rejected *ErrRejected
	if !errors.As(err, &rejected) || rejected.Status != http.StatusUnauthorized {
		t.Fatalf("expected ErrRejected(401), got: %T (%v)", err, err)
	}
}

func TestNewOpenAIProvider_DefaultsToMini(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("expected gpt-4o-mini, got %q", p.ModelID())
	}

	_, err = NewOpenAIProvider(OpenAIConfig{})
	var missing *ErrMissingCredential
	if !errors.As(err, &missing) || missing.EnvVar != EnvOpenAIKey {
		t.Fatalf("expected missing %s, got %v", EnvOpenAIKey, err)
	}
}
