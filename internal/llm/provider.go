package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Provider is what the feedback service talks to. Vendor adapters, the
// mock and every decorator implement it.
type Provider interface {
	// Generate sends one practice exchange to the model. When req.Schema
	// is set the returned Content is a JSON object that passed validation.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request is a single-turn exchange: a system prompt describing the
// learner and one user message carrying their answer.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, makes the reply structured. How the vendor is
	// asked for JSON depends on Schema.Mode.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default in place for
	// vendors that distinguish unset from zero.
	Temperature float64
}

// Message is one turn of the exchange.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// OutputMode selects how a vendor is asked to produce JSON.
type OutputMode int

const (
	// JSONObject asks for any JSON object and spells the schema out in the
	// system prompt. The reply is validated locally. This is the
	// response_format the practice endpoint has always used.
	JSONObject OutputMode = iota

	// StrictSchema hands the schema to the vendor's constrained decoder.
	// Only schemas that satisfy the vendor's strict subset work here.
	StrictSchema
)

func (m OutputMode) String() string {
	if m == StrictSchema {
		return "strict_schema"
	}
	return "json_object"
}

// Schema defines the JSON object expected from the model.
type Schema struct {
	// Name is kebab-case, e.g. "practice-feedback". OpenAI uses it as the
	// json_schema name in strict mode.
	Name        string
	Description string
	Definition  map[string]any
	Mode        OutputMode
}

// Instruction renders the schema as a system prompt suffix for vendors
// running in JSONObject mode.
func (s *Schema) Instruction() string {
	def, err := json.Marshal(s.Definition)
	if err != nil {
		def = []byte("{}")
	}
	var b strings.Builder
	b.WriteString("Respond with a single JSON object and nothing else.")
	if s.Description != "" {
		fmt.Fprintf(&b, " The object is: %s.", s.Description)
	}
	fmt.Fprintf(&b, " It must validate against this JSON Schema:\n%s", def)
	return b.String()
}

// systemPrompt returns req.System, extended with the schema instruction
// when the request runs in JSONObject mode.
func systemPrompt(req Request) string {
	if req.Schema == nil || req.Schema.Mode != JSONObject {
		return req.System
	}
	if req.System == "" {
		return req.Schema.Instruction()
	}
	return req.System + "\n\n" + req.Schema.Instruction()
}

// Response holds the model's reply.
type Response struct {
	// Content is the validated JSON object when the request carried a
	// Schema, and the reply text encoded as a JSON string otherwise.
	Content json.RawMessage
	Usage   Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is one of "end", "max_tokens", "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish turns a vendor's reply text into a Response. Structured replies
// are unwrapped from code fences and validated; a reply that fails
// validation after hitting the token limit is reported as truncated.
func finish(req Request, text string, usage Usage, model, stop string) (*Response, error) {
	resp := &Response{Usage: usage, Model: model, StopReason: stop}
	if req.Schema == nil {
		raw, err := json.Marshal(text)
		if err != nil {
			return nil, &ErrInvalidResponse{Err: err}
		}
		resp.Content = raw
		return resp, nil
	}

	resp.Content = extractJSON(text)
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		if stop == "max_tokens" {
			return nil, &ErrMaxTokensExceeded{Content: resp.Content}
		}
		return nil, err
	}
	return resp, nil
}

// resolveModel maps a friendly model name to a vendor model ID. Unknown
// names pass through so direct IDs work. An empty name yields fallback.
func resolveModel(name string, models map[string]string, fallback string) string {
	if name == "" {
		name = fallback
	}
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
