package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/parley/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	name      string
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging. name is the provider
// name recorded with each event. repo may be nil.
func WithLogging(p Provider, name string, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, name: name, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		SessionID:   SessionIDFrom(ctx),
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		if body := rejectedContent(err); body != nil {
			data.ResponseBody = string(body)
		}
		slog.WarnContext(ctx, "llm request failed",
			"provider", data.Provider, "model", data.Model, "purpose", purpose,
			"latency_ms", latencyMs, "error", err)
	} else {
		slog.DebugContext(ctx, "llm request",
			"provider", data.Provider, "model", data.Model, "purpose", purpose,
			"latency_ms", latencyMs, "input_tokens", data.InputTokens, "output_tokens", data.OutputTokens)
	}

	if l.eventRepo == nil {
		return resp, err
	}

	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		slog.WarnContext(ctx, "failed to record LLM request event", "error", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders the request as the vendor saw it: the
// effective system prompt, the messages and the output mode.
func serializeRequest(req Request) string {
	var b strings.Builder

	if system := systemPrompt(req); system != "" {
		b.WriteString("[system]\n")
		b.WriteString(system)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		fmt.Fprintf(&b, "[output: %s %s]\n", req.Schema.Mode, req.Schema.Name)
		if req.Schema.Mode == StrictSchema {
			if def, err := json.Marshal(req.Schema.Definition); err == nil {
				b.Write(def)
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// rejectedContent returns the reply body carried by a validation or
// truncation error, so the event log shows what the model sent.
func rejectedContent(err error) json.RawMessage {
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		return invalid.Content
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return maxTok.Content
	}
	return nil
}
