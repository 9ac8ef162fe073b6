// Package feedback turns a practice session and the learner's answer into
// a correction and the next prompt, either by calling an LLM directly
// (Service) or through a running parley server (Client).
package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/parley/internal/llm"
	"github.com/abhisek/parley/internal/practice"
)

// ProviderSource yields the provider for a request. *llm.Source is the
// production implementation.
type ProviderSource interface {
	Provider(ctx context.Context) (llm.Provider, error)
}

// Static adapts a fixed provider to ProviderSource.
func Static(p llm.Provider) ProviderSource {
	return staticSource{p}
}

type staticSource struct{ p llm.Provider }

func (s staticSource) Provider(context.Context) (llm.Provider, error) { return s.p, nil }

// Service requests feedback from an LLM. It holds no session state.
type Service struct {
	source ProviderSource
	config Config
}

var _ practice.Requester = (*Service)(nil)

// NewService creates a Service.
func NewService(source ProviderSource, cfg Config) *Service {
	return &Service{source: source, config: cfg}
}

// feedbackOutput is the raw LLM response after schema validation.
type feedbackOutput struct {
	Corrected    string   `json:"corrected"`
	Explanation  string   `json:"explanation"`
	Alternatives []string `json:"alternatives"`
	NextPrompt   string   `json:"next_prompt"`
}

// RequestFeedback asks the model to correct answer and pose the next
// prompt. A nil or blank answer starts the session instead. Every failure
// is a *ServiceError.
func (s *Service) RequestFeedback(ctx context.Context, sess practice.Session, answer *string) (*practice.Feedback, error) {
	fb, err := s.request(ctx, sess, answer)
	if err != nil {
		return nil, classify(err)
	}
	return fb, nil
}

func (s *Service) request(ctx context.Context, sess practice.Session, answer *string) (*practice.Feedback, error) {
	provider, err := s.source.Provider(ctx)
	if err != nil {
		return nil, err
	}

	text := ""
	if answer != nil {
		text = strings.TrimSpace(*answer)
	}
	opening := text == ""

	purpose := "practice-answer"
	if opening {
		purpose = "practice-start"
	}
	ctx = llm.WithPurpose(ctx, purpose)
	if sess.ID != "" {
		ctx = llm.WithSessionID(ctx, sess.ID)
	}

	req := llm.Request{
		System: buildSystemPrompt(sess),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(sess, text)},
		},
		Schema:      FeedbackSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	return decode(resp.Content, opening, s.config.MaxAlternatives)
}

// decode parses validated model output into Feedback and normalizes it.
func decode(raw json.RawMessage, opening bool, maxAlternatives int) (*practice.Feedback, error) {
	var out feedbackOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("parse feedback: %w", err)}
	}
	fb := normalize(practice.Feedback{
		Corrected:    out.Corrected,
		Explanation:  out.Explanation,
		Alternatives: out.Alternatives,
		NextPrompt:   out.NextPrompt,
	}, opening, maxAlternatives)
	if fb.NextPrompt == "" {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: errors.New("next_prompt is empty")}
	}
	return &fb, nil
}

// normalize trims fields, drops blank alternatives and caps their count.
// An opening response keeps only NextPrompt.
func normalize(fb practice.Feedback, opening bool, maxAlternatives int) practice.Feedback {
	fb.NextPrompt = strings.TrimSpace(fb.NextPrompt)
	fb.Opening = opening
	if opening {
		fb.Corrected = ""
		fb.Explanation = ""
		fb.Alternatives = []string{}
		return fb
	}

	fb.Corrected = strings.TrimSpace(fb.Corrected)
	fb.Explanation = strings.TrimSpace(fb.Explanation)
	alts := make([]string, 0, len(fb.Alternatives))
	for _, a := range fb.Alternatives {
		if a = strings.TrimSpace(a); a != "" {
			alts = append(alts, a)
		}
	}
	if maxAlternatives > 0 && len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}
	fb.Alternatives = alts
	return fb
}
