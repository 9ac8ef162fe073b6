package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/abhisek/parley/internal/llm"
	"github.com/abhisek/parley/internal/practice"
)

// PracticePath is the server route the Client posts to.
const PracticePath = "/api/practice"

// PracticeRequest is the body of POST /api/practice.
type PracticeRequest struct {
	Session    *practice.Session `json:"session"`
	UserAnswer *string           `json:"userAnswer,omitempty"`
}

// ErrorResponse is the body of every non-200 response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  Kind   `json:"kind,omitempty"`
}

// Client requests feedback from a parley server instead of calling an
// LLM directly.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ practice.Requester = (*Client)(nil)

// NewClient returns a Client for the server at baseURL. A nil httpClient
// uses a client with no timeout; the caller's context bounds requests.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// RequestFeedback posts the session and answer and decodes the reply.
// Every failure is a *ServiceError.
func (c *Client) RequestFeedback(ctx context.Context, sess practice.Session, answer *string) (*practice.Feedback, error) {
	body, err := json.Marshal(PracticeRequest{Session: &sess, UserAnswer: answer})
	if err != nil {
		return nil, &ServiceError{Kind: KindUpstream, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PracticePath, bytes.NewReader(body))
	if err != nil {
		return nil, &ServiceError{Kind: KindUpstream, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ServiceError{Kind: KindUpstream, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ServiceError{Kind: KindUpstream, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		var e ErrorResponse
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = fmt.Sprintf("server returned %s", resp.Status)
		}
		kind := e.Kind
		if kind == "" {
			kind = KindUpstream
		}
		return nil, &ServiceError{Kind: kind, Err: errors.New(e.Error)}
	}

	if err := llm.ValidateJSON(ResponseSchema, raw); err != nil {
		return nil, &ServiceError{Kind: KindInvalidResponse, Err: err}
	}
	var fb practice.Feedback
	if err := json.Unmarshal(raw, &fb); err != nil {
		return nil, &ServiceError{Kind: KindInvalidResponse, Err: err}
	}
	if fb.Alternatives == nil {
		fb.Alternatives = []string{}
	}
	return &fb, nil
}
