package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", nil)
}

func TestClient_Success(t *testing.T) {
	var got PracticeRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != PracticePath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"corrected":    "Je voudrais un café.",
			"explanation":  "Polite form.",
			"alternatives": []string{"Un café, s'il vous plaît."},
			"next_prompt":  "Now ask for the bill.",
			"opening":      false,
		})
	})

	fb, err := c.RequestFeedback(context.Background(), testSession(), strPtr("Je veux un café"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.NextPrompt != "Now ask for the bill." || len(fb.Alternatives) != 1 {
		t.Fatalf("unexpected feedback %+v", fb)
	}
	if got.Session == nil || got.Session.TargetLanguage != "French" {
		t.Fatalf("session not sent: %+v", got)
	}
	if got.UserAnswer == nil || *got.UserAnswer != "Je veux un café" {
		t.Fatalf("answer not sent: %+v", got.UserAnswer)
	}
}

func TestClient_OpeningOmitsAnswer(t *testing.T) {
	var body map[string]json.RawMessage
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"corrected":"","explanation":"","alternatives":[],"next_prompt":"Bonjour !","opening":true}`))
	})

	fb, err := c.RequestFeedback(context.Background(), testSession(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := body["userAnswer"]; ok {
		t.Fatal("userAnswer should be omitted for the opening request")
	}
	if !fb.Opening {
		t.Fatal("expected opening flag from server")
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantMsg  string
	}{
		{"missing key", 500, `{"error":"Missing OPENAI_API_KEY","kind":"config"}`, KindConfig, "Missing OPENAI_API_KEY"},
		{"bad request", 400, `{"error":"Session data required"}`, KindUpstream, "Session data required"},
		{"non-JSON error", 502, `<html>bad gateway</html>`, KindUpstream, "server returned 502 Bad Gateway"},
		{"malformed success", 200, `{"corrected":"x"}`, KindInvalidResponse, ""},
		{"not JSON success", 200, `oops`, KindInvalidResponse, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.RequestFeedback(context.Background(), testSession(), strPtr("hola"))
			var se *ServiceError
			if !errors.As(err, &se) {
				t.Fatalf("expected *ServiceError, got %T (%v)", err, err)
			}
			if se.Kind != tt.wantKind {
				t.Fatalf("Kind = %q, want %q", se.Kind, tt.wantKind)
			}
			if tt.wantMsg != "" && se.Error() != tt.wantMsg {
				t.Fatalf("message = %q, want %q", se.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil)
	_, err := c.RequestFeedback(context.Background(), testSession(), nil)
	var se *ServiceError
	if !errors.As(err, &se) || se.Kind != KindUpstream {
		t.Fatalf("expected upstream ServiceError, got %v", err)
	}
}
