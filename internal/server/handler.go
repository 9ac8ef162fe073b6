package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/abhisek/parley/internal/feedback"
	"github.com/abhisek/parley/internal/llm"
	"github.com/abhisek/parley/internal/practice"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, feedback.ErrorResponse{Error: message})
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req feedback.PracticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Session == nil {
		Error(w, http.StatusBadRequest, "Session data required")
		return
	}
	if err := req.Session.Validate(); err != nil {
		reason := strings.TrimPrefix(err.Error(), practice.ErrInvalidSession.Error()+": ")
		Error(w, http.StatusBadRequest, "Invalid session: "+reason)
		return
	}

	fb, err := s.svc.RequestFeedback(r.Context(), *req.Session, req.UserAnswer)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, fb)
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	resp := feedback.ErrorResponse{Error: err.Error(), Kind: feedback.KindUpstream}

	var (
		missing *llm.ErrMissingCredential
		se      *feedback.ServiceError
	)
	if errors.As(err, &se) {
		resp.Kind = se.Kind
	}
	if errors.As(err, &missing) {
		resp.Error = "Missing " + missing.EnvVar
		resp.Kind = feedback.KindConfig
	}

	s.logger.Error("practice request failed",
		"error", err,
		"kind", resp.Kind,
		"request_id", requestID(r),
	)
	JSON(w, http.StatusInternalServerError, resp)
}

type configResponse struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	provider, model := s.describe.Describe()
	JSON(w, http.StatusOK, configResponse{Provider: provider, Model: model})
}
