package feedback

import (
	"errors"

	"github.com/abhisek/parley/internal/llm"
)

// Kind classifies a ServiceError.
type Kind string

const (
	KindConfig          Kind = "config"           // provider credential or selection problem
	KindUpstream        Kind = "upstream"         // model call or transport failed
	KindInvalidResponse Kind = "invalid_response" // reply was not the expected JSON shape
)

// ServiceError is the only error type the feedback service returns. Its
// message is the underlying error's message.
type ServiceError struct {
	Kind Kind
	Err  error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *ServiceError) Unwrap() error { return e.Err }

// classify wraps err in a ServiceError, choosing the kind from the llm
// error types it wraps.
func classify(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}

	var (
		missing *llm.ErrMissingCredential
		unknown *llm.ErrUnknownProvider
		invalid *llm.ErrInvalidResponse
		maxTok  *llm.ErrMaxTokensExceeded
	)
	switch {
	case errors.As(err, &missing), errors.As(err, &unknown):
		return &ServiceError{Kind: KindConfig, Err: err}
	case errors.As(err, &invalid), errors.As(err, &maxTok):
		return &ServiceError{Kind: KindInvalidResponse, Err: err}
	}
	return &ServiceError{Kind: KindUpstream, Err: err}
}
