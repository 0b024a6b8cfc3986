package common

import (
	"errors"
	"fmt"
)

// ValidationError is returned for malformed or disallowed input. It is never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// UpstreamUnavailableError wraps failures talking to the oracle or a chain.
type UpstreamUnavailableError struct {
	Upstream string
	Err      error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %s", e.Upstream, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Err
}

type InsufficientFundsError struct {
	Required  string
	Available string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s", e.Required, e.Available)
}

type RetriesExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %s", e.Attempts, e.LastErr)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.LastErr
}

// ErrorTag names the taxonomy class of err for client responses.
func ErrorTag(err error) string {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	var upstreamErr *UpstreamUnavailableError
	var fundsErr *InsufficientFundsError
	var retriesErr *RetriesExhaustedError

	switch {
	case errors.As(err, &validationErr):
		return "ValidationError"
	case errors.As(err, &notFoundErr):
		return "NotFoundError"
	case errors.As(err, &fundsErr):
		return "InsufficientFunds"
	case errors.As(err, &upstreamErr), errors.As(err, &retriesErr):
		return "UpstreamUnavailable"
	default:
		return "InternalServerError"
	}
}
