package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds surfaced to the views. Every failure produced by the client
// unwraps to exactly one of these.

var (
	// ErrValidation indicates malformed or missing input, caught before dispatch
	// or rejected by the backend as invalid
	ErrValidation = errors.New("validation error")

	// ErrAuth indicates bad credentials or an expired/invalid token
	ErrAuth = errors.New("authentication error")

	// ErrAuthorization indicates a role or ownership mismatch for an action
	ErrAuthorization = errors.New("authorization error")

	// ErrNotFound indicates a stale id, typically after a concurrent mutation
	ErrNotFound = errors.New("not found")

	// ErrNetwork indicates the backend could not be reached
	ErrNetwork = errors.New("network error")

	// ErrServer indicates an unexpected backend failure or response shape
	ErrServer = errors.New("server error")
)

// APIError is a backend failure carrying the status code and the backend's
// message verbatim.
type APIError struct {
	Status  int
	Message string
	Kind    error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d: %v", e.Status, e.Kind)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// KindForStatus maps an HTTP status code to an error kind
func KindForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity, status == http.StatusConflict:
		return ErrValidation
	case status == http.StatusUnauthorized:
		return ErrAuth
	case status == http.StatusForbidden:
		return ErrAuthorization
	case status == http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrServer
	}
}

// NewAPIError builds an APIError for a non-2xx response
func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message, Kind: KindForStatus(status)}
}

// ValidationError creates a client-side validation error with context
func ValidationError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// FieldError is a client-side validation failure for a single input
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

// NetworkError wraps a transport failure
func NetworkError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
}

// ServerError creates a server error with context
func ServerError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrServer)
}

// KindOf returns the error kind err unwraps to, or ErrServer when unknown
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrAuth, ErrAuthorization, ErrNotFound, ErrNetwork, ErrServer} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrServer
}

// MessageOr returns the user-facing message for err: the backend's message
// when it sent one, the field reason for client-side validation, else fallback.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Reason
	}
	return fallback
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As re-exported so callers need a single errors import
func As(err error, target any) bool {
	return errors.As(err, target)
}
