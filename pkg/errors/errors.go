// Package errors provides the typed error surface the core returns to its
// host.
package errors

import (
	"fmt"
	"time"
)

// Kind classifies an AppError into one of a fixed set of error kinds. Per-line
// parse failures are counted by the loader rather than surfaced as a Kind
// here -- only ParseError raised directly by a parser's Parse/Validate
// contract (e.g. empty line rejected by Drain) uses this kind.
type Kind string

const (
	KindInvalidInput         Kind = "invalid_input"
	KindParseError           Kind = "parse_error"
	KindIoError              Kind = "io_error"
	KindUnsupportedEncoding  Kind = "unsupported_encoding"
	KindModelNotFitted       Kind = "model_not_fitted"
	KindExternalUnavailable  Kind = "external_unavailable"
)

// AppError is the structured error type returned across package boundaries.
type AppError struct {
	Kind      Kind
	Component string
	Operation string
	Message   string
	Cause     error
	Timestamp time.Time
}

// New creates an AppError without a wrapped cause.
func New(kind Kind, component, operation, message string) *AppError {
	return &AppError{
		Kind:      kind,
		Component: component,
		Operation: operation,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap creates an AppError carrying cause as its underlying error.
func Wrap(kind Kind, component, operation string, cause error) *AppError {
	return &AppError{
		Kind:      kind,
		Component: component,
		Operation: operation,
		Message:   cause.Error(),
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Component, e.Operation, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Component, e.Operation, e.Kind, e.Message)
}

// Unwrap lets errors.Is / errors.As see through to the wrapped cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, errors.New(KindX, ...)) match purely on Kind,
// which is the comparison the loader and model callers actually need.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// InvalidInput builds a KindInvalidInput error.
func InvalidInput(component, operation, message string) *AppError {
	return New(KindInvalidInput, component, operation, message)
}

// IoError builds a KindIoError error, wrapping cause.
func IoError(component, operation string, cause error) *AppError {
	return Wrap(KindIoError, component, operation, cause)
}

// UnsupportedEncoding builds a KindUnsupportedEncoding error.
func UnsupportedEncoding(component, operation, message string) *AppError {
	return New(KindUnsupportedEncoding, component, operation, message)
}

// ModelNotFitted builds a KindModelNotFitted error.
func ModelNotFitted(component, operation string) *AppError {
	return New(KindModelNotFitted, component, operation, "model must be fitted before predict/score")
}

// ExternalUnavailable builds a KindExternalUnavailable error.
func ExternalUnavailable(component, operation, message string) *AppError {
	return New(KindExternalUnavailable, component, operation, message)
}

// ParseError builds a KindParseError error.
func ParseError(component, operation, message string) *AppError {
	return New(KindParseError, component, operation, message)
}
