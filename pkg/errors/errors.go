// Package errors defines the error taxonomy shared across the engine.
//
// Every public operation (tell/ask/augment/navigate/iterate) returns a
// result struct rather than a bare error; internal failures are classified
// into an AppError before they cross an operation boundary, covering the
// six error classes: config, transient I/O, protocol, domain, validation,
// and not-found. Parse errors (malformed concept-extractor output) and
// data errors (dimension mismatch, missing embedding) are handled by the
// caller skipping the offending record and logging — they never become an
// AppError, since there is nothing actionable for a caller to do with one.
package errors

import "fmt"

// ErrorType categorizes a failure so callers can decide whether to retry,
// surface to the user, or treat it as fatal.
type ErrorType string

const (
	// ErrorTypeConfig covers missing config sections, invalid storage
	// types, and missing provider credentials. Fatal at startup.
	ErrorTypeConfig ErrorType = "CONFIG"

	// ErrorTypeTransient covers SPARQL/LLM/embedding HTTP failures,
	// retried with backoff before being surfaced.
	ErrorTypeTransient ErrorType = "TRANSIENT"

	// ErrorTypeProtocol covers malformed SPARQL JSON or an unexpected
	// response shape from an outbound dependency.
	ErrorTypeProtocol ErrorType = "PROTOCOL"

	// ErrorTypeDomain covers unsupported zoom levels, unknown tilt
	// projections, and similar caller-facing misuse. Never retried.
	ErrorTypeDomain ErrorType = "DOMAIN"

	// ErrorTypeValidation covers malformed inbound payloads.
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeNotFound covers missing interactions, sessions, or nodes.
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeUnavailable covers a circuit-open downstream dependency.
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"

	// ErrorTypeInternal is the catch-all for unclassified failures.
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError is the error type carried across every package boundary in the
// engine.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func newf(t ErrorType, format string, args ...interface{}) error {
	return &AppError{Type: t, Message: fmt.Sprintf(format, args...)}
}

// NewConfig creates a fatal configuration error.
func NewConfig(format string, args ...interface{}) error {
	return newf(ErrorTypeConfig, format, args...)
}

// NewValidation creates a validation error.
func NewValidation(format string, args ...interface{}) error {
	return newf(ErrorTypeValidation, format, args...)
}

// NewNotFound creates a not-found error.
func NewNotFound(format string, args ...interface{}) error {
	return newf(ErrorTypeNotFound, format, args...)
}

// NewDomain creates a domain-rule error (unsupported zoom/tilt, etc).
func NewDomain(format string, args ...interface{}) error {
	return newf(ErrorTypeDomain, format, args...)
}

// NewProtocol creates a malformed-response error.
func NewProtocol(format string, args ...interface{}) error {
	return newf(ErrorTypeProtocol, format, args...)
}

// NewTransient wraps err as a retried-then-surfaced transient failure.
func NewTransient(message string, err error) error {
	return &AppError{Type: ErrorTypeTransient, Message: message, Err: err}
}

// NewUnavailable wraps err for a circuit-open or exhausted-retry dependency.
func NewUnavailable(message string, err error) error {
	return &AppError{Type: ErrorTypeUnavailable, Message: message, Err: err}
}

// NewInternal creates an internal error.
func NewInternal(message string, err error) error {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// Wrap attaches context to err, preserving its ErrorType if it is already
// an AppError, else classifying it as internal.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Type:    appErr.Type,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     appErr.Err,
		}
	}
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal if err is not
// an *AppError.
func TypeOf(err error) ErrorType {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Is reports whether err is an *AppError of type t.
func Is(err error, t ErrorType) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == t
}

func IsValidation(err error) bool  { return Is(err, ErrorTypeValidation) }
func IsNotFound(err error) bool    { return Is(err, ErrorTypeNotFound) }
func IsTransient(err error) bool   { return Is(err, ErrorTypeTransient) }
func IsUnavailable(err error) bool { return Is(err, ErrorTypeUnavailable) }
func IsDomain(err error) bool      { return Is(err, ErrorTypeDomain) }
func IsProtocol(err error) bool    { return Is(err, ErrorTypeProtocol) }
func IsInternal(err error) bool    { return Is(err, ErrorTypeInternal) }
