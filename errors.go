package pictor

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a failure by how the caller should handle it.
// Kinds are mutually exclusive: every error produced by this library
// carries exactly one.
type ErrorKind string

const (
	// KindConfig indicates an invalid descriptor field. Raised before any
	// network call and never retried.
	KindConfig ErrorKind = "config"

	// KindValidation indicates invalid request content or a missing
	// argument. Raised before dispatch and never retried.
	KindValidation ErrorKind = "validation"

	// KindNetwork indicates a transport-level failure such as a DNS error
	// or connection reset. Retryable.
	KindNetwork ErrorKind = "network"

	// KindServer indicates an HTTP response with status >= 500. Retryable.
	KindServer ErrorKind = "server"

	// KindClient indicates an HTTP response with status in [400,500).
	// Not retryable; the request must be corrected first.
	KindClient ErrorKind = "client"

	// KindTimeout indicates the descriptor's deadline elapsed before the
	// call completed.
	KindTimeout ErrorKind = "timeout"

	// KindCancelled indicates the caller cancelled the context. Propagates
	// immediately, bypassing retry.
	KindCancelled ErrorKind = "cancelled"

	// KindSerialization indicates a response body that was empty or could
	// not be parsed into the expected shape.
	KindSerialization ErrorKind = "serialization"
)

// Error is the single error type produced by this library. The Kind field
// determines which of the remaining fields are meaningful.
type Error struct {
	Kind ErrorKind
	Msg  string

	// Code is the HTTP status code for server and client kinds, 0 otherwise.
	Code int

	// Body is the raw response body for server and client kinds.
	Body []byte

	// Timeout is the configured deadline for the timeout kind.
	Timeout time.Duration

	// RetryDelay is the server's suggested delay from a Retry-After
	// header, 0 if not present.
	RetryDelay time.Duration

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message.
func (e *Error) Error() string {
	switch {
	case e.Code > 0 && len(e.Body) > 0:
		return fmt.Sprintf("%s: %s: status=%d body=%s", e.Kind, e.Msg, e.Code, e.Body)
	case e.Code > 0:
		return fmt.Sprintf("%s: %s: status=%d", e.Kind, e.Msg, e.Code)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable returns true for kinds the transport retries locally:
// network failures and server-side (>= 500) responses.
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindServer
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// NewConfigError creates a config-kind error naming the invalid field.
func NewConfigError(field, reason string) *Error {
	return &Error{Kind: KindConfig, Msg: fmt.Sprintf("%s %s", field, reason)}
}

// NewValidationError creates a validation-kind error naming the invalid field.
func NewValidationError(field, reason string) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf("%s %s", field, reason)}
}

// NewNetworkError creates a retryable network-kind error wrapping cause.
func NewNetworkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Msg: "request failed", Cause: cause}
}

// NewServerError creates a retryable server-kind error carrying the status
// code, raw body, and any Retry-After suggestion.
func NewServerError(code int, body []byte, retryAfter time.Duration) *Error {
	return &Error{Kind: KindServer, Msg: "server error", Code: code, Body: body, RetryDelay: retryAfter}
}

// NewClientError creates a client-kind error carrying the status code,
// raw body, and any Retry-After suggestion.
func NewClientError(code int, body []byte, retryAfter time.Duration) *Error {
	return &Error{Kind: KindClient, Msg: "client error", Code: code, Body: body, RetryDelay: retryAfter}
}

// NewTimeoutError creates a timeout-kind error carrying the configured deadline.
func NewTimeoutError(timeout time.Duration) *Error {
	return &Error{Kind: KindTimeout, Msg: fmt.Sprintf("deadline of %s elapsed", timeout), Timeout: timeout}
}

// NewCancelledError creates a cancelled-kind error wrapping the context error.
func NewCancelledError(cause error) *Error {
	return &Error{Kind: KindCancelled, Msg: "cancelled by caller", Cause: cause}
}

// NewSerializationError creates a serialization-kind error wrapping cause.
func NewSerializationError(msg string, cause error) *Error {
	return &Error{Kind: KindSerialization, Msg: msg, Cause: cause}
}

// KindOf returns the kind of err, or "" if err is not a pictor error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRetryable returns true if err is a retryable pictor error.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable()
}

// IsConfig returns true if err is a config-kind error.
func IsConfig(err error) bool { return KindOf(err) == KindConfig }

// IsValidation returns true if err is a validation-kind error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNetwork returns true if err is a network-kind error.
func IsNetwork(err error) bool { return KindOf(err) == KindNetwork }

// IsServer returns true if err is a server-kind error.
func IsServer(err error) bool { return KindOf(err) == KindServer }

// IsClient returns true if err is a client-kind error.
func IsClient(err error) bool { return KindOf(err) == KindClient }

// IsTimeout returns true if err is a timeout-kind error.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// IsCancelled returns true if err is a cancelled-kind error.
func IsCancelled(err error) bool { return KindOf(err) == KindCancelled }

// IsSerialization returns true if err is a serialization-kind error.
func IsSerialization(err error) bool { return KindOf(err) == KindSerialization }

// StatusCodeOf returns the HTTP status code from a pictor error, or 0.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// BodyOf returns the raw response body from a pictor error, or nil.
func BodyOf(err error) []byte {
	var e *Error
	if errors.As(err, &e) {
		return e.Body
	}
	return nil
}

// RetryAfterOf returns the server-suggested retry delay, or 0.
func RetryAfterOf(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryDelay
	}
	return 0
}
