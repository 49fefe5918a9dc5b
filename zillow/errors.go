package zillow

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a terminal failure of one logical upstream call.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindAuthFailure       Kind = "authentication_failure"
	KindNotFound          Kind = "not_found"
	KindRateLimited       Kind = "rate_limited"
	KindTransient         Kind = "transient_upstream_error"
	KindDeadlineExceeded  Kind = "deadline_exceeded"
	KindContractViolation Kind = "upstream_contract_violation"
)

// retryable reports whether a failure of this kind may consume retry budget.
func (k Kind) retryable() bool {
	return k == KindRateLimited || k == KindTransient
}

// Error is the classified failure surfaced to callers. Its message never
// contains the credential or raw transport internals.
type Error struct {
	Kind       Kind
	Endpoint   Endpoint
	StatusCode int // zero when the failure happened below HTTP
	Attempts   int
	Message    string
	cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.cause != nil {
		msg = e.cause.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("zillow: %s: %s (status %d, attempts %d)", e.Endpoint, msg, e.StatusCode, e.Attempts)
	}
	if e.Endpoint != "" {
		return fmt.Sprintf("zillow: %s: %s", e.Endpoint, msg)
	}
	return "zillow: " + msg
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches errors by kind, so callers can test with errors.Is against a
// bare &Error{Kind: ...}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf extracts the classification from err, or "" when unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is classified as k.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// classifyStatus maps a non-2xx upstream status to a failure kind.
func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuthFailure
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindTransient
	default:
		// Remaining 4xx mean the request itself was malformed.
		return KindInvalidInput
	}
}

func invalidInput(endpoint Endpoint, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Endpoint: endpoint, Message: msg}
}

func contractViolation(endpoint Endpoint, attempts int, cause error) *Error {
	return &Error{
		Kind:     KindContractViolation,
		Endpoint: endpoint,
		Attempts: attempts,
		Message:  "response body does not match the expected shape",
		cause:    cause,
	}
}
