package errorx

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API error for HTTP mapping and client remediation
type Kind string

const (
	KindValidation         Kind = "validation"
	KindUnauthorized       Kind = "unauthorized"
	KindPermissionDenied   Kind = "permission_denied"
	KindNotFound           Kind = "not_found"
	KindPreconditionFailed Kind = "precondition_failed"
	KindTransactionFailed  Kind = "transaction_failed"
	KindBadSignature       Kind = "bad_signature"
	KindExpired            Kind = "expired"
	KindMalformed          Kind = "malformed"
	KindInternal           Kind = "internal"
)

// APIError is a structured error carrying a kind and optional details
type APIError struct {
	Kind    Kind           `json:"kind"`
	Message string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As
func (e *APIError) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the error kind to an HTTP status code
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindMalformed:
		return http.StatusBadRequest
	case KindUnauthorized, KindBadSignature:
		return http.StatusUnauthorized
	case KindPermissionDenied, KindExpired:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		// PreconditionFailed and TransactionFailed surface as 500: they mean
		// the system is structurally unable to complete the operation.
		return http.StatusInternalServerError
	}
}

// New creates an APIError with the given kind and message
func New(kind Kind, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

// Newf creates an APIError with a formatted message
func Newf(kind Kind, format string, args ...any) *APIError {
	return &APIError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an APIError that wraps a cause. The cause message is surfaced
// verbatim when message is empty (used for datastore transaction errors).
func Wrap(kind Kind, message string, cause error) *APIError {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	return &APIError{Kind: kind, Message: message, cause: cause}
}

// WithDetail attaches a key/value detail and returns the error
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// KindOf extracts the kind of an error, defaulting to internal
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

// AsAPIError converts any error into an *APIError, wrapping unknown errors as
// internal.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Wrap(KindInternal, "internal server error", err)
}
