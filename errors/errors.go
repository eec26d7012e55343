// Package errors provides the unified error taxonomy for the pipeline engine:
// structured errors with machine-readable codes, HTTP status mapping, and
// retryable detection. Configuration errors are client-caused and final;
// store unavailability is retryable; schema violations are fatal.
package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Configuration errors ---

// InvalidPipeline creates a new AppError for a pipeline configuration that
// cannot be parsed into a pipeline.
func InvalidPipeline(id, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidPipeline, Message: fmt.Sprintf("invalid configuration for pipeline [%s]: %s", id, reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"pipeline": id},
	}
}

// UnknownProcessor creates a new AppError for a processor type that is not
// present in the registry.
func UnknownProcessor(processorType string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownProcessor, Message: fmt.Sprintf("no processor type exists with name [%s]", processorType),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"type": processorType},
	}
}

// UnsupportedParameters creates a new AppError for configuration keys that
// remain unconsumed after parsing a configuration scope.
func UnsupportedParameters(scope string, keys []string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedParameter, Message: fmt.Sprintf("processor [%s] doesn't support one or more provided configuration parameters [%s]", scope, strings.Join(keys, ", ")),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"scope": scope, "parameters": keys},
	}
}

// MissingField creates a new AppError for a missing required configuration field.
func MissingField(scope, field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("[%s] required property [%s] is missing", scope, field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"scope": scope, "field": field},
	}
}

// --- Control-plane errors ---

// SchemaViolation creates a new AppError for a control collection that violates
// a required schema invariant. Fatal: the store must refuse readiness.
func SchemaViolation(reason string) *AppError {
	return &AppError{
		Code: ErrCodeSchemaViolation, Message: fmt.Sprintf("illegal pipeline collection state: %s", reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// StoreUnavailable creates a new AppError for transient document-store
// unavailability during a write, read, or scroll.
func StoreUnavailable(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStoreUnavailable, Message: fmt.Sprintf("document store unavailable during %s", operation),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"operation": operation},
		Cause:   cause,
	}
}

// NotReady creates a new AppError for operations invoked before the store has
// completed its first reconciliation.
func NotReady() *AppError {
	return &AppError{
		Code: ErrCodeNotReady, Message: "pipeline store isn't ready yet",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
	}
}

// --- Resource and runtime errors ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s [%s] not found", resource, id),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"resource": resource, "id": id},
	}
}

// ProcessingFailed creates a new AppError for a processor failing on a
// specific document. Per-document: never affects other documents or the cache.
func ProcessingFailed(processorType string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProcessingFailed, Message: fmt.Sprintf("processor [%s] failed", processorType),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"type": processorType},
		Cause:   cause,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
