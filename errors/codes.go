package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors (client-caused, non-retryable)
const (
	// ErrCodeInvalidPipeline indicates a pipeline configuration that cannot be parsed.
	ErrCodeInvalidPipeline ErrorCode = "INVALID_PIPELINE"
	// ErrCodeUnknownProcessor indicates a processor type absent from the registry.
	ErrCodeUnknownProcessor ErrorCode = "UNKNOWN_PROCESSOR"
	// ErrCodeUnsupportedParameter indicates configuration keys left over after parsing.
	ErrCodeUnsupportedParameter ErrorCode = "UNSUPPORTED_PARAMETER"
	// ErrCodeMissingField indicates a required configuration field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Control-plane errors
const (
	// ErrCodeSchemaViolation indicates the control collection violates a required
	// schema or setting. Fatal; the store refuses readiness.
	ErrCodeSchemaViolation ErrorCode = "SCHEMA_VIOLATION"
	// ErrCodeStoreUnavailable indicates transient document-store unavailability.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ErrCodeNotReady indicates the pipeline store has not completed its first
	// reconciliation.
	ErrCodeNotReady ErrorCode = "NOT_READY"
)

// Resource and runtime errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeProcessingFailed indicates a processor failed while transforming a
	// specific document.
	ErrCodeProcessingFailed ErrorCode = "PROCESSING_FAILED"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeStoreUnavailable: true,
	ErrCodeNotReady:         true,
}

// IsRetryableCode reports whether an error code represents a retryable condition.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
