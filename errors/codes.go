package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Query errors
const (
	// ErrCodeTypeMismatch indicates a value was treated as a type it is not.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeCapability indicates a user-supplied callback failed.
	ErrCodeCapability ErrorCode = "CAPABILITY_ERROR"
	// ErrCodeArityMismatch indicates rollup keys of inconsistent length.
	ErrCodeArityMismatch ErrorCode = "ARITY_MISMATCH"
	// ErrCodeLengthMismatch indicates two sequences of different length were diffed.
	ErrCodeLengthMismatch ErrorCode = "LENGTH_MISMATCH"
	// ErrCodeSequencing indicates an operation was applied to a stage that cannot accept it.
	ErrCodeSequencing ErrorCode = "SEQUENCING_ERROR"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodePayloadTooLarge indicates the input exceeds a configured limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	// ErrCodeUnauthorized indicates missing or invalid credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeCanceled indicates the caller gave up before the work finished.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is at capacity.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeRateLimited indicates the client is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeSourceError indicates a record source (file, database) failed.
	ErrCodeSourceError ErrorCode = "SOURCE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeRateLimited:        true,
	ErrCodeSourceError:        true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
