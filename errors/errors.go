package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
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

// IsRetryable reports whether err is an AppError marked retryable.
func IsRetryable(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Retryable
}

// HasCode reports whether err, or any error it wraps, is an AppError with code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// --- Query error constructors ---

// TypeMismatch creates an AppError for a failed downcast.
func TypeMismatch(want, got string) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("expected %s, got %s", want, got),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"want": want, "got": got},
	}
}

// Capability creates an AppError for a failing callback of the named operation.
func Capability(op string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCapability, Message: fmt.Sprintf("%s callback failed", op),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"operation": op}, Cause: cause,
	}
}

// ArityMismatch creates an AppError for a rollup key of unexpected length at index.
func ArityMismatch(want, got, index int) *AppError {
	return &AppError{
		Code: ErrCodeArityMismatch, Message: fmt.Sprintf("rollup key at record %d has %d components, want %d", index, got, want),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"want": want, "got": got, "index": index},
	}
}

// LengthMismatch creates an AppError for diffing sequences of different length.
func LengthMismatch(current, other int) *AppError {
	return &AppError{
		Code: ErrCodeLengthMismatch, Message: fmt.Sprintf("cannot diff %d records against %d", current, other),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"current": current, "other": other},
	}
}

// Sequencing creates an AppError for an operation the stage cannot accept.
func Sequencing(op, reason string) *AppError {
	return &AppError{
		Code: ErrCodeSequencing, Message: fmt.Sprintf("%s: %s", op, reason),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"operation": op},
	}
}

// --- Common error constructors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// PayloadTooLarge creates a new AppError for input over the configured limit.
func PayloadTooLarge(what string, size, limit int) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Message: fmt.Sprintf("%s has %d entries, limit is %d", what, size, limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
		Details:    map[string]any{"size": size, "limit": limit},
	}
}

// Unauthorized creates a new AppError for a request without valid credentials.
func Unauthorized(reason string) *AppError {
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// StatusClientClosedRequest is the non-standard status reported when the
// client cancels a request.
const StatusClientClosedRequest = 499

// Canceled creates a new AppError for work stopped by context cancellation
// or an expired deadline.
func Canceled(cause error) *AppError {
	e := &AppError{
		Code: ErrCodeCanceled, Message: "the request was canceled",
		HTTPStatus: StatusClientClosedRequest, Cause: cause,
	}
	if stderrors.Is(cause, context.DeadlineExceeded) {
		e.Message = "the request deadline expired"
		e.HTTPStatus = http.StatusGatewayTimeout
	}
	return e
}

// ServiceUnavailable creates a new AppError for a request rejected at capacity.
func ServiceUnavailable(reason string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: reason,
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
	}
}

// RateLimited creates a new AppError for a request over the rate limit.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "rate limit exceeded",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// SourceError creates a new AppError for a failing record source.
func SourceError(source string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSourceError, Message: fmt.Sprintf("reading records from %s failed", source),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"source": source}, Cause: cause,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
