package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// ProblemTypePrefix prefixes the problem type URI of every error response.
const ProblemTypePrefix = "urn:recq:problem:"

// ErrorResponse is the JSON body returned for a failed request.
type ErrorResponse struct {
	Error Problem `json:"error"`
}

// Problem holds the RFC 7807 members plus the recq code, retry hint and the
// identifiers needed to find the failure in logs and traces.
type Problem struct {
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Status    int            `json:"status"`
	Detail    string         `json:"detail,omitempty"`
	Instance  string         `json:"instance,omitempty"`
	Code      ErrorCode      `json:"code"`
	Retryable bool           `json:"retryable"`
	RequestID string         `json:"request_id,omitempty"`
	RunID     string         `json:"run_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse renders e as a problem document. A run_id detail set by the
// plan executor is lifted to the top level.
func (e *AppError) ToResponse() ErrorResponse {
	status := e.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	p := Problem{
		Type:      ProblemTypePrefix + strings.ReplaceAll(strings.ToLower(string(e.Code)), "_", "-"),
		Title:     problemTitle(e.Code, status),
		Status:    status,
		Detail:    e.Message,
		Code:      e.Code,
		Retryable: e.Retryable,
	}
	for k, v := range e.Details {
		if k == DetailRunID {
			p.RunID, _ = v.(string)
			continue
		}
		if p.Details == nil {
			p.Details = make(map[string]any, len(e.Details))
		}
		p.Details[k] = v
	}
	return ErrorResponse{Error: p}
}

// DetailRunID is the detail key carrying the id of the failed plan run.
const DetailRunID = "run_id"

var problemTitles = map[ErrorCode]string{
	ErrCodeTypeMismatch:       "Type mismatch",
	ErrCodeCapability:         "Callback failed",
	ErrCodeArityMismatch:      "Group key arity mismatch",
	ErrCodeLengthMismatch:     "Diff length mismatch",
	ErrCodeSequencing:         "Operation not allowed at this stage",
	ErrCodeInvalidInput:       "Invalid input",
	ErrCodeCanceled:           "Request canceled",
	ErrCodeSourceError:        "Record source failed",
	ErrCodeServiceUnavailable: "Executor at capacity",
}

func problemTitle(code ErrorCode, status int) string {
	if t, ok := problemTitles[code]; ok {
		return t
	}
	if t := http.StatusText(status); t != "" {
		return t
	}
	return string(code)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
