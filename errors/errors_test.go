package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeSourceError, "db gone", http.StatusBadGateway)
	if !err.Retryable {
		t.Error("SOURCE_ERROR should be retryable")
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := LengthMismatch(3, 2)
	if got := err.Error(); got != "LENGTH_MISMATCH: cannot diff 3 records against 2" {
		t.Errorf("unexpected message %q", got)
	}

	cause := fmt.Errorf("boom")
	wrapped := Capability("filter", cause)
	if !strings.Contains(wrapped.Error(), "(cause: boom)") {
		t.Errorf("expected cause in message, got %q", wrapped.Error())
	}
}

func TestCapability_UnwrapsCause(t *testing.T) {
	sentinel := stderrors.New("predicate exploded")
	err := Capability("filter", sentinel)
	if !stderrors.Is(err, sentinel) {
		t.Error("expected errors.Is to find the callback error")
	}
	if err.Details["operation"] != "filter" {
		t.Errorf("expected operation=filter, got %v", err.Details["operation"])
	}
}

func TestHasCode(t *testing.T) {
	inner := TypeMismatch("float64", "string")
	outer := Capability("rollup", inner)
	wrapped := fmt.Errorf("running plan: %w", outer)

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"direct", inner, ErrCodeTypeMismatch, true},
		{"outer code", wrapped, ErrCodeCapability, true},
		{"nested cause", wrapped, ErrCodeTypeMismatch, true},
		{"absent", wrapped, ErrCodeArityMismatch, false},
		{"plain error", stderrors.New("x"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasCode(tc.err, tc.code); got != tc.want {
				t.Errorf("HasCode(%v, %s) = %v, want %v", tc.err, tc.code, got, tc.want)
			}
		})
	}
}

func TestQueryConstructors_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"type mismatch", TypeMismatch("int", "string"), ErrCodeTypeMismatch, http.StatusUnprocessableEntity},
		{"arity", ArityMismatch(2, 1, 4), ErrCodeArityMismatch, http.StatusUnprocessableEntity},
		{"length", LengthMismatch(1, 2), ErrCodeLengthMismatch, http.StatusUnprocessableEntity},
		{"sequencing", Sequencing("filter", "stage is aggregated"), ErrCodeSequencing, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("plan", "missing"), ErrCodeInvalidInput, http.StatusBadRequest},
		{"too large", PayloadTooLarge("records", 10, 5), ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError},
		{"unauthorized", Unauthorized("token expired"), ErrCodeUnauthorized, http.StatusUnauthorized},
		{"source", SourceError("sqlite", nil), ErrCodeSourceError, http.StatusBadGateway},
		{"unavailable", ServiceUnavailable("busy"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{"rate limited", RateLimited(), ErrCodeRateLimited, http.StatusTooManyRequests},
		{"canceled", Canceled(context.Canceled), ErrCodeCanceled, StatusClientClosedRequest},
		{"deadline", Canceled(context.DeadlineExceeded), ErrCodeCanceled, http.StatusGatewayTimeout},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
		})
	}
}

func TestArityMismatch_Details(t *testing.T) {
	err := ArityMismatch(2, 3, 7)
	if err.Details["index"] != 7 || err.Details["want"] != 2 || err.Details["got"] != 3 {
		t.Errorf("unexpected details %v", err.Details)
	}
}

func TestToResponse(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		wantType  string
		wantTitle string
		status    int
	}{
		{"invalid input", InvalidInput("steps", "must not be empty"), "urn:recq:problem:invalid-input", "Invalid input", http.StatusBadRequest},
		{"title from status", NotFound("plan", "daily"), "urn:recq:problem:not-found", "Not Found", http.StatusNotFound},
		{"missing status", New(ErrorCode("ODD"), "odd", 0), "urn:recq:problem:odd", "Internal Server Error", http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.err.ToResponse().Error
			if p.Type != tc.wantType || p.Title != tc.wantTitle || p.Status != tc.status {
				t.Errorf("problem = %+v", p)
			}
			if p.Code != tc.err.Code || p.Detail != tc.err.Message {
				t.Errorf("code/detail = %s/%q", p.Code, p.Detail)
			}
		})
	}

	p := InvalidInput("steps", "must not be empty").WithDetail(DetailRunID, "run-1").ToResponse().Error
	if p.RunID != "run-1" {
		t.Errorf("run id = %q", p.RunID)
	}
	if _, ok := p.Details[DetailRunID]; ok || p.Details["field"] != "steps" {
		t.Errorf("details = %v", p.Details)
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", NotFound("plan", "daily"))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError")
	}
	if appErr.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", appErr.Code)
	}
	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("plain error should not convert")
	}
}

func TestWithDetail(t *testing.T) {
	err := Validation("bad").WithDetail("step", 2).WithCause(stderrors.New("root"))
	if err.Details["step"] != 2 {
		t.Errorf("expected step detail, got %v", err.Details)
	}
	if err.Unwrap() == nil {
		t.Error("expected cause")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(fmt.Errorf("load: %w", SourceError("sqlite", nil))) {
		t.Error("source errors should be retryable")
	}
	if !IsRetryable(RateLimited()) || !IsRetryable(ServiceUnavailable("full")) {
		t.Error("availability errors should be retryable")
	}
	if IsRetryable(InvalidInput("plan", "bad")) || IsRetryable(stderrors.New("plain")) {
		t.Error("invalid input and plain errors are not retryable")
	}
	if IsRetryableCode(ErrCodeInternal) || New(ErrCodeInternal, "x", 500).Retryable {
		t.Error("internal errors are not retryable")
	}
}
