// internal/common/errors/errors.go

// Package errors provides standardized error handling for the suggestion engine.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeInvalidRequest       ErrorCode = "INVALID_REQUEST"
	ErrCodeQuotaExceeded        ErrorCode = "QUOTA_EXCEEDED"

	ErrCodeUpstreamUnavailable     ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeProviderOverloaded      ErrorCode = "PROVIDER_OVERLOADED"
	ErrCodeMalformedProviderOutput ErrorCode = "MALFORMED_PROVIDER_OUTPUT"

	ErrCodeUnexpectedFailure ErrorCode = "UNEXPECTED_FAILURE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewAuthenticationFailedError creates a non-retryable authentication error.
// checkedSources lists the credential surfaces that were inspected.
func NewAuthenticationFailedError(checkedSources []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationFailed,
		Message:   "No tenant identity could be resolved from the request",
		Retryable: false,
		Metadata: map[string]interface{}{
			"checkedSources": checkedSources,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuotaExceededError creates a quota error, retryable after resetAt.
func NewQuotaExceededError(operation string, limit int, resetAt time.Time) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuotaExceeded,
		Message:   "Rate limit exceeded",
		Details:   fmt.Sprintf("operation: %s, limit: %d", operation, limit),
		Retryable: true,
		Metadata: map[string]interface{}{
			"operation": operation,
			"limit":     limit,
			"resetAt":   resetAt.UTC().Format(time.RFC3339),
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedFailureError wraps anything not anticipated by the taxonomy.
// Degradation codes (upstream, overload, malformed output) have no
// constructors: those failures surface as diagnostics warning strings, not
// as StandardError payloads.
func NewUnexpectedFailureError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpectedFailure,
		Message:   "Unexpected internal failure",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// HTTPStatus maps an error code to the HTTP status the caller must answer with.
// Degradation codes never surface as a top-level status; they map to 200
// because the request itself still succeeds with reduced content.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeAuthenticationFailed:
		return http.StatusUnauthorized
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeQuotaExceeded:
		return http.StatusTooManyRequests
	case ErrCodeUpstreamUnavailable, ErrCodeProviderOverloaded, ErrCodeMalformedProviderOutput:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// IsDegradation reports whether the code describes a partial failure that is
// folded into diagnostics rather than failing the request.
func IsDegradation(code ErrorCode) bool {
	switch code {
	case ErrCodeUpstreamUnavailable, ErrCodeProviderOverloaded, ErrCodeMalformedProviderOutput:
		return true
	default:
		return false
	}
}
