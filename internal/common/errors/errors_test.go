// internal/common/errors/errors_test.go

package errors

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ==========================
// HTTP status mapping
// ==========================

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeAuthenticationFailed, http.StatusUnauthorized},
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeQuotaExceeded, http.StatusTooManyRequests},
		{ErrCodeUpstreamUnavailable, http.StatusOK},
		{ErrCodeProviderOverloaded, http.StatusOK},
		{ErrCodeMalformedProviderOutput, http.StatusOK},
		{ErrCodeUnexpectedFailure, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatus(tt.code), string(tt.code))
	}
}

func TestIsDegradation(t *testing.T) {
	assert.True(t, IsDegradation(ErrCodeUpstreamUnavailable))
	assert.True(t, IsDegradation(ErrCodeProviderOverloaded))
	assert.True(t, IsDegradation(ErrCodeMalformedProviderOutput))
	assert.False(t, IsDegradation(ErrCodeQuotaExceeded))
	assert.False(t, IsDegradation(ErrCodeAuthenticationFailed))
}

func TestConstructors(t *testing.T) {
	auth := NewAuthenticationFailedError([]string{"body", "query", "header", "cookie"})
	assert.Equal(t, ErrCodeAuthenticationFailed, auth.Code)
	assert.False(t, auth.Retryable)
	assert.Equal(t, []string{"body", "query", "header", "cookie"}, auth.Metadata["checkedSources"])

	resetAt := time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC)
	quota := NewQuotaExceededError("ai_generation", 10, resetAt)
	assert.Equal(t, ErrCodeQuotaExceeded, quota.Code)
	assert.True(t, quota.Retryable)
	assert.Equal(t, "ai_generation", quota.Metadata["operation"])
	assert.Equal(t, "2026-03-01T12:01:00Z", quota.Metadata["resetAt"])

	wrapped := NewUnexpectedFailureError(errors.New("boom"))
	assert.Contains(t, wrapped.Error(), "UNEXPECTED_FAILURE")
	assert.Equal(t, "boom", wrapped.Details)
}
