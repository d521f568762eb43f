package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mattermost-community/mattermost-api-go/internal/validation"
)

func TestErrorCodeFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{400, ErrBadRequest},
		{401, ErrUnauthorized},
		{403, ErrForbidden},
		{404, ErrNotFound},
		{409, ErrConflict},
		{413, ErrTooLarge},
		{429, ErrRateLimited},
		{500, ErrServerError},
		{501, ErrNotEnabled},
		{503, ErrServerError},
		{302, ErrUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorCodeFromStatus(tt.status), "status %d", tt.status)
	}
}

func TestErrorCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"api error", &APIError{StatusCode: 404}, ErrNotFound},
		{"rate limit", &RateLimitError{Err: &APIError{StatusCode: 429}}, ErrRateLimited},
		{"bare rate limit", &RateLimitError{}, ErrRateLimited},
		{"timeout", WrapError("GET", "u", 0, context.DeadlineExceeded), ErrTimeout},
		{"mixed body", fmt.Errorf("%w: x", ErrMixedBody), ErrInvalidInput},
		{"invalid path", validation.ValidatePathSegment("team ID", ""), ErrInvalidInput},
		{"transport", WrapError("GET", "u", 0, errors.New("connection refused")), ErrNetwork},
		{"other", errors.New("boom"), ErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCodeFromError(tt.err))
		})
	}
}

func TestErrorCode_IsRetryable(t *testing.T) {
	for _, code := range []ErrorCode{ErrRateLimited, ErrServerError, ErrTimeout, ErrNetwork} {
		assert.True(t, code.IsRetryable(), code)
	}
	for _, code := range []ErrorCode{ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrInvalidInput, ErrUnknown} {
		assert.False(t, code.IsRetryable(), code)
	}
	assert.NotEmpty(t, ErrUnauthorized.Suggestion())
	assert.Empty(t, ErrUnknown.Suggestion())
}

func TestStructuredErrorFromError(t *testing.T) {
	assert.Nil(t, StructuredErrorFromError(nil))

	se := StructuredErrorFromError(&RateLimitError{
		RetryAfter: 3 * time.Second,
		Err:        &APIError{StatusCode: 429, Message: "Too many requests", ErrorID: "rl", RequestID: "r1"},
	})
	assert.Equal(t, ErrRateLimited, se.Code)
	assert.True(t, se.Retryable)
	assert.Equal(t, "Too many requests", se.Message)
	assert.Equal(t, 429, se.Context["status_code"])
	assert.Equal(t, "rl", se.Context["error_id"])
	assert.Equal(t, "r1", se.Context["request_id"])
	assert.Equal(t, "3s", se.Context["retry_after"])

	se = StructuredErrorFromError(errors.New("boom"))
	assert.Equal(t, ErrUnknown, se.Code)
	assert.Equal(t, "[unknown] boom", se.Error())

	assert.Same(t, se, StructuredErrorFromError(fmt.Errorf("wrapped: %w", se)))
}
