package api

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/mattermost-community/mattermost-api-go/internal/validation"
)

// ErrorCode is a machine-readable classification of a failed call. Nothing
// is retried by the client; callers decide using IsRetryable.
type ErrorCode string

const (
	ErrBadRequest   ErrorCode = "bad_request"
	ErrUnauthorized ErrorCode = "unauthorized"
	ErrForbidden    ErrorCode = "forbidden"
	ErrNotFound     ErrorCode = "not_found"
	ErrConflict     ErrorCode = "conflict"
	ErrTooLarge     ErrorCode = "payload_too_large"
	ErrNotEnabled   ErrorCode = "not_implemented"
	ErrRateLimited  ErrorCode = "rate_limited"
	ErrServerError  ErrorCode = "server_error"
	ErrTimeout      ErrorCode = "timeout"
	ErrNetwork      ErrorCode = "network"
	ErrInvalidInput ErrorCode = "invalid_input"
	ErrUnknown      ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed on retry.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrRateLimited, ErrServerError, ErrTimeout, ErrNetwork:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable hint for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrUnauthorized:
		return "Check that the access token is valid and not revoked"
	case ErrForbidden:
		return "The token's user lacks the permission this endpoint requires"
	case ErrNotFound:
		return "Verify the resource ID exists"
	case ErrRateLimited:
		return "Wait for the rate limit window to reset and retry"
	case ErrNotEnabled:
		return "The feature may be disabled or unlicensed on this server"
	case ErrTooLarge:
		return "Reduce the upload size or raise the server's file size limit"
	case ErrServerError:
		return "The server encountered an error; try again later"
	case ErrTimeout, ErrNetwork:
		return "Check network connectivity to the server and retry"
	case ErrInvalidInput:
		return "Check the arguments passed to the client"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(statusCode int) ErrorCode {
	switch statusCode {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	case 413:
		return ErrTooLarge
	case 429:
		return ErrRateLimited
	case 501:
		return ErrNotEnabled
	default:
		if statusCode >= 500 && statusCode < 600 {
			return ErrServerError
		}
		return ErrUnknown
	}
}

// ErrorCodeFromError classifies any error returned by this package.
func ErrorCodeFromError(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return ErrorCodeFromStatus(apiErr.StatusCode)
	}
	if IsRateLimitError(err) {
		return ErrRateLimited
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetwork
	}
	if errors.Is(err, ErrMixedBody) || errors.Is(err, validation.ErrInvalid) {
		return ErrInvalidInput
	}
	var ce *ContextualError
	if errors.As(err, &ce) && ce.StatusCode == 0 {
		return ErrNetwork
	}
	return ErrUnknown
}

// StructuredError is a JSON-friendly summary of a failed call.
type StructuredError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	Suggestion string         `json:"suggestion,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// StructuredErrorFromError converts any error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	code := ErrorCodeFromError(err)
	out := &StructuredError{
		Code:       code,
		Message:    err.Error(),
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		out.Message = apiErr.Message
		out.Context = map[string]any{"status_code": apiErr.StatusCode}
		if apiErr.ErrorID != "" {
			out.Context["error_id"] = apiErr.ErrorID
		}
		if apiErr.RequestID != "" {
			out.Context["request_id"] = apiErr.RequestID
		}
	}

	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		if out.Context == nil {
			out.Context = map[string]any{}
		}
		out.Context["retry_after"] = rateLimitErr.RetryAfter.String()
	}
	return out
}
