package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mattermost-community/mattermost-api-go/internal/resolve"
	"github.com/mattermost-community/mattermost-api-go/internal/validation"
)

var (
	// ErrMixedBody is returned when JSON and multipart staging are combined
	// on one request.
	ErrMixedBody = errors.New("request mixes JSON and multipart bodies")

	// ErrUnexpectedResponse is returned when a success response body cannot
	// be decoded into the expected shape.
	ErrUnexpectedResponse = errors.New("unexpected API response format")

	// ErrInvalid is wrapped by every client-side input rejection: bad path
	// IDs, server URLs, permalinks and download URLs. No request is sent.
	ErrInvalid = validation.ErrInvalid

	// ErrEmptyQuery is returned by UsersService.Resolve for a blank query.
	ErrEmptyQuery = resolve.ErrEmptyQuery
)

// AmbiguousError is returned by UsersService.Resolve when several users
// match the query equally well. Matches lists the tied candidates.
type AmbiguousError = resolve.AmbiguousError

// Match is one candidate of an AmbiguousError.
type Match = resolve.Match

// redactedBody replaces error bodies that carry no recognizable message.
const redactedBody = "API request failed (response body redacted for security)"

// APIError represents a non-2xx response from the server.
type APIError struct {
	StatusCode    int
	ErrorID       string
	Message       string
	DetailedError string
	RequestID     string
}

func (e *APIError) Error() string {
	if e.ErrorID != "" {
		return fmt.Sprintf("API error (status %d): %s [%s]", e.StatusCode, e.Message, e.ErrorID)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// newAPIError parses the server's application error body. Unparseable bodies
// are never echoed back; they may contain tokens or user data.
func newAPIError(statusCode int, header http.Header, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		RequestID:  requestIDFromHeader(header),
	}

	var appErr struct {
		ID            string `json:"id"`
		Message       string `json:"message"`
		DetailedError string `json:"detailed_error"`
		RequestID     string `json:"request_id"`
	}
	if err := json.Unmarshal(body, &appErr); err != nil || (appErr.Message == "" && appErr.ID == "") {
		apiErr.Message = redactedBody
		if text := http.StatusText(statusCode); text != "" {
			apiErr.Message = text
		}
		return apiErr
	}

	apiErr.ErrorID = appErr.ID
	apiErr.Message = appErr.Message
	if apiErr.Message == "" {
		apiErr.Message = appErr.ID
	}
	apiErr.DetailedError = appErr.DetailedError
	if apiErr.RequestID == "" {
		apiErr.RequestID = appErr.RequestID
	}
	return apiErr
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	return header.Get("X-Request-Id")
}

// RateLimitError represents a 429 response.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// AuthError represents a 401 response.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsRateLimitError checks if the error is a rate limit error.
func IsRateLimitError(err error) bool {
	var e *RateLimitError
	return errors.As(err, &e)
}

// IsAuthError checks if the error is an authentication error.
func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsForbiddenError checks if the server rejected the call for missing permissions.
func IsForbiddenError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// ContextualError wraps a failure with the request that caused it.
type ContextualError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *ContextualError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s failed (status %d): %v", e.Method, e.URL, e.StatusCode, e.Err)
}

func (e *ContextualError) Unwrap() error {
	return e.Err
}

// WrapError adds request context to an error.
func WrapError(method, url string, statusCode int, err error) error {
	return &ContextualError{
		Method:     method,
		URL:        redactQuery(url),
		StatusCode: statusCode,
		Err:        err,
	}
}

// redactQuery drops the query string so error messages never carry
// caller-supplied filter values.
func redactQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
