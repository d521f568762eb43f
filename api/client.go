package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/mattermost-community/mattermost-api-go/config"
	"github.com/mattermost-community/mattermost-api-go/internal/debug"
	"github.com/mattermost-community/mattermost-api-go/internal/validation"
)

const (
	DefaultTimeout = 30 * time.Second

	// apiPrefix is the REST API root under the server URL.
	apiPrefix = "/api/v4"
)

// Client is the Mattermost REST API client.
//
// A Client is safe for concurrent use. Every call stages its own Request;
// the only shared mutable state is the server metadata observed on
// responses (rate limit headers and server version).
type Client struct {
	ServerURL string
	Token     string
	HTTP      *http.Client
	UserAgent string

	// Debug enables per-request debug records for every call. Records go
	// to Logger, or to the slog default handler when Logger is nil.
	Debug bool
	// Logger receives request records. When set, its own level decides
	// which records are written, even with Debug off.
	Logger *slog.Logger

	validateMu       sync.Mutex
	validatedBaseURL bool

	metaMu        sync.Mutex
	rateLimit     RateLimitInfo
	haveRateLimit bool
	serverVersion string
}

// Compile-time interface implementation checks
var (
	_ Requester    = (*Client)(nil)
	_ PathResolver = (*Client)(nil)
	_ HTTPExecutor = (*Client)(nil)
)

// New creates a client for the server at serverURL authenticating with a
// personal access token or session token. serverURL may include the
// "/api/v4" suffix; it is stripped.
func New(serverURL, token string) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
	// Session cookies set by login are kept per host.
	if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
		httpClient.Jar = jar
	}

	return &Client{
		ServerURL: validation.NormalizeServerURL(serverURL),
		Token:     strings.TrimSpace(token),
		HTTP:      httpClient,
	}
}

// NewFromConfig creates a client from resolved configuration.
func NewFromConfig(cfg config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := New(cfg.ServerURL, cfg.Token)
	if cfg.Timeout > 0 {
		c.HTTP.Timeout = cfg.Timeout
	}
	c.UserAgent = cfg.UserAgent
	c.Debug = cfg.Debug
	return c, nil
}

func (c *Client) ensureServerURLValidated() error {
	c.validateMu.Lock()
	defer c.validateMu.Unlock()

	if c.validatedBaseURL {
		return nil
	}
	if err := validation.ValidateServerURL(c.ServerURL); err != nil {
		return fmt.Errorf("%w server URL: %w", validation.ErrInvalid, err)
	}
	c.validatedBaseURL = true
	return nil
}

// apiPath returns the absolute URL for an API path such as "/teams".
func (c *Client) apiPath(path string) string {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	return c.ServerURL + apiPrefix + path
}

// resourcePath validates each named path value and substitutes its escaped
// form into format, in order. pairs alternate name, value.
func resourcePath(format string, pairs ...string) (string, error) {
	if err := validation.ValidatePathSegments(pairs...); err != nil {
		return "", err
	}
	args := make([]any, 0, len(pairs)/2)
	for i := 1; i < len(pairs); i += 2 {
		args = append(args, url.PathEscape(pairs[i]))
	}
	return fmt.Sprintf(format, args...), nil
}

// WithDebug returns a context that turns request debug records on or off
// for calls made with it, independent of Client.Debug.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return debug.WithDebug(ctx, enabled)
}

// requestLogger returns the logger for request records, or nil when no
// records should be written for ctx.
func (c *Client) requestLogger(ctx context.Context) *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.Debug || debug.IsEnabled(ctx) {
		return debug.Verbose(slog.Default())
	}
	return nil
}

// Do dispatches a staged request as exactly one HTTP round trip.
//
// Transport failures are returned as *ContextualError. Non-2xx responses are
// returned as *APIError, wrapped in *RateLimitError for 429 and *AuthError
// for 401. Nothing is retried.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if err := c.ensureServerURLValidated(); err != nil {
		return nil, err
	}

	method, target, body, contentType, err := req.build()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range req.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")

	logger := c.requestLogger(ctx)
	start := time.Now()
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		if logger != nil {
			logger.DebugContext(ctx, "request failed", "method", method, "url", redactQuery(target), "error", err)
		}
		return nil, WrapError(method, target, 0, err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, WrapError(method, target, resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}
	c.recordRateLimit(resp.Header)
	c.recordServerVersion(resp.Header)
	if logger != nil {
		logger.DebugContext(ctx, "request complete",
			"method", method,
			"url", redactQuery(target),
			"status", resp.StatusCode,
			"request_id", requestIDFromHeader(resp.Header),
			"duration", time.Since(start),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, resp.Header, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

func statusError(statusCode int, header http.Header, body []byte) error {
	apiErr := newAPIError(statusCode, header, body)
	switch statusCode {
	case http.StatusTooManyRequests:
		retryAfter, _ := retryAfterDuration(header, time.Now())
		return &RateLimitError{RetryAfter: retryAfter, Err: apiErr}
	case http.StatusUnauthorized:
		return &AuthError{Reason: apiErr.Message, Err: apiErr}
	default:
		return apiErr
	}
}

// doJSON dispatches req and decodes the response body into result.
func doJSON(ctx context.Context, r HTTPExecutor, req *Request, result any) error {
	resp, err := r.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(result)
}

// doStatus dispatches req for endpoints that answer {"status": "OK"}.
func doStatus(ctx context.Context, r HTTPExecutor, req *Request) (*StatusOK, error) {
	var status StatusOK
	if err := doJSON(ctx, r, req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// doBytes dispatches req and returns the raw body, for image endpoints.
func doBytes(ctx context.Context, r HTTPExecutor, req *Request) ([]byte, error) {
	resp, err := r.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// HealthCheck pings the server via GET /system/ping. It returns true when
// the server reports status OK.
func (c *Client) HealthCheck(ctx context.Context) (bool, error) {
	status, err := doStatus(ctx, c, NewRequest(http.MethodGet, c.apiPath("/system/ping")))
	if err != nil {
		return false, err
	}
	return status.OK(), nil
}
