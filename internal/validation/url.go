// Package validation checks caller-supplied values before they are placed
// into a request URL.
//
// Mattermost servers are commonly self-hosted on private networks, so server
// URLs are checked for shape only (scheme, host, no query or fragment) and
// never resolved or filtered by address range.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxURLLength bounds server and download URLs.
const MaxURLLength = 2048

// apiSuffix is stripped from server URLs so callers may pass either form.
const apiSuffix = "/api/v4"

// NormalizeServerURL trims whitespace, trailing slashes and a trailing
// "/api/v4" from a server URL.
func NormalizeServerURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	u = strings.TrimRight(u, "/")
	u = strings.TrimSuffix(u, apiSuffix)
	return strings.TrimRight(u, "/")
}

// ValidateServerURL validates a Mattermost server URL.
func ValidateServerURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("server URL cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("server URL exceeds maximum length of %d characters", MaxURLLength)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", parsedURL.Scheme)
	}
	if parsedURL.Hostname() == "" {
		return fmt.Errorf("URL must contain a hostname")
	}
	if parsedURL.User != nil {
		return fmt.Errorf("server URL must not embed credentials")
	}
	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return fmt.Errorf("server URL must not contain a query or fragment")
	}
	return nil
}

// ValidateDownloadURL validates a URL the server will fetch on the caller's
// behalf, such as a plugin bundle.
func ValidateDownloadURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("download URL cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("download URL exceeds maximum length of %d characters", MaxURLLength)
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", parsedURL.Scheme)
	}
	if parsedURL.Hostname() == "" {
		return fmt.Errorf("URL must contain a hostname")
	}
	return nil
}
