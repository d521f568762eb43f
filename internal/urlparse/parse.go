// Package urlparse extracts resource references from Mattermost web URLs.
package urlparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Resource types a web URL can point at.
const (
	ResourcePost    = "post"
	ResourceChannel = "channel"
	ResourceUser    = "user"
	ResourceGroup   = "group"
)

// ParsedURL is a Mattermost web URL broken into its parts.
type ParsedURL struct {
	BaseURL      string // scheme, host and any subpath the server is mounted under
	TeamName     string
	ResourceType string
	Identifier   string // post ID, channel name, username or group channel ID
}

// idPattern matches the 26-character IDs the server generates.
var idPattern = regexp.MustCompile(`^[a-z0-9]{26}$`)

// urlPattern matches the tail of a web URL:
// {subpath}/{team}/{pl|channels|messages}/{identifier}
var urlPattern = regexp.MustCompile(`^(.*?)/([a-z0-9][a-z0-9_-]*)/(pl|channels|messages)/([^/]+)/?$`)

// Parse extracts the team and resource from a Mattermost web URL such as
// https://chat.example.com/eng/pl/8xk3h1tqdpgzbn5o4ywq7bxr1c.
func Parse(rawURL string) (*ParsedURL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" {
		return nil, fmt.Errorf("invalid URL: missing scheme (expected https://...)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL: missing host")
	}

	matches := urlPattern.FindStringSubmatch(parsed.Path)
	if matches == nil {
		return nil, fmt.Errorf("invalid Mattermost URL format: expected /{team}/pl/{post_id}, /{team}/channels/{name} or /{team}/messages/{@user|group_id}")
	}

	out := &ParsedURL{
		BaseURL:  fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, matches[1]),
		TeamName: matches[2],
	}

	identifier := matches[4]
	switch matches[3] {
	case "pl":
		if !idPattern.MatchString(identifier) {
			return nil, fmt.Errorf("invalid post ID %q in permalink", identifier)
		}
		out.ResourceType = ResourcePost
	case "channels":
		out.ResourceType = ResourceChannel
	case "messages":
		if name, ok := strings.CutPrefix(identifier, "@"); ok {
			if name == "" {
				return nil, fmt.Errorf("missing username in direct message URL")
			}
			out.ResourceType = ResourceUser
			identifier = name
		} else {
			out.ResourceType = ResourceGroup
		}
	}
	out.Identifier = identifier
	return out, nil
}

// PostID returns the post ID of a permalink.
func PostID(rawURL string) (string, error) {
	parsed, err := Parse(rawURL)
	if err != nil {
		return "", err
	}
	if !parsed.IsPermalink() {
		return "", fmt.Errorf("URL points to a %s, not a post permalink", parsed.ResourceType)
	}
	return parsed.Identifier, nil
}

// IsPermalink reports whether the parsed URL points at a single post.
func (p *ParsedURL) IsPermalink() bool {
	return p.ResourceType == ResourcePost
}
