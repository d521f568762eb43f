package api

import (
	"net/http"
	"strings"

	"golang.org/x/mod/semver"
)

// Minimum server versions for endpoints newer than the v4 baseline. They are
// informational: the client never refuses a call based on them.
const (
	MinVersionChannelBookmarks  = "9.5.0"
	MinVersionUserDataRetention = "5.35.0"
	MinVersionCWSLogin          = "7.0.0"
	MinVersionConvertToBot      = "5.26.0"
	MinVersionFilteredUserStats = "5.26.0"
)

// parseServerVersion extracts a canonical semver from X-Version-Id, which
// looks like "9.11.0.9.11.0.abc123.false". The first three components are
// the server version.
func parseServerVersion(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, ".", 4)
	if len(parts) < 3 {
		return ""
	}
	v := "v" + strings.Join(parts[:3], ".")
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

func (c *Client) recordServerVersion(h http.Header) {
	v := parseServerVersion(h.Get("X-Version-Id"))
	if v == "" {
		return
	}
	c.metaMu.Lock()
	defer c.metaMu.Unlock()
	c.serverVersion = v
}

// ServerVersion returns the server version seen on the most recent response
// (for example "9.11.0"), or "" before any response arrived.
func (c *Client) ServerVersion() string {
	c.metaMu.Lock()
	defer c.metaMu.Unlock()
	return strings.TrimPrefix(c.serverVersion, "v")
}

// ServerVersionAtLeast reports whether the last seen server version is at
// least min. It returns false when the version is unknown or min is invalid.
func (c *Client) ServerVersionAtLeast(min string) bool {
	want := canonicalVersion(min)
	c.metaMu.Lock()
	have := c.serverVersion
	c.metaMu.Unlock()
	if want == "" || have == "" {
		return false
	}
	return semver.Compare(have, want) >= 0
}
