package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Mattermost adds these headers to every response when rate limiting is
// enabled on the server. X-Ratelimit-Reset counts seconds until the window
// refills.
const (
	headerRateLimitLimit     = "X-Ratelimit-Limit"
	headerRateLimitRemaining = "X-Ratelimit-Remaining"
	headerRateLimitReset     = "X-Ratelimit-Reset"
	headerRetryAfter         = "Retry-After"
)

// RateLimitInfo is the request budget the server reported on a response.
// Limit and Remaining are -1 when the server omitted them; ResetAt is zero
// when unknown.
type RateLimitInfo struct {
	Limit      int
	Remaining  int
	ResetAt    time.Time
	ObservedAt time.Time
}

// Exhausted reports whether no requests are left in the current window
// as of now.
func (i RateLimitInfo) Exhausted(now time.Time) bool {
	if i.Remaining != 0 {
		return false
	}
	return i.ResetAt.IsZero() || now.Before(i.ResetAt)
}

// LastRateLimit returns the budget from the most recent response that
// carried rate limit headers. ok is false until one has been seen.
func (c *Client) LastRateLimit() (info RateLimitInfo, ok bool) {
	c.metaMu.Lock()
	defer c.metaMu.Unlock()
	return c.rateLimit, c.haveRateLimit
}

// recordRateLimit keeps the previous snapshot when h has no budget headers.
func (c *Client) recordRateLimit(h http.Header) {
	info, ok := readRateLimit(h, time.Now())
	if !ok {
		return
	}
	c.metaMu.Lock()
	defer c.metaMu.Unlock()
	c.rateLimit = info
	c.haveRateLimit = true
}

func readRateLimit(h http.Header, now time.Time) (RateLimitInfo, bool) {
	limit, hasLimit := headerInt(h, headerRateLimitLimit)
	remaining, hasRemaining := headerInt(h, headerRateLimitRemaining)
	reset, hasReset := headerInt(h, headerRateLimitReset)
	if !hasLimit && !hasRemaining && !hasReset {
		return RateLimitInfo{}, false
	}

	info := RateLimitInfo{Limit: -1, Remaining: -1, ObservedAt: now}
	if hasLimit {
		info.Limit = limit
	}
	if hasRemaining {
		info.Remaining = remaining
	}
	if hasReset {
		info.ResetAt = now.Add(seconds(reset))
	}
	return info, true
}

// retryAfterDuration returns how long a throttled caller should wait:
// Retry-After as seconds or an HTTP date, else X-Ratelimit-Reset.
func retryAfterDuration(h http.Header, now time.Time) (time.Duration, bool) {
	if v := strings.TrimSpace(h.Get(headerRetryAfter)); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return seconds(secs), true
		}
		if at, err := http.ParseTime(v); err == nil {
			return max(at.Sub(now), 0), true
		}
	}
	if reset, ok := headerInt(h, headerRateLimitReset); ok {
		return seconds(reset), true
	}
	return 0, false
}

func headerInt(h http.Header, key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(h.Get(key)))
	return n, err == nil
}

// seconds converts a header count to a duration; negative counts are zero.
func seconds(n int) time.Duration {
	return time.Duration(max(n, 0)) * time.Second
}
