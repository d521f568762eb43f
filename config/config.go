// Package config resolves Mattermost client settings from the environment
// and explicit overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mattermost-community/mattermost-api-go/internal/validation"
)

const (
	EnvServerURL       = "MM_SERVER_URL"
	EnvServerURLLegacy = "MATTERMOST_URL"
	EnvToken           = "MM_TOKEN"
	EnvTokenLegacy     = "MATTERMOST_TOKEN"
	EnvTimeout         = "MM_TIMEOUT"
	EnvDebug           = "MM_DEBUG"
	EnvUserAgent       = "MM_USER_AGENT"

	DefaultTimeout = 30 * time.Second
	MaxTimeout     = 10 * time.Minute
)

// Config holds the settings needed to talk to one Mattermost server.
type Config struct {
	ServerURL string
	Token     string
	Timeout   time.Duration
	UserAgent string
	Debug     bool
}

// lookupEnv is replaced in tests.
var lookupEnv = os.LookupEnv

func envFirst(keys ...string) string {
	for _, key := range keys {
		if val, ok := lookupEnv(key); ok {
			if trimmed := strings.TrimSpace(val); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// FromEnv builds a Config from environment variables. Unset values keep
// their defaults; malformed numeric or boolean values are errors.
func FromEnv() (Config, error) {
	cfg := Config{
		ServerURL: validation.NormalizeServerURL(envFirst(EnvServerURL, EnvServerURLLegacy)),
		Token:     envFirst(EnvToken, EnvTokenLegacy),
		Timeout:   DefaultTimeout,
		UserAgent: envFirst(EnvUserAgent),
	}

	if raw := envFirst(EnvTimeout); raw != "" {
		timeout, err := parseTimeout(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = timeout
	}

	if raw := envFirst(EnvDebug); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvDebug, err)
		}
		cfg.Debug = enabled
	}

	return cfg, nil
}

// parseTimeout accepts either a Go duration ("45s") or a bare number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

// Resolve reads the environment, layers the explicit overrides on top and
// validates the result.
func Resolve(serverURLOverride, tokenOverride string) (Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(serverURLOverride) != "" {
		cfg.ServerURL = validation.NormalizeServerURL(serverURLOverride)
	}
	if strings.TrimSpace(tokenOverride) != "" {
		cfg.Token = strings.TrimSpace(tokenOverride)
	}

	if cfg.ServerURL == "" {
		return Config{}, fmt.Errorf("server URL not configured (set %s or pass it explicitly)", EnvServerURL)
	}
	if cfg.Token == "" {
		return Config{}, fmt.Errorf("access token not configured (set %s or pass it explicitly)", EnvToken)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can be used to build a client.
func (c Config) Validate() error {
	if err := v.ValidateStruct(&c,
		v.Field(&c.ServerURL, v.Required, v.By(serverURLRule)),
		v.Field(&c.Token, v.Required, v.Length(1, 512)),
		v.Field(&c.Timeout, v.Min(time.Duration(0)), v.Max(MaxTimeout)),
	); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func serverURLRule(value any) error {
	s, _ := value.(string)
	return validation.ValidateServerURL(s)
}
