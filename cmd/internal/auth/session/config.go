package session

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config defines the runtime configuration for the session subsystem.
type Config struct {
	// AccessTokenTTL defines the lifetime of JWT access tokens.
	AccessTokenTTL time.Duration

	// RefreshTokenTTL is the lifetime given to a refresh token on login and on every rotation.
	RefreshTokenTTL time.Duration

	// ClockSkew is the leeway applied when verifying access-token expiry.
	ClockSkew time.Duration

	// JWTSecret is the HS256 signing key.
	JWTSecret []byte
}

// DefaultConfig returns the defaults used when no environment overrides are present.
// JWTSecret has no default.
func DefaultConfig() Config {
	return Config{
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Required:
//   - JWT_SECRET
//
// Optional:
//   - JWT_ACCESS_EXPIRES_IN (see ParseExpiresIn)
//   - SNS_AUTH_REFRESH_TTL (Go duration)
//   - SNS_AUTH_CLOCK_SKEW (Go duration)
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("JWT_ACCESS_EXPIRES_IN")); v != "" {
		d, err := ParseExpiresIn(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.AccessTokenTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("SNS_AUTH_REFRESH_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.RefreshTokenTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("SNS_AUTH_CLOCK_SKEW")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.ClockSkew = d
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, ErrConfig
	}
	cfg.JWTSecret = []byte(secret)

	return cfg, nil
}

var expiresInRe = regexp.MustCompile(`^(-?(?:\d+)?\.?\d+) *([a-z]*)$`)

// ParseExpiresIn parses a lifetime in the "ms" notation used by JWT tooling:
// "30m", "12h", "7d", "2 weeks", "1y". A bare number is milliseconds.
// Go duration strings such as "1h30m" are accepted too.
func ParseExpiresIn(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, ErrConfig
	}

	m := expiresInRe.FindStringSubmatch(s)
	if m == nil {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, ErrConfig
		}
		return d, nil
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, ErrConfig
	}

	var unit time.Duration
	switch m[2] {
	case "", "ms", "msec", "msecs", "millisecond", "milliseconds":
		unit = time.Millisecond
	case "s", "sec", "secs", "second", "seconds":
		unit = time.Second
	case "m", "min", "mins", "minute", "minutes":
		unit = time.Minute
	case "h", "hr", "hrs", "hour", "hours":
		unit = time.Hour
	case "d", "day", "days":
		unit = 24 * time.Hour
	case "w", "week", "weeks":
		unit = 7 * 24 * time.Hour
	case "y", "yr", "yrs", "year", "years":
		unit = time.Duration(365.25 * float64(24*time.Hour))
	default:
		return 0, ErrConfig
	}

	return time.Duration(n * float64(unit)), nil
}
