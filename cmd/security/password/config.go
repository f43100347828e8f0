package password

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Policy controls password validation at sign-up.
type Policy struct {
	MinLength int
	MaxLength int
	// If true, require at least one lowercase letter, one digit and one special character.
	RequireComplexity bool
}

// Config is the single configuration surface for this package.
type Config struct {
	// Cost is the bcrypt work factor used by Hash.
	Cost   int
	Policy Policy
}

// DefaultConfig returns the service defaults: bcrypt cost 10, 8..20 chars, complexity on.
func DefaultConfig() Config {
	return Config{
		Cost: bcrypt.DefaultCost,
		Policy: Policy{
			MinLength:         8,
			MaxLength:         20,
			RequireComplexity: true,
		},
	}
}

// FromEnv loads config from environment variables.
//
// Env surface:
// - SNS_BCRYPT_COST
// - SNS_PASSWORD_MIN_LEN
// - SNS_PASSWORD_MAX_LEN
// - SNS_PASSWORD_REQUIRE_COMPLEXITY (true/false)
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("SNS_BCRYPT_COST"); ok {
		n, err := atoiInRange(v, bcrypt.MinCost, bcrypt.MaxCost)
		if err != nil {
			return Config{}, fmt.Errorf("SNS_BCRYPT_COST: %w", err)
		}
		cfg.Cost = n
	}

	if v, ok := os.LookupEnv("SNS_PASSWORD_MIN_LEN"); ok {
		n, err := atoiInRange(v, 1, 72)
		if err != nil {
			return Config{}, fmt.Errorf("SNS_PASSWORD_MIN_LEN: %w", err)
		}
		cfg.Policy.MinLength = n
	}

	// bcrypt only reads the first 72 bytes; longer inputs are rejected by the library.
	if v, ok := os.LookupEnv("SNS_PASSWORD_MAX_LEN"); ok {
		n, err := atoiInRange(v, 1, 72)
		if err != nil {
			return Config{}, fmt.Errorf("SNS_PASSWORD_MAX_LEN: %w", err)
		}
		cfg.Policy.MaxLength = n
	}

	if v, ok := os.LookupEnv("SNS_PASSWORD_REQUIRE_COMPLEXITY"); ok {
		b, err := parseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("SNS_PASSWORD_REQUIRE_COMPLEXITY: %w", err)
		}
		cfg.Policy.RequireComplexity = b
	}

	// Final sanity.
	if cfg.Policy.MinLength > cfg.Policy.MaxLength {
		return Config{}, fmt.Errorf(
			"password policy invalid: min_len(%d) > max_len(%d)",
			cfg.Policy.MinLength,
			cfg.Policy.MaxLength,
		)
	}

	return cfg, nil
}

func atoiInRange(s string, minVal, maxVal int) (int, error) {
	s = strings.TrimSpace(s)
	i64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}

	i := int(i64)
	if i < minVal || i > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return i, nil
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes", "on", "ON", "On":
		return true, nil
	case "0", "false", "FALSE", "False", "no", "NO", "No", "off", "OFF", "Off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean")
	}
}
