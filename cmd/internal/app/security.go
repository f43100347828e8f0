package app

import (
	"errors"

	"snsfeed/cmd/internal/auth/session"
)

// MinStrongJWTSecretBytes is the HS256 key length enforced under SNS_REQUIRE_STRONG_JWT_SECRET.
const MinStrongJWTSecretBytes = 32

// ErrWeakJWTSecret is returned when the strong-secret policy is on and JWT_SECRET is too short.
var ErrWeakJWTSecret = errors.New("security policy: SNS_REQUIRE_STRONG_JWT_SECRET=true but JWT_SECRET is shorter than 32 bytes")

// ValidateSecurityConfig enforces the startup security policy.
// The length is measured in bytes because the key is used as raw bytes.
func ValidateSecurityConfig(cfg Config, sess session.Config) error {
	if !cfg.RequireStrongJWTSecret {
		return nil
	}
	if len(sess.JWTSecret) < MinStrongJWTSecretBytes {
		return ErrWeakJWTSecret
	}
	return nil
}
