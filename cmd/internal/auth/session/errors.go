package session

import "errors"

var (
	// ErrAuthenticationFailed is the single generic login failure for unknown users and wrong passwords.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidRefreshToken is returned when a refresh token does not match any row,
	// including a token that was already rotated away.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrRefreshTokenExpired is returned when the matched row has expired. The row is deleted first.
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrRefreshTokenRequired is returned by logout for an empty or whitespace-only token.
	ErrRefreshTokenRequired = errors.New("refresh token required")

	// ErrInvalidAccessToken is returned when an access token fails verification.
	ErrInvalidAccessToken = errors.New("invalid access token")

	// ErrTokenNotFound is returned by stores when no row matches.
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
