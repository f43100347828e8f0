// Package session implements snsfeed's login session model.
//
// Login verifies credentials and issues a pair of tokens: a short-lived HS256 JWT
// access token and an opaque refresh token persisted in refresh_tokens.
// Refresh rotates the refresh token in place (same row, new value and expiry).
// Logout deletes the row. Expired rows are removed when refresh or logout touches them.
//
// Transport (HTTP) integration lives in cmd/internal/auth/api.
package session
