package session

import (
	"context"
	"time"

	"snsfeed/cmd/identity"
)

// RefreshToken mirrors a refresh_tokens row.
type RefreshToken struct {
	ID         int64
	UserID     int64
	Token      string
	DeviceID   *string
	UserAgent  *string
	IPAddress  string
	ExpiresAt  time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// Expired reports whether the row is no longer valid at now.
// A row is valid only while now is strictly before ExpiresAt.
func (t RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Owner is the subset of the owning user needed to sign an access token.
type Owner struct {
	ID      int64
	LoginID string
}

// TokenRecord is a refresh token row joined with its owner.
type TokenRecord struct {
	RefreshToken
	Owner Owner
}

// NewRefreshToken is the row inserted by login.
type NewRefreshToken struct {
	UserID    int64
	Token     string
	DeviceID  *string
	UserAgent *string
	IPAddress string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Store abstracts persistence for refresh tokens.
type Store interface {
	// Insert creates a new refresh token row.
	Insert(ctx context.Context, in NewRefreshToken) (RefreshToken, error)

	// FindByToken loads a row and its owner by token value. Returns ErrTokenNotFound if absent.
	FindByToken(ctx context.Context, token string) (TokenRecord, error)

	// Rotate replaces the token value of row id, provided it still holds oldToken.
	// It sets expires_at and last_used_at. Returns ErrTokenNotFound when no row matched.
	Rotate(ctx context.Context, id int64, oldToken, newToken string, expiresAt, now time.Time) error

	// Delete removes a row by id. Deleting a missing row is not an error.
	Delete(ctx context.Context, id int64) error
}

// UserFinder resolves users for login.
type UserFinder interface {
	FindByLoginID(ctx context.Context, loginID string) (identity.User, error)
}

// PasswordVerifier compares a plaintext password against a stored hash.
// It returns (false, nil) on mismatch and an error only for unusable hashes.
type PasswordVerifier interface {
	Verify(encodedHash, password string) (bool, error)
}
