package identity

import (
	"context"
	"time"
)

// DefaultProfileImageURL is shown for users who never set a profile image.
const DefaultProfileImageURL = "https://picsum.photos/40/40?random=1"

// User is the snsfeed account record.
// IMPORTANT: PasswordHash never leaves the service; API responses are built from the other fields.
type User struct {
	ID              int64
	LoginID         string
	Name            string
	Nickname        string
	PasswordHash    string
	ProfileImageURL *string
	CreatedAt       time.Time
}

// ProfileImageOrDefault returns the stored profile image URL or DefaultProfileImageURL.
func (u User) ProfileImageOrDefault() string {
	if u.ProfileImageURL == nil || *u.ProfileImageURL == "" {
		return DefaultProfileImageURL
	}
	return *u.ProfileImageURL
}

// NewUser is a validated, hashed registration ready to persist.
type NewUser struct {
	LoginID         string
	Name            string
	Nickname        string
	PasswordHash    string
	ProfileImageURL *string
	CreatedAt       time.Time
}

// Store is the users side of the credential store.
type Store interface {
	FindByID(ctx context.Context, id int64) (User, error)
	FindByLoginID(ctx context.Context, loginID string) (User, error)
	FindByNickname(ctx context.Context, nickname string) (User, error)

	// Create persists a user atomically with the uniqueness checks.
	//
	// Contract:
	// - login id is checked before nickname; the first taken one is reported.
	// - Returns ConflictError{Field: FieldLoginID|FieldNickname} on a duplicate.
	Create(ctx context.Context, in NewUser) (User, error)
}
