package identity

import (
	"context"
	"fmt"
	"time"

	"snsfeed/cmd/security/password"
)

// Service implements account registration and profile lookup.
type Service struct {
	store     Store
	passwords password.Config
	now       func() time.Time
}

// NewService constructs a Service over store, hashing with the given password config.
func NewService(store Store, passwords password.Config) *Service {
	return &Service{
		store:     store,
		passwords: passwords,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register validates in, hashes the password and creates the user.
//
// Errors:
// - ValidationError for the first invalid field
// - ConflictError when the login id or nickname is taken
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	const op = "identity.Register"

	if err := ValidateRegistration(in, s.passwords); err != nil {
		return User{}, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("%s: %w", op, err)
	}

	u, err := s.store.Create(ctx, NewUser{
		LoginID:         in.LoginID,
		Name:            in.Name,
		Nickname:        in.Nickname,
		PasswordHash:    hash,
		ProfileImageURL: in.ProfileImageURL,
		CreatedAt:       s.now(),
	})
	if err != nil {
		if IsConflict(err) {
			return User{}, err
		}
		return User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Get returns the user with the given id. Non-positive ids are invalid input.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	const op = "identity.Get"

	if id <= 0 {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "id must be positive"}
	}

	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return User{}, err
		}
		return User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
