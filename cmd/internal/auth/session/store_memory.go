package session

import (
	"context"
	"sync"
	"time"

	"snsfeed/cmd/identity"
)

// OwnerLookup resolves a user id to its owner record.
type OwnerLookup interface {
	FindByID(ctx context.Context, id int64) (identity.User, error)
}

// MemoryStore is an in-process Store used when no database is configured and in tests.
type MemoryStore struct {
	users OwnerLookup

	mu      sync.Mutex
	seq     int64
	byID    map[int64]RefreshToken
	byToken map[string]int64
}

// NewMemoryStore builds an empty MemoryStore resolving owners through users.
func NewMemoryStore(users OwnerLookup) *MemoryStore {
	return &MemoryStore{
		users:   users,
		byID:    make(map[int64]RefreshToken),
		byToken: make(map[string]int64),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, in NewRefreshToken) (RefreshToken, error) {
	if err := ctx.Err(); err != nil {
		return RefreshToken{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	row := RefreshToken{
		ID:        s.seq,
		UserID:    in.UserID,
		Token:     in.Token,
		DeviceID:  in.DeviceID,
		UserAgent: in.UserAgent,
		IPAddress: in.IPAddress,
		ExpiresAt: in.ExpiresAt,
		CreatedAt: in.CreatedAt,
	}
	s.byID[row.ID] = row
	s.byToken[row.Token] = row.ID
	return row, nil
}

func (s *MemoryStore) FindByToken(ctx context.Context, token string) (TokenRecord, error) {
	if err := ctx.Err(); err != nil {
		return TokenRecord{}, err
	}

	s.mu.Lock()
	id, ok := s.byToken[token]
	row := s.byID[id]
	s.mu.Unlock()
	if !ok {
		return TokenRecord{}, ErrTokenNotFound
	}

	u, err := s.users.FindByID(ctx, row.UserID)
	if identity.IsNotFound(err) {
		return TokenRecord{}, ErrTokenNotFound
	}
	if err != nil {
		return TokenRecord{}, err
	}

	return TokenRecord{RefreshToken: row, Owner: Owner{ID: u.ID, LoginID: u.LoginID}}, nil
}

func (s *MemoryStore) Rotate(ctx context.Context, id int64, oldToken, newToken string, expiresAt, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.byID[id]
	if !ok || row.Token != oldToken {
		return ErrTokenNotFound
	}

	delete(s.byToken, oldToken)
	row.Token = newToken
	row.ExpiresAt = expiresAt
	used := now
	row.LastUsedAt = &used

	s.byID[id] = row
	s.byToken[newToken] = id
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.byID[id]; ok {
		delete(s.byToken, row.Token)
		delete(s.byID, id)
	}
	return nil
}

// Len returns the number of stored rows.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
