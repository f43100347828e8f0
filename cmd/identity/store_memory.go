package identity

import (
	"context"
	"sync"
)

// MemoryStore is a dev-only Store used when no database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	seq    int64
	byID   map[int64]User
	byLID  map[string]int64
	byNick map[string]int64
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[int64]User),
		byLID:  make(map[string]int64),
		byNick: make(map[string]int64),
	}
}

// FindByID loads a user by id.
func (s *MemoryStore) FindByID(ctx context.Context, id int64) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, NotFoundError{Op: "identity.FindByID", Resource: "user"}
	}
	return u, nil
}

// FindByLoginID loads a user by login id.
func (s *MemoryStore) FindByLoginID(ctx context.Context, loginID string) (User, error) {
	return s.findByKey(ctx, "identity.FindByLoginID", s.byLID, loginID)
}

// FindByNickname loads a user by nickname.
func (s *MemoryStore) FindByNickname(ctx context.Context, nickname string) (User, error) {
	return s.findByKey(ctx, "identity.FindByNickname", s.byNick, nickname)
}

func (s *MemoryStore) findByKey(ctx context.Context, op string, index map[string]int64, key string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	return s.byID[id], nil
}

// Create inserts a user, enforcing login id then nickname uniqueness.
func (s *MemoryStore) Create(ctx context.Context, in NewUser) (User, error) {
	const op = "identity.Create"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byLID[in.LoginID]; taken {
		return User{}, ConflictError{Op: op, Field: FieldLoginID}
	}
	if _, taken := s.byNick[in.Nickname]; taken {
		return User{}, ConflictError{Op: op, Field: FieldNickname}
	}

	s.seq++
	u := User{
		ID:           s.seq,
		LoginID:      in.LoginID,
		Name:         in.Name,
		Nickname:     in.Nickname,
		PasswordHash: in.PasswordHash,
		CreatedAt:    in.CreatedAt,
	}
	if in.ProfileImageURL != nil {
		v := *in.ProfileImageURL
		u.ProfileImageURL = &v
	}

	s.byID[u.ID] = u
	s.byLID[u.LoginID] = u.ID
	s.byNick[u.Nickname] = u.ID
	return u, nil
}
