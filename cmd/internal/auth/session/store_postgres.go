package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"snsfeed/cmd/internal/dbx"
)

// PostgresStore implements Store using PostgreSQL (refresh_tokens).
type PostgresStore struct {
	db dbx.DBTX
}

// NewPostgresStore creates a Postgres-backed refresh token store.
func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert inserts a new refresh token row and returns it with its id.
func (s *PostgresStore) Insert(ctx context.Context, in NewRefreshToken) (RefreshToken, error) {
	out := RefreshToken{
		UserID:    in.UserID,
		Token:     in.Token,
		DeviceID:  in.DeviceID,
		UserAgent: in.UserAgent,
		IPAddress: in.IPAddress,
		ExpiresAt: in.ExpiresAt,
		CreatedAt: in.CreatedAt,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO refresh_tokens (
			user_id, token, device_id, user_agent, ip_address, expires_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, in.UserID, in.Token, nullable(in.DeviceID), nullable(in.UserAgent), in.IPAddress, in.ExpiresAt, in.CreatedAt).Scan(&out.ID)
	if err != nil {
		return RefreshToken{}, fmt.Errorf("session.Insert: %w", err)
	}

	return out, nil
}

// FindByToken loads a row by token value together with the owner's login id.
func (s *PostgresStore) FindByToken(ctx context.Context, token string) (TokenRecord, error) {
	var (
		rec        TokenRecord
		deviceID   sql.NullString
		userAgent  sql.NullString
		ipAddress  sql.NullString
		lastUsedAt sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT
			rt.id, rt.user_id, rt.token, rt.device_id, rt.user_agent, rt.ip_address,
			rt.expires_at, rt.last_used_at, rt.created_at,
			u.login_id
		FROM refresh_tokens rt
		JOIN users u ON u.id = rt.user_id
		WHERE rt.token = $1
	`, token).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Token,
		&deviceID,
		&userAgent,
		&ipAddress,
		&rec.ExpiresAt,
		&lastUsedAt,
		&rec.CreatedAt,
		&rec.Owner.LoginID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return TokenRecord{}, ErrTokenNotFound
	}
	if err != nil {
		return TokenRecord{}, fmt.Errorf("session.FindByToken: %w", err)
	}

	rec.Owner.ID = rec.UserID
	rec.DeviceID = fromNull(deviceID)
	rec.UserAgent = fromNull(userAgent)
	rec.IPAddress = ipAddress.String
	if lastUsedAt.Valid {
		t := lastUsedAt.Time
		rec.LastUsedAt = &t
	}

	return rec, nil
}

// Rotate swaps the token value in place. The old token in the WHERE clause
// makes concurrent rotations of the same row resolve to a single winner.
func (s *PostgresStore) Rotate(ctx context.Context, id int64, oldToken, newToken string, expiresAt, now time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET token = $3, expires_at = $4, last_used_at = $5
		WHERE id = $1 AND token = $2
	`, id, oldToken, newToken, expiresAt, now)
	if err != nil {
		return fmt.Errorf("session.Rotate: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("session.Rotate: %w", err)
	}
	if n == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// Delete removes a row by id.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id); err != nil {
		return fmt.Errorf("session.Delete: %w", err)
	}
	return nil
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func fromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
