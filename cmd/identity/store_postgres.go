package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"snsfeed/cmd/internal/dbx"
)

// PostgresStore implements Store over PostgreSQL through database/sql (pgx stdlib driver).
//
// The *sql.DB is owned by the caller; this store must NOT close it.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("identity: nil db")
	}
	return &PostgresStore{db: db}, nil
}

const userColumns = `id, login_id, name, nickname, password, profile_image_url, created_at`

// FindByID loads a user by primary key.
func (s *PostgresStore) FindByID(ctx context.Context, id int64) (User, error) {
	return findUser(ctx, s.db, "identity.FindByID", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByLoginID loads a user by login id.
func (s *PostgresStore) FindByLoginID(ctx context.Context, loginID string) (User, error) {
	return findUser(ctx, s.db, "identity.FindByLoginID", `SELECT `+userColumns+` FROM users WHERE login_id = $1`, loginID)
}

// FindByNickname loads a user by nickname.
func (s *PostgresStore) FindByNickname(ctx context.Context, nickname string) (User, error) {
	return findUser(ctx, s.db, "identity.FindByNickname", `SELECT `+userColumns+` FROM users WHERE nickname = $1`, nickname)
}

// Create checks login id and nickname uniqueness and inserts the user in one transaction.
// The unique constraints remain the final arbiter when two sign-ups race.
func (s *PostgresStore) Create(ctx context.Context, in NewUser) (User, error) {
	const op = "identity.Create"

	var out User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if taken, err := exists(ctx, tx, `SELECT 1 FROM users WHERE login_id = $1`, in.LoginID); err != nil {
			return err
		} else if taken {
			return ConflictError{Op: op, Field: FieldLoginID}
		}

		if taken, err := exists(ctx, tx, `SELECT 1 FROM users WHERE nickname = $1`, in.Nickname); err != nil {
			return err
		} else if taken {
			return ConflictError{Op: op, Field: FieldNickname}
		}

		row := tx.QueryRowContext(ctx,
			`INSERT INTO users (login_id, name, nickname, password, profile_image_url, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6)
			 RETURNING `+userColumns,
			in.LoginID, in.Name, in.Nickname, in.PasswordHash, nullableString(in.ProfileImageURL), in.CreatedAt,
		)
		u, err := scanUser(row)
		if err != nil {
			if field, ok := classifyUniqueViolation(err); ok {
				return ConflictError{Op: op, Field: field}
			}
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		if IsConflict(err) {
			return User{}, err
		}
		return User{}, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func findUser(ctx context.Context, db dbx.DBTX, op, query string, arg any) (User, error) {
	u, err := scanUser(db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	if err != nil {
		return User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (User, error) {
	var (
		u          User
		profileURL sql.NullString
	)
	err := row.Scan(
		&u.ID,
		&u.LoginID,
		&u.Name,
		&u.Nickname,
		&u.PasswordHash,
		&profileURL,
		&u.CreatedAt,
	)
	if err != nil {
		return User{}, err
	}
	if profileURL.Valid {
		v := profileURL.String
		u.ProfileImageURL = &v
	}
	return u, nil
}

func exists(ctx context.Context, db dbx.DBTX, query string, arg any) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, query, arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func nullableString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func classifyUniqueViolation(err error) (field string, ok bool) {
	constraint, ok := dbx.UniqueViolation(err)
	if !ok {
		return "", false
	}

	// Prefer stable schema constraint names. Fall back to substring matching.
	c := strings.ToLower(strings.TrimSpace(constraint))
	switch {
	case c == "users_login_id_key" || strings.Contains(c, "login_id"):
		return FieldLoginID, true
	case c == "users_nickname_key" || strings.Contains(c, "nickname"):
		return FieldNickname, true
	default:
		return "unique", true
	}
}
