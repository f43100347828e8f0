package session

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"snsfeed/cmd/identity"
	"snsfeed/cmd/internal/migrations"
	"snsfeed/cmd/security/token"
)

// Integration tests are enabled when SNS_TEST_DATABASE_URL is set.

func mustTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("SNS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SNS_TEST_DATABASE_URL is not set; skipping Postgres integration test")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Skipf("postgres unreachable: %v", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestPostgresStore_LoginRefreshLogout(t *testing.T) {
	db := mustTestDB(t)
	ctx := context.Background()

	users, err := identity.NewPostgresStore(db)
	if err != nil {
		t.Fatalf("identity store: %v", err)
	}
	suffix := token.Generate(4)
	u, err := users.Create(ctx, identity.NewUser{
		LoginID:      "it" + suffix,
		Name:         "Integration",
		Nickname:     "it" + suffix,
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM users WHERE id = $1`, u.ID) })

	s := NewPostgresStore(db)
	now := time.Now().UTC().Truncate(time.Microsecond)
	tok := token.GenerateOpaque()

	row, err := s.Insert(ctx, NewRefreshToken{
		UserID: u.ID, Token: tok, IPAddress: "127.0.0.1",
		ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rec, err := s.FindByToken(ctx, tok)
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if rec.ID != row.ID || rec.Owner.LoginID != u.LoginID {
		t.Fatalf("record mismatch: %+v", rec)
	}

	next := token.GenerateOpaque()
	if err := s.Rotate(ctx, row.ID, tok, next, now.Add(2*time.Hour), now); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if err := s.Rotate(ctx, row.ID, tok, token.GenerateOpaque(), now.Add(2*time.Hour), now); err != ErrTokenNotFound {
		t.Fatalf("second Rotate with old token: expected ErrTokenNotFound, got %v", err)
	}
	if _, err := s.FindByToken(ctx, tok); err != ErrTokenNotFound {
		t.Fatalf("old token lookup: expected ErrTokenNotFound, got %v", err)
	}

	if err := s.Delete(ctx, row.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.FindByToken(ctx, next); err != ErrTokenNotFound {
		t.Fatalf("after delete: expected ErrTokenNotFound, got %v", err)
	}
}
