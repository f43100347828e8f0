package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
)

// ErrNoDatabase is returned by RunMigrations when DATABASE_URL is unset.
var ErrNoDatabase = errors.New("DATABASE_URL is not set")

// Run is the serve entrypoint used by cmd/snsfeed.
// It returns an error instead of calling os.Exit to keep defers effective and lint clean.
func Run() error {
	cfg := LoadConfig()
	log := NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := New(ctx, cfg, log)
	if err != nil {
		log.Error("server.init.fail", "err", err)
		return err
	}

	return a.Run(ctx)
}

// RunMigrations connects to DATABASE_URL and runs one goose command (up, down, status).
func RunMigrations(command string) error {
	cfg := LoadConfig()
	log := NewLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		return ErrNoDatabase
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := NewDBPool(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := OpenSQL(pool)
	defer func() { _ = db.Close() }()

	return Migrate(ctx, db, command, log)
}
