package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"snsfeed/cmd/internal/migrations"

	"github.com/pressly/goose/v3"
)

// Migration commands accepted by Migrate.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

// Seams over the goose entry points for tests.
var (
	gooseUpContext     = goose.UpContext
	gooseDownContext   = goose.DownContext
	gooseStatusContext = goose.StatusContext
)

// Migrate runs a goose command against the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, log *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migrate: dialect: %w", err)
	}

	var err error
	switch strings.ToLower(strings.TrimSpace(command)) {
	case MigrateUp:
		err = gooseUpContext(ctx, db, ".")
	case MigrateDown:
		err = gooseDownContext(ctx, db, ".")
	case MigrateStatus:
		err = gooseStatusContext(ctx, db, ".")
	default:
		return fmt.Errorf("migrate: unknown command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}

	log.Info("db.migrate.done", "command", command)
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info("db.migrate", "detail", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level and does not exit the process.
func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error("db.migrate.fatal", "detail", strings.TrimSpace(fmt.Sprintf(format, v...)))
}
