// Package app wires the snsfeed server runtime: config, logging, storage, HTTP routes and metrics.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"snsfeed/cmd/identity"
	authapi "snsfeed/cmd/internal/auth/api"
	"snsfeed/cmd/internal/auth/session"
	usersapi "snsfeed/cmd/internal/users/api"
	"snsfeed/cmd/security/password"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App is the snsfeed server runtime: it owns the HTTP handler and the storage lifecycle.
type App struct {
	cfg Config
	log Logger

	handler http.Handler

	dbPool *pgxpool.Pool
	sqlDB  *sql.DB
}

type userStore interface {
	identity.Store
	session.UserFinder
	session.OwnerLookup
}

// New constructs a fully wired App. An empty DatabaseURL selects the in-memory stores.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}
	if err := ValidateSecurityConfig(cfg, sessCfg); err != nil {
		return nil, err
	}
	pwCfg, err := password.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("password config: %w", err)
	}

	a := &App{cfg: cfg, log: log}

	var (
		users  userStore
		tokens session.Store
	)

	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		mem := identity.NewMemoryStore()
		users, tokens = mem, session.NewMemoryStore(mem)
	} else {
		if err := a.openDB(ctx); err != nil {
			return nil, err
		}
		pgUsers, err := identity.NewPostgresStore(a.sqlDB)
		if err != nil {
			a.closeDB()
			return nil, err
		}
		users, tokens = pgUsers, session.NewPostgresStore(a.sqlDB)
		log.Info("db.enabled.postgres_store")
	}

	jwtMgr, err := session.NewJWTManager(sessCfg)
	if err != nil {
		a.closeDB()
		return nil, fmt.Errorf("access tokens: %w", err)
	}

	metrics := NewMetrics()
	sessions := session.NewManager(sessCfg, users, pwCfg, tokens, jwtMgr,
		session.WithMetrics(session.NewMetrics(metrics.Registerer())),
	)

	apiCfg := authapi.LoadConfigFromEnv()
	auth, err := authapi.NewHandler(log, apiCfg, sessions)
	if err != nil {
		a.closeDB()
		return nil, err
	}
	accounts, err := usersapi.NewHandler(log, identity.NewService(users, pwCfg), apiCfg.MaxBodyBytes)
	if err != nil {
		a.closeDB()
		return nil, err
	}

	a.handler = newRouter(log, cfg, metrics, a.ready, auth, accounts)
	return a, nil
}

func (a *App) openDB(ctx context.Context) error {
	pool, err := NewDBPool(ctx, a.cfg, a.log)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	a.dbPool = pool
	a.sqlDB = OpenSQL(pool)

	if a.cfg.MigrateOnStart {
		if err := Migrate(ctx, a.sqlDB, MigrateUp, a.log); err != nil {
			a.closeDB()
			return err
		}
	}
	return nil
}

func (a *App) closeDB() {
	if a.sqlDB != nil {
		_ = a.sqlDB.Close()
		a.sqlDB = nil
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.dbPool = nil
	}
}

func (a *App) ready(ctx context.Context) error {
	if a.dbPool == nil {
		if a.cfg.ReadinessRequireDB {
			return errors.New("db not configured")
		}
		return nil
	}
	if err := PingDB(ctx, a.dbPool, 2*time.Second); err != nil {
		return errors.New("db not ready")
	}
	return nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	defer a.closeDB()

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbPool != nil)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), nonZeroDuration(a.cfg.ShutdownTimeout, 10*time.Second))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	a.log.Info("server.stopped")
	return nil
}
