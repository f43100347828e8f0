package app

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"

	"snsfeed/cmd/internal/httpx"

	"github.com/go-chi/chi/v5"
)

// RouteRegistrar mounts a feature's routes on the shared router.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// ReadinessFunc reports whether the service can take traffic.
type ReadinessFunc func(ctx context.Context) error

func newRouter(log Logger, cfg Config, metrics *Metrics, ready ReadinessFunc, features ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	r.Use(
		WithRequestID,
		metrics.Middleware,
		func(next http.Handler) http.Handler { return WithRequestLogging(next, log) },
		func(next http.Handler) http.Handler { return withRecover(next, log) },
		WithSecurityHeaders,
		func(next http.Handler) http.Handler { return WithCORS(next, cfg, log) },
	)

	r.NotFound(cannotHandle)
	r.MethodNotAllowed(cannotHandle)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := ready(r.Context()); err != nil {
			log.Info("readyz.not_ready", "err", err)
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	for _, f := range features {
		f.Register(r)
	}

	return r
}

// cannotHandle answers unknown routes and methods alike with 404 "Cannot METHOD /path".
func cannotHandle(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(w, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
}

func withRecover(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Error("http.panic",
				"panic", rec,
				"route", routeLabel(r),
				"request_id", RequestIDFromContext(r.Context()),
				"stack", string(debug.Stack()),
			)
			httpx.WriteInternal(w)
		}()
		next.ServeHTTP(w, r)
	})
}
