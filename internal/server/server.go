// Package server exposes a read-only HTTP API over a vault.
//
// Routes:
//
//	GET /healthz                    build information
//	GET /states/{digest}            a stored position with its outcome and edges
//	GET /states/{digest}/graph      the graph below a position as DOT or SVG
//	GET /positions?rows=&cols=&run=&moves=&first=
//	                                the stored position reached by a move list
//	GET /metrics                    Prometheus exposition, when configured
//
// Errors are JSON objects {"code": ..., "error": ...} with the status code
// chosen by [errors.HTTPStatus].
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/inarow/pkg/errors"
	"github.com/matzehuels/inarow/pkg/observability"
	"github.com/matzehuels/inarow/pkg/vault"
)

// Options configures a [Server].
type Options struct {
	// Logger receives one debug line per request. Defaults to log.Default().
	Logger *log.Logger

	// Metrics, when non-nil, is mounted at /metrics.
	Metrics http.Handler

	// RequestTimeout bounds each request's context. Zero means 30s.
	RequestTimeout time.Duration
}

// Server serves positions from a vault.
type Server struct {
	vault   *vault.Vault
	logger  *log.Logger
	metrics http.Handler
	timeout time.Duration
}

// New returns a server reading from v.
func New(v *vault.Vault, opts Options) *Server {
	s := &Server{
		vault:   v,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		timeout: opts.RequestTimeout,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.timeout <= 0 {
		s.timeout = 30 * time.Second
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/states/{digest}", s.handleState)
	r.Get("/states/{digest}/graph", s.handleGraph)
	r.Get("/positions", s.handlePosition)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	return r
}

// instrument reports every request to the HTTP hooks and the logger.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
