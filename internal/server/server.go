// Package server exposes the engine and probe runner over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aryankumar/sep/internal/catalog"
	"github.com/aryankumar/sep/internal/config"
	"github.com/aryankumar/sep/internal/executor"
	"github.com/aryankumar/sep/internal/metrics"
	"github.com/aryankumar/sep/internal/probe"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sourcegraph/conc"
)

const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 2 * time.Minute
)

// Options wires a Server to its dependencies
type Options struct {
	// Addr is the listen address
	Addr string

	// ShutdownTimeout bounds graceful shutdown, background runs and
	// detached retries included
	ShutdownTimeout time.Duration

	Engine   *executor.Engine
	Runner   *probe.Runner
	Catalog  *catalog.Catalog
	Recorder *metrics.Recorder
	Logger   *slog.Logger

	// Actions back the parallel and fanoutfanin patterns
	Actions []config.ActionConfig

	// Reducer backs the fanoutfanin pattern
	Reducer config.ReducerConfig

	// RetryAction backs the invokewithretry pattern. It is rebuilt for every
	// request so stateful kinds start fresh.
	RetryAction config.ActionConfig
}

// Server wraps the chi router and application dependencies
type Server struct {
	router *chi.Mux
	opts   Options
	logger *slog.Logger

	// background tracks pattern runs started with mode=async
	background conc.WaitGroup
}

// New creates and configures a new HTTP server
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.New(nil)
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.New(catalog.WithLogger(opts.Logger))
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = config.DefaultShutdownTimeout
	}

	s := &Server{
		router: chi.NewRouter(),
		opts:   opts,
		logger: opts.Logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.metricsMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	s.routes()

	return s
}

// routes registers all HTTP routes on the router
func (s *Server) routes() {
	s.router.Handle("/metrics", s.opts.Recorder.Handler())

	s.router.Route("/health-checks", func(r chi.Router) {
		r.Get("/", s.handleHealthChecks)
		r.Get("/{name}", s.handleHealthChecks)
	})

	s.router.Get("/api/{pattern}", s.handlePattern)
}

// Router returns the chi router
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully: it
// stops accepting requests, waits for background runs and drains detached
// retries, all within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.opts.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return s.drain(shutdownCtx)
}

// drain waits for background pattern runs, then for detached retries
func (s *Server) drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("background runs did not finish: %w", ctx.Err())
	}

	if err := s.opts.Engine.Drain(ctx); err != nil {
		return err
	}

	s.logger.Info("server stopped")
	return nil
}
