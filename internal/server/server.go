// Package server exposes the feedback service over HTTP so that clients
// never hold an LLM credential themselves.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/parley/internal/practice"
)

// Describer reports which provider and model requests are served by.
// *llm.Source implements it.
type Describer interface {
	Describe() (provider, model string)
}

// Options configures a Server. Zero values get defaults.
type Options struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	Describer      Describer
	Logger         *slog.Logger
}

// Server routes practice requests to a feedback Requester.
type Server struct {
	svc      practice.Requester
	describe Describer
	maxBody  int64
	origins  []string
	logger   *slog.Logger
}

// New creates a Server around svc.
func New(svc practice.Requester, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 64 << 10
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{
		svc:      svc,
		describe: opts.Describer,
		maxBody:  opts.MaxBodyBytes,
		origins:  opts.AllowedOrigins,
		logger:   opts.Logger,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(cors(s.origins))

	r.Route("/api", func(r chi.Router) {
		r.Post("/practice", s.handlePractice)
		if s.describe != nil {
			r.Get("/config", s.handleConfig)
		}
	})

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("Server stopped")
	return nil
}
