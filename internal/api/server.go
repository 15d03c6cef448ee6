// Package api implements the HTTP server for layout generation.
//
// The server exposes the pipeline over three endpoints:
//
//	POST /generate-layout  generate a floor plan from freeform text or a
//	                       structured room program
//	GET  /layouts/{id}     fetch a previously generated layout
//	GET  /layouts          list stored layout IDs
//	GET  /health           liveness probe
//
// Successful layouts are persisted to the configured store so clients can
// re-fetch them without regenerating.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/roomforge/pkg/extract"
	"github.com/matzehuels/roomforge/pkg/observability"
	"github.com/matzehuels/roomforge/pkg/pipeline"
	"github.com/matzehuels/roomforge/pkg/store"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// shutdownTimeout bounds graceful shutdown on context cancellation.
const shutdownTimeout = 10 * time.Second

// Server is the layout generation HTTP server.
type Server struct {
	runner    *pipeline.Runner
	store     store.Store
	extractor extract.Extractor
	logger    *log.Logger
	router    chi.Router
	addr      string
}

// Config configures a Server. Zero-valued fields fall back to defaults:
// in-memory store, keyword extractor, [DefaultAddr].
type Config struct {
	Addr      string
	Runner    *pipeline.Runner
	Store     store.Store
	Extractor extract.Extractor
	Logger    *log.Logger
}

// NewServer builds a server with its routes registered.
func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Extractor == nil {
		cfg.Extractor = extract.NewKeywordExtractor()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Server{
		runner:    cfg.Runner,
		store:     cfg.Store,
		extractor: cfg.Extractor,
		logger:    cfg.Logger,
		addr:      cfg.Addr,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/generate-layout", s.handleGenerate)
	r.Get("/layouts", s.handleListLayouts)
	r.Get("/layouts/{id}", s.handleGetLayout)
	r.Get("/health", s.handleHealth)

	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests logs each request with timing and emits HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.Host, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.Host, r.URL.Path, ww.Status(), duration)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", duration)
	})
}
