// Package web serves the browser UI and the JSON ask endpoint.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Default configuration values.
const (
	DefaultShutdownTimeout = 10 * time.Second

	// multipartMemory is how much of a form is buffered before spilling to disk.
	multipartMemory = 8 << 20
)

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("web: ask service is required")

// Config holds web server settings.
type Config struct {
	// Addr is the listen address (default: 127.0.0.1:7860).
	Addr string

	// MaxUploadMB caps the request body (default: 32).
	MaxUploadMB int

	// Version is shown on /healthz.
	Version string
}

// Server is the HTTP surface of askdoc.
type Server struct {
	ask      driving.AskService
	cfg      Config
	page     []byte
	maxBytes int64
	router   chi.Router
}

// NewServer creates a server and renders the UI page.
func NewServer(ask driving.AskService, cfg Config) (*Server, error) {
	if ask == nil {
		return nil, ErrMissingAskService
	}
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultAddr
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = domain.DefaultMaxUploadMB
	}

	page, err := renderIndex()
	if err != nil {
		return nil, fmt.Errorf("render ui: %w", err)
	}

	s := &Server{
		ask:      ask,
		cfg:      cfg,
		page:     page,
		maxBytes: int64(cfg.MaxUploadMB) << 20,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Handle("/static/*", staticHandler())
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", s.handleAsk)
	})

	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// Run listens on the configured address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("web: shutdown: %v", err)
		}
	}()

	logger.Info("Listening on http://%s", s.cfg.Addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
