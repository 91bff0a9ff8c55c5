package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/civicpulse/civicpulse/internal/config"
	"log/slog"
)

// serviceName tags the server's lifecycle log lines.
const serviceName = "civicpulse"

// Server hosts the analysis API, the health probe and the metrics endpoint.
type Server struct {
	cfg    config.ServerConfig
	logger *slog.Logger
	http   *http.Server
}

// New constructs a Server with sane defaults.
func New(cfg config.ServerConfig, logger *slog.Logger, handler http.Handler) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
		http:   srv,
	}
}

// Addr returns the listen address the server was configured with.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	s.logger.Info("starting server",
		"service", serviceName,
		"addr", s.http.Addr,
		"read_timeout", s.cfg.ReadTimeout,
		"write_timeout", s.cfg.WriteTimeout,
	)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Shutdown gracefully terminates the server. In-flight analysis requests get
// the configured shutdown window to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server", "service", serviceName)
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
