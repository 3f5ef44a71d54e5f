package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/jigoor/internal/app"
)

// Server manages the HTTP server and routes
type Server struct {
	app    *app.App
	router *http.ServeMux
	server *http.Server
}

// New creates a new HTTP server with the given app
func New(application *app.App) *Server {
	s := &Server{
		app: application,
	}

	// Setup routes
	s.router = s.setupRoutes()

	// No WriteTimeout: websocket connections are long-lived
	addr := fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.withConditionalMiddleware(s.router),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler exposes the routed handler with middleware
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.server.Addr

	s.app.Logger.Info().
		Str("address", addr).
		Msg("HTTP server starting")

	if s.app.ConfigError != nil {
		s.app.Logger.Warn().
			Strs("env_vars", s.app.ConfigError.EnvVars).
			Msg("No API key configured - every page shows the configuration error screen")
	}
	s.app.Logger.Info().
		Str("url", fmt.Sprintf("http://%s", addr)).
		Msg("Web UI available")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("Shutting down HTTP server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.app.Logger.Info().Msg("HTTP server stopped")
	return nil
}
