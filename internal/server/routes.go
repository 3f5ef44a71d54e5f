package server

import (
	"net/http"

	"github.com/ternarybob/jigoor/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI
	mux.HandleFunc("/", s.app.PageHandler.ServePage("index.html"))
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// API routes - System (always available, report degraded when misconfigured)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	if s.app.ConfigError != nil {
		unavailable := handlers.ConfigErrorHandler(s.app.ConfigError.Details)
		for _, path := range sessionRoutes {
			mux.HandleFunc(path, unavailable)
		}
		mux.HandleFunc("/api/", unavailable)
		return mux
	}

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Session state
	mux.HandleFunc("/api/session", s.app.SessionHandler.GetSessionHandler) // GET - current state, issues cookie
	mux.HandleFunc("/api/tags", s.app.SessionHandler.TagsHandler)          // POST - key press or tag removal
	mux.HandleFunc("/api/datasource", s.app.SessionHandler.DataSourceHandler)

	// API routes - Signals
	mux.HandleFunc("/api/signals", s.app.SessionHandler.SubmitHandler) // POST - start search
	mux.HandleFunc("/api/signals/", s.handleSignalRoutes)              // POST /{id}/news

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// sessionRoutes are answered with 503 when no API key is configured
var sessionRoutes = []string{"/ws", "/api/session", "/api/tags", "/api/datasource", "/api/signals", "/api/signals/"}

// handleSignalRoutes routes /api/signals/{id}/... requests
func (s *Server) handleSignalRoutes(w http.ResponseWriter, r *http.Request) {
	if RouteByPathSuffix(w, r, "/api/signals/", []PathSuffixRouter{
		{Suffix: "/news", Handler: s.app.SessionHandler.NewsHandler},
	}) {
		return
	}
	s.app.APIHandler.NotFoundHandler(w, r)
}
