package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/common"
)

// SessionCounter reports live sessions for the health endpoint
type SessionCounter interface {
	Count() int
}

type APIHandler struct {
	logger      arbor.ILogger
	sessions    SessionCounter
	provider    string
	configError string
}

// NewAPIHandler creates the version/health handler. configError is non-empty when the
// AI provider could not be constructed.
func NewAPIHandler(logger arbor.ILogger, sessions SessionCounter, provider string, configError string) *APIHandler {
	return &APIHandler{
		logger:      logger,
		sessions:    sessions,
		provider:    provider,
		configError: configError,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler returns health check status. A missing API key reports "degraded".
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	status := "ok"
	if h.configError != "" {
		status = "degraded"
	}

	response := map[string]interface{}{
		"status":   status,
		"provider": h.provider,
	}
	if h.sessions != nil {
		response["sessions"] = h.sessions.Count()
	}
	if h.configError != "" {
		response["error"] = h.configError
	}

	WriteJSON(w, http.StatusOK, response)
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
