package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/common"
	"github.com/ternarybob/jigoor/internal/web"
)

const (
	// AppTitle is shown in the page header and browser tab
	AppTitle = "Jigoor Trading Signal"
	// ConfigErrorTitle heads the screen shown when the AI provider has no API key
	ConfigErrorTitle = "Application Configuration Error"
)

// ConfigErrorInfo describes why the application cannot serve signals
type ConfigErrorInfo struct {
	ProviderName  string
	EnvVars       []string
	ConfigSection string
	Details       string
}

type PageHandler struct {
	logger        arbor.ILogger
	templates     *template.Template
	static        http.Handler
	providerLabel string
	signalCount   int
	configError   *ConfigErrorInfo
}

// NewPageHandler parses the embedded templates. A non-nil configError replaces every page
// with the configuration error screen.
func NewPageHandler(logger arbor.ILogger, providerLabel string, signalCount int, configError *ConfigErrorInfo) (*PageHandler, error) {
	templates, err := template.ParseFS(web.Pages, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	return &PageHandler{
		logger:        logger,
		templates:     templates,
		static:        http.StripPrefix("/static/", http.FileServer(http.FS(static))),
		providerLabel: providerLabel,
		signalCount:   signalCount,
		configError:   configError,
	}, nil
}

// ServePage creates a handler function for serving a specific page template
func (h *PageHandler) ServePage(templateName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		if h.configError != nil {
			h.render(w, http.StatusServiceUnavailable, "config_error.html", map[string]interface{}{
				"Title":         ConfigErrorTitle,
				"ProviderName":  h.configError.ProviderName,
				"EnvVars":       h.configError.EnvVars,
				"ConfigSection": h.configError.ConfigSection,
				"Details":       h.configError.Details,
			})
			return
		}

		h.render(w, http.StatusOK, templateName, map[string]interface{}{
			"Title":         AppTitle,
			"ProviderLabel": h.providerLabel,
			"SignalCount":   h.signalCount,
			"Version":       common.GetVersion(),
		})
	}
}

// StaticFileHandler serves the embedded stylesheet and script
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	h.static.ServeHTTP(w, r)
}

// render buffers the page so a template error can still answer 500
func (h *PageHandler) render(w http.ResponseWriter, status int, templateName string, data map[string]interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		h.logger.Error().
			Err(err).
			Str("template", templateName).
			Msg("Failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
