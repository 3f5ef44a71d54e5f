package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestPageHandler_ServesIndex(t *testing.T) {
	handler, err := NewPageHandler(arbor.NewLogger(), "Gemini AI", 3, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServePage("index.html")(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, AppTitle)
	assert.Contains(t, body, "Gemini AI")
	assert.Contains(t, body, "not financial advice")
}

func TestPageHandler_UnknownPath(t *testing.T) {
	handler, err := NewPageHandler(arbor.NewLogger(), "Gemini AI", 3, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServePage("index.html")(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageHandler_ConfigError(t *testing.T) {
	handler, err := NewPageHandler(arbor.NewLogger(), "Gemini AI", 3, &ConfigErrorInfo{
		ProviderName:  "Gemini",
		EnvVars:       []string{"JIGOOR_GEMINI_API_KEY", "API_KEY"},
		ConfigSection: "gemini",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServePage("index.html")(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, ConfigErrorTitle)
	assert.Contains(t, body, "<code>API_KEY</code>")
	assert.Contains(t, body, "[gemini]")
	assert.NotContains(t, body, "Find Signals")
}

func TestPageHandler_StaticFiles(t *testing.T) {
	handler, err := NewPageHandler(arbor.NewLogger(), "Gemini AI", 3, nil)
	require.NoError(t, err)

	for _, path := range []string{"/static/app.js", "/static/app.css"} {
		rec := httptest.NewRecorder()
		handler.StaticFileHandler(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	handler.StaticFileHandler(rec, httptest.NewRequest(http.MethodGet, "/static/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
