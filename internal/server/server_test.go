package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/app"
	"github.com/ternarybob/jigoor/internal/common"
	"github.com/ternarybob/jigoor/internal/handlers"
)

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()

	cfg := common.NewDefaultConfig()
	cfg.Gemini.APIKey = apiKey

	application, err := app.New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { application.Close() })

	ts := httptest.NewServer(New(application).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestRoutes_Configured(t *testing.T) {
	ts := newTestServer(t, "test-key")

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/static/app.js", http.StatusOK},
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/version", http.StatusOK},
		{http.MethodGet, "/api/session", http.StatusOK},
		{http.MethodGet, "/api/signals", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/signals/abc/news", http.StatusNotFound},
		{http.MethodPost, "/api/signals/abc/other", http.StatusNotFound},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
		{http.MethodOptions, "/api/tags", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(""))
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRoutes_MissingAPIKey(t *testing.T) {
	ts := newTestServer(t, "")

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/session", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/signals", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/signals/abc/news", http.StatusServiceUnavailable},
		{http.MethodGet, "/ws", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/static/app.css", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRoutes_SessionCookieRoundTrip(t *testing.T) {
	ts := newTestServer(t, "test-key")

	resp, err := http.Get(ts.URL + "/api/session")
	require.NoError(t, err)
	resp.Body.Close()

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == handlers.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/tags", strings.NewReader(`{"remove":"BTC"}`))
	require.NoError(t, err)
	req.AddCookie(cookie)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}

func TestRecoveryMiddleware(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Gemini.APIKey = "test-key"
	application, err := app.New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	defer application.Close()

	s := &Server{app: application}
	handler := s.withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/anything", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
