package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/common"
	"github.com/ternarybob/jigoor/internal/models"
	"github.com/ternarybob/jigoor/internal/services/analysis"
	"github.com/ternarybob/jigoor/internal/services/llm"
	"github.com/ternarybob/jigoor/internal/session"
)

// mockSignals implements session.SignalRequester for testing
type mockSignals struct {
	requestFunc func(ctx context.Context, symbols []string) (*analysis.SignalResult, error)
}

func (m *mockSignals) RequestSignals(ctx context.Context, symbols []string) (*analysis.SignalResult, error) {
	if m.requestFunc != nil {
		return m.requestFunc(ctx, symbols)
	}
	signals := make([]models.TradingSignal, 0, len(symbols))
	for _, s := range symbols {
		signals = append(signals, models.TradingSignal{AssetName: s, AssetType: models.AssetTypeCrypto, Signal: models.SignalHold})
	}
	return &analysis.SignalResult{Signals: signals, Sources: []models.Source{}}, nil
}

func (m *mockSignals) ProviderType() llm.ProviderType { return llm.ProviderGemini }

// mockNews implements session.NewsRequester for testing
type mockNews struct {
	requestFunc func(ctx context.Context, assetName string, assetType models.AssetType) (*analysis.NewsResult, error)
}

func (m *mockNews) RequestNewsAnalysis(ctx context.Context, assetName string, assetType models.AssetType) (*analysis.NewsResult, error) {
	if m.requestFunc != nil {
		return m.requestFunc(ctx, assetName, assetType)
	}
	return &analysis.NewsResult{
		Analysis: models.NewsAnalysis{Summary: assetName + " is steady.", Outlook: models.OutlookNeutral},
		Sources:  []models.Source{{URI: "https://news.example/a", Title: "A"}},
	}, nil
}

func (m *mockNews) ProviderType() llm.ProviderType { return llm.ProviderGemini }

// mockThirdParty implements session.SignalSource for testing
type mockThirdParty struct{}

func (m *mockThirdParty) FetchSignals(ctx context.Context, query string, count int) ([]models.TradingSignal, error) {
	return []models.TradingSignal{{AssetName: "Solana (SOL)", AssetType: models.AssetTypeCrypto, Signal: models.SignalBuy}}, nil
}

func newTestStore(signals *mockSignals, news *mockNews, defaultTags []string) *session.Store {
	defaults := common.NewDefaultConfig().Signals
	defaults.DefaultTags = defaultTags
	return session.NewStore(session.Dependencies{
		Signals:    signals,
		News:       news,
		ThirdParty: &mockThirdParty{},
	}, defaults, arbor.NewLogger())
}

func newTestSessionHandler(store *session.Store) *SessionHandler {
	return NewSessionHandler(context.Background(), store, Presenter{CADRate: 1.37, ProviderLabel: "Gemini AI"}, arbor.NewLogger())
}

// doRequest executes handler with an optional JSON body and session cookie
func doRequest(t *testing.T, handler http.HandlerFunc, method, path string, body interface{}, sessionID string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	}

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) SessionView {
	t.Helper()
	var view SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view), rec.Body.String())
	return view
}
