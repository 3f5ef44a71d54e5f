package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/common"
	"github.com/ternarybob/jigoor/internal/models"
)

func TestNewProvider_MissingAPIKey(t *testing.T) {
	for _, provider := range []common.LLMProvider{common.LLMProviderGemini, common.LLMProviderClaude} {
		t.Run(string(provider), func(t *testing.T) {
			config := common.NewDefaultConfig()
			config.LLM.DefaultProvider = provider

			_, err := NewProvider(context.Background(), config, arbor.NewLogger())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingAPIKey))
		})
	}
}

func TestNewProvider_SelectsConfiguredProvider(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Gemini.APIKey = "gemini-key"
	config.Claude.APIKey = "claude-key"

	provider, err := NewProvider(context.Background(), config, arbor.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, provider.GetProviderType())

	config.LLM.DefaultProvider = common.LLMProviderClaude
	provider, err = NewProvider(context.Background(), config, arbor.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, ProviderClaude, provider.GetProviderType())
	assert.Equal(t, "Claude", provider.GetProviderType().DisplayName())
}

func TestGeminiProvider_GenerateContent(t *testing.T) {
	var requestBody map[string]interface{}
	var requestPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &requestBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "{\"summary\":\"s\",\"outlook\":\"Bullish\"}"}]},
				"groundingMetadata": {
					"groundingChunks": [
						{"web": {"uri": "https://a.example", "title": "A"}},
						{"web": {"uri": "https://b.example"}},
						{"web": {"uri": "", "title": "skipped"}}
					]
				}
			}]
		}`))
	}))
	defer server.Close()

	config := common.NewDefaultConfig()
	config.Gemini.APIKey = "test-key"
	config.Gemini.BaseURL = server.URL

	provider, err := NewGeminiProvider(context.Background(), &config.Gemini, arbor.NewLogger())
	require.NoError(t, err)

	resp, err := provider.GenerateContent(context.Background(), &ContentRequest{
		Prompt:    "analyze BTC",
		WebSearch: true,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(requestPath, "gemini-2.5-flash:generateContent"), requestPath)
	assert.Contains(t, requestBody, "tools")

	assert.Equal(t, `{"summary":"s","outlook":"Bullish"}`, resp.Text)
	assert.Equal(t, ProviderGemini, resp.Provider)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
	assert.Equal(t, []models.Source{
		{URI: "https://a.example", Title: "A"},
		{URI: "https://b.example", Title: UntitledSource},
	}, resp.Citations)
}

func TestGeminiProvider_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Please retry in 30s.","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	config := common.NewDefaultConfig()
	config.Gemini.APIKey = "test-key"
	config.Gemini.BaseURL = server.URL

	provider, err := NewGeminiProvider(context.Background(), &config.Gemini, arbor.NewLogger())
	require.NoError(t, err)

	_, err = provider.GenerateContent(context.Background(), &ContentRequest{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, IsRateLimitError(err))
}

func TestGeminiProvider_EmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates": []}`},
		{"empty text", `{"candidates": [{"content": {"role": "model", "parts": [{"text": ""}]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			config := common.NewDefaultConfig()
			config.Gemini.APIKey = "test-key"
			config.Gemini.BaseURL = server.URL

			provider, err := NewGeminiProvider(context.Background(), &config.Gemini, arbor.NewLogger())
			require.NoError(t, err)

			resp, err := provider.GenerateContent(context.Background(), &ContentRequest{Prompt: "x"})
			require.NoError(t, err)
			assert.Empty(t, resp.Text)
			assert.Empty(t, resp.Citations)
		})
	}
}

func TestClaudeProvider_GenerateContent(t *testing.T) {
	var requestBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &requestBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-5",
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 20},
			"content": [
				{"type": "text", "text": "Let me search for that."},
				{"type": "server_tool_use", "id": "srvtoolu_1", "name": "web_search", "input": {"query": "BTC news"}},
				{"type": "web_search_tool_result", "tool_use_id": "srvtoolu_1", "content": []},
				{"type": "text", "text": "{\"summary\":\"s\",", "citations": [
					{"type": "web_search_result_location", "url": "https://a.example", "title": "A", "cited_text": "x", "encrypted_index": "e1"}
				]},
				{"type": "text", "text": "\"outlook\":\"Neutral\"}"}
			]
		}`))
	}))
	defer server.Close()

	config := common.NewDefaultConfig()
	config.Claude.APIKey = "test-key"
	config.Claude.BaseURL = server.URL

	provider, err := NewClaudeProvider(&config.Claude, arbor.NewLogger())
	require.NoError(t, err)

	resp, err := provider.GenerateContent(context.Background(), &ContentRequest{
		Prompt:    "analyze BTC",
		WebSearch: true,
	})
	require.NoError(t, err)

	assert.Contains(t, requestBody, "tools")
	assert.Equal(t, `{"summary":"s","outlook":"Neutral"}`, resp.Text)
	assert.Equal(t, ProviderClaude, resp.Provider)
	assert.Equal(t, []models.Source{{URI: "https://a.example", Title: "A"}}, resp.Citations)
}
