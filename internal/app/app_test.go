package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/common"
)

func TestNew_MissingAPIKeyServesConfigError(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Gemini.APIKey = ""

	application, err := New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	defer application.Close()

	require.NotNil(t, application.ConfigError)
	assert.Equal(t, "Gemini", application.ConfigError.ProviderName)
	assert.Equal(t, []string{"JIGOOR_GEMINI_API_KEY", "API_KEY"}, application.ConfigError.EnvVars)
	assert.Equal(t, "gemini", application.ConfigError.ConfigSection)
	assert.Nil(t, application.Provider)
	assert.Nil(t, application.SignalService)
	assert.NotNil(t, application.PageHandler)
	assert.NotNil(t, application.ThirdPartyService)
}

func TestNew_WiresServices(t *testing.T) {
	tests := []struct {
		name     string
		provider common.LLMProvider
	}{
		{"gemini", common.LLMProviderGemini},
		{"claude", common.LLMProviderClaude},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := common.NewDefaultConfig()
			cfg.LLM.DefaultProvider = tt.provider
			cfg.Gemini.APIKey = "test-key"
			cfg.Claude.APIKey = "test-key"

			application, err := New(cfg, arbor.NewLogger())
			require.NoError(t, err)
			defer application.Close()

			assert.Nil(t, application.ConfigError)
			require.NotNil(t, application.Provider)
			assert.Equal(t, string(tt.provider), string(application.Provider.GetProviderType()))
			assert.NotNil(t, application.SignalService)
			assert.NotNil(t, application.NewsService)
			assert.NotNil(t, application.SessionHandler)
			assert.NotNil(t, application.WSHandler)
			assert.Equal(t, 0, application.Sessions.Count())
		})
	}
}

func TestNew_BadCataloguePath(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Gemini.APIKey = "test-key"
	cfg.ThirdParty.CataloguePath = "/does/not/exist.yaml"

	_, err := New(cfg, arbor.NewLogger())
	assert.Error(t, err)
}
