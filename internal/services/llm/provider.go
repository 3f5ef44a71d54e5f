package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/common"
	"github.com/ternarybob/jigoor/internal/models"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderGemini uses Google Gemini API with Google Search grounding
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API with the web search tool
	ProviderClaude ProviderType = "claude"
)

// DisplayName returns the provider name shown to users
func (p ProviderType) DisplayName() string {
	switch p {
	case ProviderClaude:
		return "Claude"
	default:
		return "Gemini"
	}
}

// ErrMissingAPIKey is returned when the selected provider has no API key configured
var ErrMissingAPIKey = errors.New("API key is not configured")

// UntitledSource is the title given to citations that arrive without one
const UntitledSource = "Untitled Source"

// ContentRequest represents a provider-agnostic content generation request
type ContentRequest struct {
	Prompt      string
	Model       string  // Empty uses the provider's configured model
	Temperature float32 // 0 uses the provider's configured temperature
	WebSearch   bool    // Enable search grounding and collect citations
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text      string
	Provider  ProviderType
	Model     string
	Citations []models.Source // Raw, in arrival order, may contain duplicates
}

// Provider defines the interface for AI content generation
type Provider interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
	GetProviderType() ProviderType
	Close() error
}

// NewProvider constructs the provider selected by llm.default_provider.
// Called once at startup; the result is shared by every request service.
func NewProvider(ctx context.Context, config *common.Config, logger arbor.ILogger) (Provider, error) {
	switch config.LLM.DefaultProvider {
	case common.LLMProviderClaude:
		return NewClaudeProvider(&config.Claude, logger)
	case common.LLMProviderGemini, "":
		return NewGeminiProvider(ctx, &config.Gemini, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.LLM.DefaultProvider)
	}
}

// parseTimeout returns the configured per-request timeout, 0 when unset or invalid
func parseTimeout(value string) time.Duration {
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

// withTimeout bounds a provider call by its configured timeout
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func sourceTitle(title string) string {
	if title == "" {
		return UntitledSource
	}
	return title
}
