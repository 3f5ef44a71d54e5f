package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/common"
	"github.com/ternarybob/jigoor/internal/models"
)

const (
	citationTypeWebSearch    = "web_search_result_location"
	blockTypeWebSearchResult = "web_search_tool_result"
)

// ClaudeProvider implements Provider using the Anthropic Messages API.
// Web search requests attach the server-side web search tool; citations come from
// web_search_result_location entries on the returned text blocks.
type ClaudeProvider struct {
	config  *common.ClaudeConfig
	logger  arbor.ILogger
	client  anthropic.Client
	timeout time.Duration
}

// NewClaudeProvider creates a Claude provider. The SDK's built-in retries are disabled.
func NewClaudeProvider(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("claude: %w (set JIGOOR_CLAUDE_API_KEY, ANTHROPIC_API_KEY, or claude.api_key)", ErrMissingAPIKey)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	logger.Debug().
		Str("model", config.Model).
		Int("max_tokens", config.MaxTokens).
		Msg("Claude provider initialized")

	return &ClaudeProvider{
		config:  config,
		logger:  logger,
		client:  anthropic.NewClient(opts...),
		timeout: parseTimeout(config.Timeout),
	}, nil
}

// GenerateContent sends a single user prompt and concatenates the text blocks of the reply
func (p *ClaudeProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	model := request.Model
	if model == "" {
		model = p.config.Model
	}

	maxTokens := p.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	}

	temp := request.Temperature
	if temp <= 0 {
		temp = p.config.Temperature
	}
	if temp > 0 {
		params.Temperature = anthropic.Float(float64(temp))
	}

	if request.WebSearch {
		webSearch := &anthropic.WebSearchTool20250305Param{}
		if p.config.MaxSearchUses > 0 {
			webSearch.MaxUses = anthropic.Int(int64(p.config.MaxSearchUses))
		}
		params.Tools = []anthropic.ToolUnionParam{
			{OfWebSearchTool20250305: webSearch},
		}
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude messages request failed: %w", err)
	}

	// Text written before a search completes is narration, the answer follows the last result
	answerStart := 0
	for i, block := range resp.Content {
		if block.Type == blockTypeWebSearchResult {
			answerStart = i + 1
		}
	}

	var text strings.Builder
	var citations []models.Source
	for _, block := range resp.Content[answerStart:] {
		if block.Type != "text" {
			continue
		}
		text.WriteString(block.Text)
		for _, citation := range block.Citations {
			if citation.Type != citationTypeWebSearch || citation.URL == "" {
				continue
			}
			citations = append(citations, models.Source{
				URI:   citation.URL,
				Title: sourceTitle(citation.Title),
			})
		}
	}

	if text.Len() == 0 {
		p.logger.Warn().Str("model", model).Msg("Claude returned an empty response")
	}

	p.logger.Debug().
		Str("model", model).
		Int("response_length", text.Len()).
		Int("citations", len(citations)).
		Dur("duration", time.Since(start)).
		Msg("Claude content generated")

	return &ContentResponse{
		Text:      text.String(),
		Provider:  ProviderClaude,
		Model:     model,
		Citations: citations,
	}, nil
}

// GetProviderType returns ProviderClaude
func (p *ClaudeProvider) GetProviderType() ProviderType {
	return ProviderClaude
}

// Close is a no-op; the HTTP client has no resources to release
func (p *ClaudeProvider) Close() error {
	return nil
}
