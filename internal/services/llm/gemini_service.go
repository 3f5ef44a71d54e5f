package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/jigoor/internal/common"
	"github.com/ternarybob/jigoor/internal/models"
)

// GeminiProvider implements Provider using the Google Gen AI SDK.
// Web search requests enable the Google Search tool and return grounding citations.
type GeminiProvider struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiProvider creates a Gemini provider. The API key is read once here.
func NewGeminiProvider(ctx context.Context, config *common.GeminiConfig, logger arbor.ILogger) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w (set JIGOOR_GEMINI_API_KEY, API_KEY, or gemini.api_key)", ErrMissingAPIKey)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Debug().
		Str("model", config.Model).
		Str("timeout", config.Timeout).
		Msg("Gemini provider initialized")

	return &GeminiProvider{
		config:  config,
		logger:  logger,
		client:  client,
		timeout: parseTimeout(config.Timeout),
	}, nil
}

// GenerateContent sends a single user prompt and returns the text and grounding citations
func (p *GeminiProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	model := request.Model
	if model == "" {
		model = p.config.Model
	}

	genConfig := &genai.GenerateContentConfig{}

	temp := request.Temperature
	if temp <= 0 {
		temp = p.config.Temperature
	}
	if temp > 0 {
		genConfig.Temperature = genai.Ptr(temp)
	}

	if request.WebSearch {
		genConfig.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	contents := []*genai.Content{genai.NewContentFromText(request.Prompt, genai.RoleUser)}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, genConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}

	// An empty body is returned as-is so the caller's parser rejects it as malformed
	var responseText string
	var citations []models.Source
	if resp != nil && len(resp.Candidates) > 0 {
		responseText = resp.Text()
		citations = geminiCitations(resp)
	}
	if responseText == "" {
		p.logger.Warn().Str("model", model).Msg("Gemini returned an empty response")
	}

	p.logger.Debug().
		Str("model", model).
		Int("response_length", len(responseText)).
		Int("citations", len(citations)).
		Dur("duration", time.Since(start)).
		Msg("Gemini content generated")

	return &ContentResponse{
		Text:      responseText,
		Provider:  ProviderGemini,
		Model:     model,
		Citations: citations,
	}, nil
}

// geminiCitations flattens the first candidate's grounding chunks. Chunks without a URI are skipped.
func geminiCitations(resp *genai.GenerateContentResponse) []models.Source {
	metadata := resp.Candidates[0].GroundingMetadata
	if metadata == nil {
		return nil
	}

	var sources []models.Source
	for _, chunk := range metadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		sources = append(sources, models.Source{
			URI:   chunk.Web.URI,
			Title: sourceTitle(chunk.Web.Title),
		})
	}
	return sources
}

// GetProviderType returns ProviderGemini
func (p *GeminiProvider) GetProviderType() ProviderType {
	return ProviderGemini
}

// Close releases the client reference
func (p *GeminiProvider) Close() error {
	p.client = nil
	return nil
}
