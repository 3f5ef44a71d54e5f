package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/models"
	"github.com/ternarybob/jigoor/internal/services/llm"
)

// NewsResult is a parsed news sentiment update with deduplicated citations
type NewsResult struct {
	Analysis models.NewsAnalysis `json:"analysis"`
	Sources  []models.Source     `json:"sources"`
}

// NewsService requests a live news sentiment update for a single asset
type NewsService struct {
	provider llm.Provider
	logger   arbor.ILogger
}

// NewNewsService creates a news service on top of an already constructed provider
func NewNewsService(provider llm.Provider, logger arbor.ILogger) *NewsService {
	return &NewsService{
		provider: provider,
		logger:   logger,
	}
}

// ProviderType returns the backing provider, used to label error messages
func (s *NewsService) ProviderType() llm.ProviderType {
	return s.provider.GetProviderType()
}

// RequestNewsAnalysis summarises the last 24-48h of news for the asset and picks an outlook
func (s *NewsService) RequestNewsAnalysis(ctx context.Context, assetName string, assetType models.AssetType) (*NewsResult, error) {
	if strings.TrimSpace(assetName) == "" {
		return nil, ErrNoAssetName
	}

	start := time.Now()
	s.logger.Info().
		Str("asset", assetName).
		Str("asset_type", string(assetType)).
		Msg("Requesting news analysis")

	resp, err := s.provider.GenerateContent(ctx, &llm.ContentRequest{
		Prompt:    BuildNewsPrompt(assetName, assetType),
		WebSearch: true,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("asset", assetName).Msg("News analysis request failed")
		return nil, &BackendError{Provider: s.provider.GetProviderType(), Err: err}
	}

	analysis, err := ParseNews(resp.Text)
	if err != nil {
		logMalformed(s.logger, err, resp.Text)
		return nil, err
	}

	result := &NewsResult{
		Analysis: *analysis,
		Sources:  DedupeSources(resp.Citations),
	}

	s.logger.Info().
		Str("asset", assetName).
		Str("outlook", result.Analysis.Outlook).
		Int("sources", len(result.Sources)).
		Dur("duration", time.Since(start)).
		Msg("News analysis received")

	return result, nil
}
