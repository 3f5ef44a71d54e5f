package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/models"
	"github.com/ternarybob/jigoor/internal/services/llm"
)

// SignalResult is a parsed signals response with deduplicated citations
type SignalResult struct {
	Signals []models.TradingSignal `json:"signals"`
	Sources []models.Source        `json:"sources"`
}

// SignalService requests trading signals for a list of asset symbols.
// It holds no per-request state and is safe for concurrent use.
type SignalService struct {
	provider llm.Provider
	logger   arbor.ILogger
}

// NewSignalService creates a signal service on top of an already constructed provider
func NewSignalService(provider llm.Provider, logger arbor.ILogger) *SignalService {
	return &SignalService{
		provider: provider,
		logger:   logger,
	}
}

// ProviderType returns the backing provider, used to label error messages
func (s *SignalService) ProviderType() llm.ProviderType {
	return s.provider.GetProviderType()
}

// RequestSignals asks the AI for one signal per symbol, grounded by web search.
// Returned signals are unsorted and carry no IDs.
func (s *SignalService) RequestSignals(ctx context.Context, symbols []string) (*SignalResult, error) {
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}

	start := time.Now()
	s.logger.Info().
		Strs("symbols", symbols).
		Str("provider", string(s.provider.GetProviderType())).
		Msg("Requesting trading signals")

	resp, err := s.provider.GenerateContent(ctx, &llm.ContentRequest{
		Prompt:    BuildSignalsPrompt(symbols),
		WebSearch: true,
	})
	if err != nil {
		s.logger.Error().Err(err).Strs("symbols", symbols).Msg("Trading signal request failed")
		return nil, &BackendError{Provider: s.provider.GetProviderType(), Err: err}
	}

	signals, err := ParseSignals(resp.Text)
	if err != nil {
		logMalformed(s.logger, err, resp.Text)
		return nil, err
	}

	if len(signals) != len(symbols) {
		s.logger.Warn().
			Int("requested", len(symbols)).
			Int("received", len(signals)).
			Msg("Signal count differs from requested symbols")
	}

	result := &SignalResult{
		Signals: signals,
		Sources: DedupeSources(resp.Citations),
	}

	s.logger.Info().
		Int("signals", len(result.Signals)).
		Int("sources", len(result.Sources)).
		Dur("duration", time.Since(start)).
		Msg("Trading signals received")

	return result, nil
}

func logMalformed(logger arbor.ILogger, err error, raw string) {
	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		logger.Error().
			Err(err).
			Str("kind", string(malformed.Kind)).
			Str("raw_response", raw).
			Msg("AI returned a malformed response")
		return
	}
	logger.Error().Err(err).Msg("Failed to parse AI response")
}
