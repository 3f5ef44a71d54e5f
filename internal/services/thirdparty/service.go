// Package thirdparty provides the alternate signal source that bypasses the AI.
// The records are canned; the configured delay stands in for network latency.
package thirdparty

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/jigoor/internal/common"
	"github.com/ternarybob/jigoor/internal/models"
)

//go:embed catalogue.yaml
var embeddedCatalogue []byte

// DefaultDelay is used when third_party.delay is empty or invalid
const DefaultDelay = 1500 * time.Millisecond

type catalogueFile struct {
	Signals []catalogueRecord `yaml:"signals"`
}

type catalogueRecord struct {
	AssetName    string `yaml:"asset_name"`
	AssetType    string `yaml:"asset_type"`
	Signal       string `yaml:"signal"`
	Analysis     string `yaml:"analysis"`
	CurrentPrice string `yaml:"current_price"`
	EntryPrice   string `yaml:"entry_price"`
	ExitPrice    string `yaml:"exit_price"`
	StopLoss     string `yaml:"stop_loss"`
	Timeline     string `yaml:"timeline"`
}

func (r catalogueRecord) toSignal() models.TradingSignal {
	return models.TradingSignal{
		AssetName:    r.AssetName,
		AssetType:    models.AssetType(r.AssetType),
		Signal:       r.Signal,
		Analysis:     r.Analysis,
		CurrentPrice: r.CurrentPrice,
		EntryPrice:   r.EntryPrice,
		ExitPrice:    r.ExitPrice,
		StopLoss:     r.StopLoss,
		Timeline:     r.Timeline,
	}
}

// Service serves signals from the catalogue
type Service struct {
	catalogue []models.TradingSignal
	delay     time.Duration
	baseURL   string
	logger    arbor.ILogger
}

// NewService loads the catalogue, preferring third_party.catalogue_path over the embedded copy
func NewService(config *common.ThirdPartyConfig, logger arbor.ILogger) (*Service, error) {
	data := embeddedCatalogue
	if config.CataloguePath != "" {
		fileData, err := os.ReadFile(config.CataloguePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read signal catalogue %s: %w", config.CataloguePath, err)
		}
		data = fileData
	}

	catalogue, err := parseCatalogue(data)
	if err != nil {
		return nil, err
	}

	delay := DefaultDelay
	if config.Delay != "" {
		if d, err := time.ParseDuration(config.Delay); err == nil {
			delay = d
		}
	}

	logger.Debug().
		Int("records", len(catalogue)).
		Dur("delay", delay).
		Msg("Third-party signal source loaded")

	return &Service{
		catalogue: catalogue,
		delay:     delay,
		baseURL:   config.BaseURL,
		logger:    logger,
	}, nil
}

func parseCatalogue(data []byte) ([]models.TradingSignal, error) {
	var file catalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse signal catalogue: %w", err)
	}
	if len(file.Signals) == 0 {
		return nil, fmt.Errorf("signal catalogue is empty")
	}

	signals := make([]models.TradingSignal, len(file.Signals))
	for i, record := range file.Signals {
		signals[i] = record.toSignal()
	}
	return signals, nil
}

// FetchSignals returns the records whose asset name contains "(<COIN>)" for any coin in the
// comma-separated query. When nothing matches, the first count records are returned.
func (s *Service) FetchSignals(ctx context.Context, query string, count int) ([]models.TradingSignal, error) {
	s.logger.Info().
		Str("query", query).
		Int("count", count).
		Str("endpoint", s.baseURL).
		Msg("Fetching signals from third-party source")

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.delay):
	}

	var coins []string
	for _, coin := range strings.Split(strings.ToUpper(query), ",") {
		if trimmed := strings.TrimSpace(coin); trimmed != "" {
			coins = append(coins, trimmed)
		}
	}

	var matched []models.TradingSignal
	for _, signal := range s.catalogue {
		name := strings.ToUpper(signal.AssetName)
		for _, coin := range coins {
			if strings.Contains(name, "("+coin+")") {
				matched = append(matched, signal)
				break
			}
		}
	}
	if len(matched) > 0 {
		return matched, nil
	}

	if count < 0 {
		count = 0
	}
	if count > len(s.catalogue) {
		count = len(s.catalogue)
	}
	out := make([]models.TradingSignal, count)
	copy(out, s.catalogue[:count])
	return out, nil
}
