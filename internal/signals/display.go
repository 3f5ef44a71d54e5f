package signals

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ternarybob/jigoor/internal/models"
)

// Tone is the colour family a value is rendered with
type Tone string

const (
	ToneBullish Tone = "bullish"
	ToneBearish Tone = "bearish"
	ToneNeutral Tone = "neutral"
)

// SignalTone maps a signal label to its badge colour. Unknown labels render neutral.
func SignalTone(signal string) Tone {
	switch signal {
	case models.SignalStrongBuy, models.SignalBuy, models.SignalAccumulate:
		return ToneBullish
	case models.SignalSell, models.SignalStrongSell:
		return ToneBearish
	default:
		return ToneNeutral
	}
}

// OutlookTone tints a news outlook by keyword, bullish checked first
func OutlookTone(outlook string) Tone {
	lower := strings.ToLower(outlook)
	switch {
	case strings.Contains(lower, "bullish"):
		return ToneBullish
	case strings.Contains(lower, "bearish"):
		return ToneBearish
	default:
		return ToneNeutral
	}
}

// FibonacciRow is one rendered retracement level
type FibonacciRow struct {
	Key        string  `json:"key"`
	Percentage float64 `json:"percentage"`
	Label      string  `json:"label"`
	Price      string  `json:"price"`
	Tone       Tone    `json:"tone"`
}

// FibonacciRows returns the levels in fixed order from swing high to swing low.
// Levels with an empty price are skipped; nil levels yield nil.
func FibonacciRows(levels *models.FibonacciLevels) []FibonacciRow {
	if levels == nil {
		return nil
	}

	ordered := []struct {
		key   string
		pct   float64
		price string
	}{
		{"level_0", 0, levels.Level0},
		{"level_23_6", 23.6, levels.Level23_6},
		{"level_38_2", 38.2, levels.Level38_2},
		{"level_50", 50, levels.Level50},
		{"level_61_8", 61.8, levels.Level61_8},
		{"level_78_6", 78.6, levels.Level78_6},
		{"level_100", 100, levels.Level100},
	}

	var rows []FibonacciRow
	for _, level := range ordered {
		if level.price == "" {
			continue
		}

		label := fmt.Sprintf("%.1f%%", level.pct)
		switch level.key {
		case "level_0":
			label += " (High)"
		case "level_100":
			label += " (Low)"
		}

		rows = append(rows, FibonacciRow{
			Key:        level.key,
			Percentage: level.pct,
			Label:      label,
			Price:      level.price,
			Tone:       fibonacciTone(level.pct),
		})
	}
	return rows
}

func fibonacciTone(pct float64) Tone {
	switch {
	case pct <= 38.2:
		return ToneBearish
	case pct >= 61.8:
		return ToneBullish
	default:
		return ToneNeutral
	}
}

// LinkableSources keeps citations whose URI is an absolute http or https URL.
// Citation URIs come from the AI and are rendered as links.
func LinkableSources(sources []models.Source) []models.Source {
	out := make([]models.Source, 0, len(sources))
	for _, source := range sources {
		if IsLinkableURI(source.URI) {
			out = append(out, source)
		}
	}
	return out
}

// IsLinkableURI reports whether uri is an absolute http(s) URL with a host
func IsLinkableURI(uri string) bool {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
