package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/jigoor/internal/models"
	"github.com/ternarybob/jigoor/internal/services/analysis"
	"github.com/ternarybob/jigoor/internal/signals"
)

const disclaimer = "_Signals are for informational purposes only and are not financial advice._\n"

// formatSignals formats ranked signals as markdown
func formatSignals(symbols []string, ranked []models.TradingSignal, sources []models.Source, cadRate float64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Trading Signals for %s (%d results)\n\n", strings.Join(symbols, ", "), len(ranked)))

	if len(ranked) == 0 {
		sb.WriteString("No signals returned.\n")
		return sb.String()
	}

	for i, signal := range ranked {
		rate := 0.0
		if signal.AssetType == models.AssetTypeCrypto {
			rate = cadRate
		}

		sb.WriteString(fmt.Sprintf("### %d. %s: %s\n", i+1, signal.AssetName, signal.Signal))
		sb.WriteString(signal.Analysis)
		sb.WriteString("\n\n")

		if signal.CurrentPrice != "" {
			sb.WriteString(priceLine("Current Price", signal.CurrentPrice, rate))
		}
		sb.WriteString(priceLine("Entry Price", signal.EntryPrice, rate))
		sb.WriteString(priceLine("Exit Price", signal.ExitPrice, rate))
		if signal.StopLoss != "" {
			sb.WriteString(priceLine("Stop Loss", signal.StopLoss, rate))
		}
		timeline := signal.Timeline
		if timeline == "" {
			timeline = "N/A"
		}
		sb.WriteString(fmt.Sprintf("- **Timeline:** %s\n", timeline))

		if rows := signals.FibonacciRows(signal.FibonacciLevels); len(rows) > 0 {
			sb.WriteString("\n| Fibonacci | Price |\n|---|---|\n")
			for _, row := range rows {
				sb.WriteString(fmt.Sprintf("| %s | %s |\n", row.Label, row.Price))
			}
		}
		sb.WriteString("\n")
	}

	writeSources(&sb, "Analysis Sources", sources)
	sb.WriteString(disclaimer)
	return sb.String()
}

// formatNews formats a news analysis as markdown
func formatNews(assetName string, result *analysis.NewsResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Live News Analysis: %s\n\n", assetName))
	sb.WriteString(fmt.Sprintf("**Outlook:** %s\n\n", result.Analysis.Outlook))
	sb.WriteString(result.Analysis.Summary)
	sb.WriteString("\n\n")
	writeSources(&sb, "Sources", result.Sources)
	return sb.String()
}

func priceLine(label, price string, rate float64) string {
	if price == "" {
		price = "N/A"
	}
	if cad := signals.ConvertPriceToCAD(price, rate); cad != "" {
		return fmt.Sprintf("- **%s:** %s (%s)\n", label, price, cad)
	}
	return fmt.Sprintf("- **%s:** %s\n", label, price)
}

func writeSources(sb *strings.Builder, heading string, sources []models.Source) {
	sources = signals.LinkableSources(sources)
	if len(sources) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("#### %s\n", heading))
	for _, source := range sources {
		sb.WriteString(fmt.Sprintf("- [%s](%s)\n", source.Title, source.URI))
	}
	sb.WriteString("\n")
}
