package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/models"
	"github.com/ternarybob/jigoor/internal/services/analysis"
	"github.com/ternarybob/jigoor/internal/session"
	"github.com/ternarybob/jigoor/internal/signals"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	result := textResult(text)
	result.IsError = true
	return result
}

// handleGetTradingSignals implements the get_trading_signals tool
func handleGetTradingSignals(service session.SignalRequester, cadRate float64, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tickers, err := request.RequireString("tickers")
		if err != nil {
			return errorResult("Error: tickers parameter is required"), nil
		}

		symbols := session.ParseTags(tickers)
		if len(symbols) == 0 {
			return errorResult(session.MsgNoTags), nil
		}

		result, err := service.RequestSignals(ctx, symbols)
		if err != nil {
			logger.Error().Err(err).Strs("symbols", symbols).Msg("Signal request failed")
			return errorResult(analysis.UserMessage(service.ProviderType(), err)), nil
		}

		return textResult(formatSignals(symbols, signals.SortByPriority(result.Signals), result.Sources, cadRate)), nil
	}
}

// handleGetNewsAnalysis implements the get_news_analysis tool
func handleGetNewsAnalysis(service session.NewsRequester, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		assetName, err := request.RequireString("asset_name")
		if err != nil || assetName == "" {
			return errorResult("Error: asset_name parameter is required"), nil
		}

		assetType := models.AssetType(request.GetString("asset_type", ""))
		if assetType != models.AssetTypeCrypto && assetType != models.AssetTypeForex {
			return errorResult(fmt.Sprintf("Error: asset_type must be %q or %q", models.AssetTypeCrypto, models.AssetTypeForex)), nil
		}

		result, err := service.RequestNewsAnalysis(ctx, assetName, assetType)
		if err != nil {
			logger.Error().Err(err).Str("asset", assetName).Msg("News analysis failed")
			return errorResult(analysis.UserMessage(service.ProviderType(), err)), nil
		}

		return textResult(formatNews(assetName, result)), nil
	}
}
