package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetTradingSignalsTool returns the get_trading_signals tool definition
func createGetTradingSignalsTool() mcp.Tool {
	return mcp.NewTool("get_trading_signals",
		mcp.WithDescription("Get web-grounded trading signals for crypto tickers or forex pairs, ranked from Strong Buy to Strong Sell"),
		mcp.WithString("tickers",
			mcp.Required(),
			mcp.Description("Tickers or pairs separated by commas or spaces (e.g. BTC, ETH, EURUSD)"),
		),
	)
}

// createGetNewsAnalysisTool returns the get_news_analysis tool definition
func createGetNewsAnalysisTool() mcp.Tool {
	return mcp.NewTool("get_news_analysis",
		mcp.WithDescription("Summarise the latest news for one asset and rate its short-term outlook"),
		mcp.WithString("asset_name",
			mcp.Required(),
			mcp.Description("Asset name as shown on a signal, e.g. \"Bitcoin (BTC)\" or \"EUR/USD\""),
		),
		mcp.WithString("asset_type",
			mcp.Required(),
			mcp.Enum("crypto", "forex"),
			mcp.Description("crypto or forex"),
		),
	)
}
