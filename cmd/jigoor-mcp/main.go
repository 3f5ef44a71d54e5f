package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/ternarybob/jigoor/internal/common"
	"github.com/ternarybob/jigoor/internal/services/analysis"
	"github.com/ternarybob/jigoor/internal/services/llm"
)

func main() {
	var paths []string
	if configPath := os.Getenv("JIGOOR_CONFIG"); configPath != "" {
		paths = append(paths, configPath)
	} else if _, err := os.Stat("jigoor.toml"); err == nil {
		paths = append(paths, "jigoor.toml")
	}

	config, err := common.LoadFromFiles(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	provider, err := llm.NewProvider(context.Background(), config, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s provider: %v (set %v)\n",
			config.LLM.DefaultProvider, err, config.APIKeyEnvVars())
		os.Exit(1)
	}
	defer provider.Close()

	signalService := analysis.NewSignalService(provider, logger)
	newsService := analysis.NewNewsService(provider, logger)

	mcpServer := server.NewMCPServer(
		"jigoor",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createGetTradingSignalsTool(), handleGetTradingSignals(signalService, config.Signals.USDToCADRate, logger))
	mcpServer.AddTool(createGetNewsAnalysisTool(), handleGetNewsAnalysis(newsService, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
