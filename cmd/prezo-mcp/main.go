package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/ternarybob/prezo/internal/app"
	"github.com/ternarybob/prezo/internal/common"
)

func main() {
	configPath := os.Getenv("PREZO_CONFIG")
	if configPath == "" {
		configPath = "prezo.toml"
	}

	var (
		config *common.Config
		err    error
	)
	if _, statErr := os.Stat(configPath); statErr == nil {
		config, err = common.LoadFromFiles(configPath)
	} else {
		config, err = common.LoadFromFiles()
	}
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

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	mcpServer := server.NewMCPServer(
		"prezo",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createGeneratePresentationTool(), handleGeneratePresentation(application, logger))
	mcpServer.AddTool(createGetDeckTool(), handleGetDeck(application, logger))
	mcpServer.AddTool(createUpdateSlideTool(), handleUpdateSlide(application, logger))
	mcpServer.AddTool(createExportPresentationTool(), handleExportPresentation(application, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
