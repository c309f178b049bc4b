package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/app"
	"github.com/ternarybob/prezo/internal/models"
	"github.com/ternarybob/prezo/internal/services/session"
)

func toolError(format string, args ...interface{}) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(fmt.Sprintf(format, args...)),
		},
	}
}

// handleGeneratePresentation implements the generate_presentation tool
func handleGeneratePresentation(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil || text == "" {
			return toolError("Error: text parameter is required"), nil
		}

		slideCount := request.GetInt("slide_count", 0)
		theme := request.GetString("theme", "")

		deck, err := application.GeneratorService.Generate(ctx, models.GenerateRequest{
			Text:       text,
			SlideCount: slideCount,
		})
		if err != nil {
			logger.Error().Err(err).Msg("Generation failed")
			return toolError("Generation error: %v", err), nil
		}
		if theme != "" {
			deck.Theme = theme
		}

		sess, err := application.SessionService.Create(ctx, deck)
		if err != nil {
			return toolError("Session error: %v", err), nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatDeck(sess.ID, sess.Deck)),
			},
		}, nil
	}
}

// handleGetDeck implements the get_deck tool
func handleGetDeck(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil || sessionID == "" {
			return toolError("Error: session_id parameter is required"), nil
		}

		sess, err := application.SessionService.Get(ctx, sessionID)
		if err != nil {
			return toolError("Session not found: %v", err), nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatDeck(sess.ID, sess.Deck)),
			},
		}, nil
	}
}

// handleUpdateSlide implements the update_slide tool
func handleUpdateSlide(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil || sessionID == "" {
			return toolError("Error: session_id parameter is required"), nil
		}
		slideID, err := request.RequireString("slide_id")
		if err != nil || slideID == "" {
			return toolError("Error: slide_id parameter is required"), nil
		}

		title := request.GetString("title", "")
		layout := request.GetString("layout", "")
		content := request.GetStringSlice("content", nil)

		sess, err := application.SessionService.Update(ctx, sessionID, func(deck *models.Deck) error {
			if title != "" {
				if err := session.SetSlideTitle(slideID, title)(deck); err != nil {
					return err
				}
			}
			if layout != "" {
				if err := session.ChangeLayout(slideID, layout)(deck); err != nil {
					return err
				}
			}
			if content != nil {
				slide := deck.SlideByID(slideID)
				if slide != nil {
					slide.Content = content
				}
			}
			return nil
		})
		if err != nil {
			return toolError("Update failed: %v", err), nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatDeck(sess.ID, sess.Deck)),
			},
		}, nil
	}
}

// handleExportPresentation implements the export_presentation tool
func handleExportPresentation(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil || sessionID == "" {
			return toolError("Error: session_id parameter is required"), nil
		}
		format, err := request.RequireString("format")
		if err != nil {
			return toolError("Error: format parameter is required"), nil
		}
		outputPath, err := request.RequireString("output_path")
		if err != nil || outputPath == "" {
			return toolError("Error: output_path parameter is required"), nil
		}

		sess, err := application.SessionService.Get(ctx, sessionID)
		if err != nil {
			return toolError("Session not found: %v", err), nil
		}

		var data []byte
		switch format {
		case "pptx":
			data, err = application.ExportService.ExportPPTX(ctx, sess.Deck)
		case "pdf":
			data, err = application.ExportService.ExportPDF(ctx, sess.Deck)
		default:
			return toolError("Error: format must be pptx or pdf, got %q", format), nil
		}
		if err != nil {
			logger.Error().Err(err).Str("format", format).Msg("Export failed")
			return toolError("Export error: %v", err), nil
		}

		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return toolError("Failed to write %s: %v", outputPath, err), nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(fmt.Sprintf("Exported %d slides to %s (%d bytes)", len(sess.Deck.Slides), outputPath, len(data))),
			},
		}, nil
	}
}
