package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGeneratePresentationTool returns the generate_presentation tool definition
func createGeneratePresentationTool() mcp.Tool {
	return mcp.NewTool("generate_presentation",
		mcp.WithDescription("Generate a slide deck from a topic or source text and open an editing session"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Topic or source text to build the presentation from"),
		),
		mcp.WithNumber("slide_count",
			mcp.Description("Requested number of slides (default: 10)"),
		),
		mcp.WithString("theme",
			mcp.Description("Theme name (default: configured default theme)"),
		),
	)
}

// createGetDeckTool returns the get_deck tool definition
func createGetDeckTool() mcp.Tool {
	return mcp.NewTool("get_deck",
		mcp.WithDescription("Retrieve the current deck of an editing session as a slide outline"),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID returned by generate_presentation"),
		),
	)
}

// createUpdateSlideTool returns the update_slide tool definition
func createUpdateSlideTool() mcp.Tool {
	return mcp.NewTool("update_slide",
		mcp.WithDescription("Update a slide's title, layout or content items"),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("slide_id",
			mcp.Required(),
			mcp.Description("Slide ID to update"),
		),
		mcp.WithString("title",
			mcp.Description("New slide title"),
		),
		mcp.WithString("layout",
			mcp.Description("New layout tag (e.g. default, timeline, bar-chart)"),
		),
		mcp.WithArray("content",
			mcp.WithStringItems(),
			mcp.Description("Replacement content items in the slide's packed string form"),
		),
	)
}

// createExportPresentationTool returns the export_presentation tool definition
func createExportPresentationTool() mcp.Tool {
	return mcp.NewTool("export_presentation",
		mcp.WithDescription("Export a session's deck to a PPTX or PDF file on disk"),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID"),
		),
		mcp.WithString("format",
			mcp.Required(),
			mcp.Description("Export format: pptx or pdf"),
		),
		mcp.WithString("output_path",
			mcp.Required(),
			mcp.Description("Destination file path"),
		),
	)
}
