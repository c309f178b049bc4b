package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/prezo/internal/models"
)

// formatDeck formats a deck outline as markdown
func formatDeck(sessionID string, deck *models.Deck) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", deck.Title))
	sb.WriteString(fmt.Sprintf("**Session:** %s\n", sessionID))
	if deck.Theme != "" {
		sb.WriteString(fmt.Sprintf("**Theme:** %s\n", deck.Theme))
	}
	sb.WriteString(fmt.Sprintf("**Slides:** %d\n\n", len(deck.Slides)))

	for i, slide := range deck.Slides {
		sb.WriteString(fmt.Sprintf("### %d. %s\n", i+1, slide.Title))
		sb.WriteString(fmt.Sprintf("**ID:** %s\n", slide.ID))
		sb.WriteString(fmt.Sprintf("**Layout:** %s\n", slide.Layout))
		if slide.ImageURL != "" {
			sb.WriteString(fmt.Sprintf("**Image:** %s (%s)\n", slide.ImageURL, slide.ImagePosition))
		} else if slide.ImagePrompt != "" {
			sb.WriteString(fmt.Sprintf("**Image prompt:** %s\n", slide.ImagePrompt))
		}
		if len(slide.Content) > 0 {
			sb.WriteString("\n")
			for _, line := range slide.Content {
				if len(line) > 120 {
					line = line[:120] + "..."
				}
				sb.WriteString(fmt.Sprintf("- %s\n", line))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
