package interfaces

import "github.com/ternarybob/prezo/internal/models"

// RenderService produces the standalone HTML rendition of a slide. The
// same markup backs the preview endpoint and the PDF exporter's raster
// pages, so the two can never drift apart.
type RenderService interface {
	// RenderSlide renders one slide as a complete HTML document sized to
	// the presentation canvas.
	RenderSlide(slide *models.Slide, theme *models.Theme) (string, error)

	// RenderDeck renders the whole deck as one paged HTML document.
	RenderDeck(deck *models.Deck, theme *models.Theme) (string, error)
}

// ThemeService resolves named themes.
type ThemeService interface {
	// Get returns the theme by name, falling back to the default theme
	// for unknown names.
	Get(name string) *models.Theme

	// List returns all available themes.
	List() []*models.Theme

	// Default returns the configured default theme.
	Default() *models.Theme
}
