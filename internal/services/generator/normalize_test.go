package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/prezo/internal/models"
)

func TestNormalizeDeck(t *testing.T) {
	raw := &models.RawDeck{Slides: []models.RawSlide{
		{Title: "Intro", Content: models.FlexStrings{"welcome"}, ImagePrompt: "a sunrise", Layout: "title"},
		{Title: "Agenda", Content: models.FlexStrings{"a", "b"}, ImagePrompt: "a desk", Layout: "default"},
		{Title: "Org", Content: models.FlexStrings{`{"name":"CEO"}`}, ImagePrompt: "should vanish", Layout: "hierarchy"},
		{Title: "Odd", Content: models.FlexStrings{"x"}, Layout: "totally-made-up"},
	}}

	deck := normalizeDeck("", raw, 0)
	require.Len(t, deck.Slides, 4)

	// deck title falls back to the first slide
	assert.Equal(t, "Intro", deck.Title)

	for _, s := range deck.Slides {
		assert.NotEmpty(t, s.ID)
		assert.Contains(t, s.ID, "slide_")
	}

	assert.Equal(t, models.LayoutTitle, deck.Slides[0].Layout)
	assert.Equal(t, "a sunrise", deck.Slides[0].ImagePrompt)
	// title is full-width, so no adjustable position is assigned
	assert.Empty(t, deck.Slides[0].ImagePosition)

	// image+content slides get one of the four adjustable positions
	assert.Contains(t, models.AllImagePositions, deck.Slides[1].ImagePosition)

	// infographic layouts never carry an image prompt
	assert.Empty(t, deck.Slides[2].ImagePrompt)

	// unknown layout tags are coerced to default
	assert.Equal(t, models.LayoutDefault, deck.Slides[3].Layout)
}

func TestRandomPositionCoversAllPositions(t *testing.T) {
	seen := map[models.ImagePosition]bool{}
	for i := 0; i < 400; i++ {
		seen[randomPosition()] = true
	}
	for _, pos := range models.AllImagePositions {
		assert.True(t, seen[pos], "position %s never chosen", pos)
	}
}

func TestNormalizeDeckDropsEmptySlides(t *testing.T) {
	raw := &models.RawDeck{Slides: []models.RawSlide{
		{Title: "", Content: nil, Layout: "default"},
		{Title: "Kept", Content: models.FlexStrings{"point"}, Layout: "default"},
		{Title: "", Content: models.FlexStrings{"content without title"}, Layout: "default"},
	}}

	deck := normalizeDeck("Given", raw, 0)
	require.Len(t, deck.Slides, 2)
	assert.Equal(t, "Given", deck.Title)
	assert.Equal(t, "Kept", deck.Slides[0].Title)
	assert.Equal(t, "Untitled Slide", deck.Slides[1].Title)
}

func TestNormalizeDeckRespectsMaxSlides(t *testing.T) {
	raw := &models.RawDeck{}
	for i := 0; i < 10; i++ {
		raw.Slides = append(raw.Slides, models.RawSlide{
			Title: "S", Content: models.FlexStrings{"x"}, Layout: "default",
		})
	}

	deck := normalizeDeck("", raw, 3)
	assert.Len(t, deck.Slides, 3)
}

func TestNormalizeDeckNilRaw(t *testing.T) {
	deck := normalizeDeck("", nil, 0)
	assert.Empty(t, deck.Slides)
}
