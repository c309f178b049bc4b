package generator

import (
	"math/rand"
	"strings"

	"github.com/ternarybob/prezo/internal/common"
	"github.com/ternarybob/prezo/internal/models"
)

// normalizeDeck turns the provider's untrusted raw deck into the canonical
// form the rest of the system trusts:
//   - every slide gets a fresh identity
//   - unknown layout tags are coerced to the default layout
//   - bare-string content has already been wrapped by models.FlexStrings;
//     nil content becomes an empty sequence
//   - image+content slides get a random horizontal image position
//   - image prompts on infographic layouts are dropped, since those slides
//     never show a photographic image
//   - slides beyond maxSlides are discarded
func normalizeDeck(title string, raw *models.RawDeck, maxSlides int) *models.Deck {
	deck := &models.Deck{Title: title}
	if raw == nil {
		return deck
	}

	for _, rs := range raw.Slides {
		if maxSlides > 0 && len(deck.Slides) >= maxSlides {
			break
		}

		slide := normalizeSlide(rs)
		if slide == nil {
			continue
		}
		deck.Slides = append(deck.Slides, slide)
	}

	if deck.Title == "" && len(deck.Slides) > 0 {
		deck.Title = deck.Slides[0].Title
	}
	return deck
}

func normalizeSlide(rs models.RawSlide) *models.Slide {
	title := strings.TrimSpace(rs.Title)
	content := []string(rs.Content)
	if title == "" && len(content) == 0 {
		return nil
	}
	if title == "" {
		title = "Untitled Slide"
	}
	if content == nil {
		content = []string{}
	}

	layout := models.ParseLayout(rs.Layout)

	slide := &models.Slide{
		ID:      common.NewSlideID(),
		Title:   title,
		Content: content,
		Layout:  layout,
	}

	if layout.Infographic() {
		return slide
	}

	slide.ImagePrompt = strings.TrimSpace(rs.ImagePrompt)
	if layout.AdjustableImage() {
		slide.ImagePosition = randomPosition()
	}
	return slide
}

// randomPosition varies the image placement so consecutive generated slides
// do not all hang their image on the same side.
func randomPosition() models.ImagePosition {
	return models.AllImagePositions[rand.Intn(len(models.AllImagePositions))]
}
