// Package interfaces provides service interfaces for dependency injection.
package interfaces

import (
	"context"

	"github.com/ternarybob/prezo/internal/models"
)

// DeckProvider is one backing generative model capable of turning a topic
// or transcript into a raw slide deck. Implementations exist for the
// Gemini and Claude APIs; the generator service picks one from config.
type DeckProvider interface {
	// GenerateDeck produces an untrusted raw deck for the request. The
	// response has not been normalized: layouts, content shapes and IDs
	// are all suspect until the generator service cleans them.
	GenerateDeck(ctx context.Context, req models.GenerateRequest) (*models.RawDeck, error)

	// Name returns the provider identifier used in logs and the version
	// endpoint ("gemini", "claude").
	Name() string

	// HealthCheck verifies the provider is configured and reachable.
	HealthCheck(ctx context.Context) error

	// Close releases provider resources.
	Close() error
}

// ImageGenerator produces one cover image for a slide's image prompt,
// returned as a data URL. Providers that cannot generate images return
// ErrImageUnsupported from the service layer.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// GeneratorService orchestrates deck generation end to end: provider call,
// normalization, and the concurrent cover-image fan-out.
type GeneratorService interface {
	// Generate produces a fully normalized deck from text or audio input.
	// Image failures never fail the deck; affected slides keep an empty
	// image URL.
	Generate(ctx context.Context, req models.GenerateRequest) (*models.Deck, error)

	// Provider returns the active provider name.
	Provider() string

	// HealthCheck verifies the active provider is usable.
	HealthCheck(ctx context.Context) error

	Close() error
}
