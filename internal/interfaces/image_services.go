package interfaces

import (
	"context"

	"github.com/ternarybob/prezo/internal/models"
)

// ImageCacheService stores generated cover images keyed by a digest of
// their prompt, so regenerating a deck does not re-bill identical prompts.
type ImageCacheService interface {
	// Get returns the cached data URL for the prompt, or "" and false.
	Get(ctx context.Context, prompt string) (string, bool)

	// Put stores the data URL for the prompt.
	Put(ctx context.Context, prompt string, dataURL string) error

	// Count returns the number of cached images.
	Count() (int, error)

	Close() error
}

// ImageSearchService queries a stock-photo provider for candidate images
// the user can assign to a slide.
type ImageSearchService interface {
	// Search returns up to one page of candidates for the query.
	Search(ctx context.Context, query string, page int) ([]models.ImageCandidate, error)
}
