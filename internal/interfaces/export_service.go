package interfaces

import (
	"context"

	"github.com/ternarybob/prezo/internal/models"
)

// ExportService turns a deck into a downloadable artifact. Per-slide
// failures degrade the affected slide (placeholder page or simplified
// shape) instead of failing the artifact.
type ExportService interface {
	// ExportPPTX builds an Office Open XML presentation package.
	ExportPPTX(ctx context.Context, deck *models.Deck) ([]byte, error)

	// ExportPDF rasterizes each slide to one landscape PDF page.
	ExportPDF(ctx context.Context, deck *models.Deck) ([]byte, error)
}
