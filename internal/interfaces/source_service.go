package interfaces

import (
	"context"
	"io"
)

// SourceService extracts generation input text from the supported source
// kinds. The extracted text feeds the deck generator unchanged.
type SourceService interface {
	// FromPDF extracts the text content of a PDF document.
	FromPDF(ctx context.Context, r io.Reader, size int64) (string, error)

	// FromURL fetches a web page and converts its main content to
	// markdown text.
	FromURL(ctx context.Context, url string) (string, error)
}
