// Package source extracts generation input text from uploaded PDFs and web
// pages. The extracted text feeds the deck generator exactly as if the user
// had typed it.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/httpclient"
	"github.com/ternarybob/prezo/internal/interfaces"
)

// maxPDFSize caps uploaded PDFs at 25 MB.
const maxPDFSize = 25 << 20

// Service implements interfaces.SourceService.
type Service struct {
	client  *http.Client
	tempDir string
	logger  arbor.ILogger
}

// NewService creates a source extraction service.
func NewService(logger arbor.ILogger) *Service {
	tempDir := filepath.Join(os.TempDir(), "prezo-source")
	os.MkdirAll(tempDir, 0755)

	return &Service{
		client:  httpclient.NewDefaultHTTPClient(30 * time.Second),
		tempDir: tempDir,
		logger:  logger,
	}
}

// FromPDF extracts the text content of a PDF document.
func (s *Service) FromPDF(ctx context.Context, r io.Reader, size int64) (string, error) {
	if size > maxPDFSize {
		return "", fmt.Errorf("PDF exceeds maximum size of %d bytes", int64(maxPDFSize))
	}

	content, err := io.ReadAll(io.LimitReader(r, maxPDFSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}
	if len(content) > maxPDFSize {
		return "", fmt.Errorf("PDF exceeds maximum size of %d bytes", int64(maxPDFSize))
	}

	// pdfcpu works on files, so round-trip through the temp directory
	tempFile := filepath.Join(s.tempDir, fmt.Sprintf("upload_%d.pdf", time.Now().UnixNano()))
	if err := os.WriteFile(tempFile, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	outDir := filepath.Join(s.tempDir, fmt.Sprintf("pages_%d", time.Now().UnixNano()))
	os.MkdirAll(outDir, 0755)
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract PDF content: %w", err)
	}

	text := collectExtractedText(outDir)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no extractable text in PDF (%d pages)", pdfCtx.PageCount)
	}

	s.logger.Debug().
		Int("pages", pdfCtx.PageCount).
		Int("bytes", len(text)).
		Msg("Extracted text from PDF")

	return text, nil
}

// collectExtractedText concatenates the per-page content files pdfcpu wrote,
// in page order.
func collectExtractedText(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var builder strings.Builder
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.Write(content)
	}
	return builder.String()
}

// FromURL fetches a web page and converts its main content to markdown.
func (s *Service) FromURL(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("URL must use http or https: %s", url)
	}

	resp, err := httpclient.Get(ctx, s.client, url, map[string]string{
		"Accept":          "text/html,application/xhtml+xml",
		"Accept-Language": "en-US,en;q=0.9",
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("URL fetch failed with status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()

	// Prefer the main content container when the page declares one
	selection := doc.Find("main, article, [role=main]").First()
	if selection.Length() == 0 {
		selection = doc.Find("body")
	}

	html, err := selection.Html()
	if err != nil {
		return "", fmt.Errorf("failed to extract page content: %w", err)
	}

	converter := md.NewConverter(url, true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert page to markdown: %w", err)
	}

	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return "", fmt.Errorf("page has no extractable content")
	}

	s.logger.Debug().
		Str("url", url).
		Int("bytes", len(markdown)).
		Msg("Extracted markdown from URL")

	return markdown, nil
}

var _ interfaces.SourceService = (*Service)(nil)
