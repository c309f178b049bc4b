package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
)

// rasterizer turns slide HTML into PNG pages with headless Chrome and
// assembles them into a landscape PDF. One browser process is shared by
// all pages of an export; slides render in separate tabs.
type rasterizer struct {
	renderer interfaces.RenderService
	workDir  string
	width    int
	height   int
	timeout  time.Duration
	logger   arbor.ILogger
}

func newRasterizer(renderer interfaces.RenderService, workDir string, width, height int, timeout time.Duration, logger arbor.ILogger) *rasterizer {
	return &rasterizer{
		renderer: renderer,
		workDir:  workDir,
		width:    width,
		height:   height,
		timeout:  timeout,
		logger:   logger,
	}
}

// exportPDF rasterizes each slide and assembles one PDF page per slide.
// A slide whose raster fails becomes a placeholder page; the export only
// fails outright when the browser cannot start or no page succeeds.
func (r *rasterizer) exportPDF(ctx context.Context, deck *models.Deck, theme *models.Theme) ([]byte, error) {
	if len(deck.Slides) == 0 {
		return nil, models.ErrEmptyDeck
	}

	jobDir, err := os.MkdirTemp(r.workDir, "export-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create export work directory: %w", err)
	}
	defer os.RemoveAll(jobDir)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("hide-scrollbars", true),
	)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// warm up the browser process before the per-slide deadline applies
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: float64(r.width) / 2, Ht: float64(r.height) / 2},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	rendered := 0
	for i, slide := range deck.Slides {
		png, err := r.rasterSlide(browserCtx, jobDir, i, slide, theme)
		if err != nil {
			r.logger.Warn().Err(err).Str("slide_id", slide.ID).Int("index", i).Msg("Slide raster failed, emitting placeholder page")
			r.placeholderPage(pdf, slide, theme)
			continue
		}

		name := fmt.Sprintf("slide-%d", i)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, float64(r.width)/2, float64(r.height)/2, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		rendered++
	}

	if rendered == 0 {
		return nil, fmt.Errorf("no slide could be rasterized")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to assemble PDF: %w", err)
	}

	if err := api.Validate(bytes.NewReader(buf.Bytes()), model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("assembled PDF failed validation: %w", err)
	}
	return buf.Bytes(), nil
}

// rasterSlide writes the slide HTML into the job directory and screenshots
// it at canvas size in a fresh tab.
func (r *rasterizer) rasterSlide(browserCtx context.Context, jobDir string, index int, slide *models.Slide, theme *models.Theme) ([]byte, error) {
	html, err := r.renderer.RenderSlide(slide, theme)
	if err != nil {
		return nil, fmt.Errorf("failed to render slide: %w", err)
	}

	pagePath := filepath.Join(jobDir, fmt.Sprintf("slide-%d.html", index))
	if err := os.WriteFile(pagePath, []byte(html), 0644); err != nil {
		return nil, fmt.Errorf("failed to write slide page: %w", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.timeout)
	defer cancelTimeout()

	var png []byte
	err = chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(r.width), int64(r.height)),
		chromedp.Navigate("file://"+pagePath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var captureErr error
			png, captureErr = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				Do(ctx)
			return captureErr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture slide: %w", err)
	}
	return png, nil
}

// placeholderPage emits a plain page carrying the slide title so a raster
// failure never shifts page numbering.
func (r *rasterizer) placeholderPage(pdf *fpdf.Fpdf, slide *models.Slide, theme *models.Theme) {
	w, h := float64(r.width)/2, float64(r.height)/2
	bg := hexRGB(theme.Background)
	fg := hexRGB(theme.TextPrimary)

	pdf.AddPage()
	pdf.SetFillColor(bg[0], bg[1], bg[2])
	pdf.Rect(0, 0, w, h, "F")
	pdf.SetTextColor(fg[0], fg[1], fg[2])
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetXY(0, h/2-20)
	pdf.CellFormat(w, 40, pdf.UnicodeTranslatorFromDescriptor("")(slide.Title), "", 0, "C", false, 0, "")
}

func hexRGB(hex string) [3]int {
	var r, g, b int
	if _, err := fmt.Sscanf(up(hex), "%02X%02X%02X", &r, &g, &b); err != nil {
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
