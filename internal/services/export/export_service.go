package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/common"
	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
)

// Service implements the export engine: PPTX packages built shape by
// shape, and PDFs assembled from headless-Chrome rasters of the same HTML
// the preview serves. Stale raster artifacts are swept on a cron schedule.
type Service struct {
	themes     interfaces.ThemeService
	events     interfaces.EventService
	rasterizer *rasterizer
	workDir    string
	maxAge     time.Duration
	cron       *cron.Cron
	logger     arbor.ILogger
}

var _ interfaces.ExportService = (*Service)(nil)

func NewService(cfg *common.ExportConfig, renderer interfaces.RenderService, themes interfaces.ThemeService, events interfaces.EventService, logger arbor.ILogger) (*Service, error) {
	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export work directory: %w", err)
	}

	chromeTimeout, err := time.ParseDuration(cfg.ChromeTimeout)
	if err != nil || chromeTimeout <= 0 {
		chromeTimeout = 30 * time.Second
	}
	maxAge, err := time.ParseDuration(cfg.MaxArtifactAge)
	if err != nil || maxAge <= 0 {
		maxAge = 2 * time.Hour
	}

	s := &Service{
		themes:     themes,
		events:     events,
		rasterizer: newRasterizer(renderer, cfg.WorkDir, cfg.PageWidth, cfg.PageHeight, chromeTimeout, logger),
		workDir:    cfg.WorkDir,
		maxAge:     maxAge,
		cron:       cron.New(),
		logger:     logger,
	}

	schedule := cfg.CleanupSchedule
	if schedule == "" {
		schedule = "@every 30m"
	}
	if _, err := s.cron.AddFunc(schedule, s.cleanup); err != nil {
		return nil, fmt.Errorf("invalid export cleanup schedule %q: %w", schedule, err)
	}
	s.cron.Start()

	logger.Info().
		Str("work_dir", cfg.WorkDir).
		Str("cleanup_schedule", schedule).
		Msg("Export service initialized")
	return s, nil
}

// ExportPPTX builds an Office Open XML presentation package for the deck.
func (s *Service) ExportPPTX(ctx context.Context, deck *models.Deck) ([]byte, error) {
	if deck == nil || len(deck.Slides) == 0 {
		return nil, models.ErrEmptyDeck
	}

	s.publish(ctx, interfaces.EventExportStarted, map[string]interface{}{"format": "pptx", "slides": len(deck.Slides)})
	start := time.Now()

	writer := newPPTXWriter(s.resolveTheme(deck), s.logger)
	data, err := writer.write(ctx, deck)
	if err != nil {
		return nil, fmt.Errorf("pptx export failed: %w", err)
	}

	s.logger.Info().
		Int("slides", len(deck.Slides)).
		Int("bytes", len(data)).
		Str("duration", time.Since(start).String()).
		Msg("PPTX export complete")
	s.publish(ctx, interfaces.EventExportComplete, map[string]interface{}{"format": "pptx", "bytes": len(data)})
	return data, nil
}

// ExportPDF rasterizes each slide at canvas resolution and emits one
// landscape page per slide.
func (s *Service) ExportPDF(ctx context.Context, deck *models.Deck) ([]byte, error) {
	if deck == nil || len(deck.Slides) == 0 {
		return nil, models.ErrEmptyDeck
	}

	s.publish(ctx, interfaces.EventExportStarted, map[string]interface{}{"format": "pdf", "slides": len(deck.Slides)})
	start := time.Now()

	data, err := s.rasterizer.exportPDF(ctx, deck, s.resolveTheme(deck))
	if err != nil {
		return nil, fmt.Errorf("pdf export failed: %w", err)
	}

	s.logger.Info().
		Int("slides", len(deck.Slides)).
		Int("bytes", len(data)).
		Str("duration", time.Since(start).String()).
		Msg("PDF export complete")
	s.publish(ctx, interfaces.EventExportComplete, map[string]interface{}{"format": "pdf", "bytes": len(data)})
	return data, nil
}

func (s *Service) Close() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}

func (s *Service) resolveTheme(deck *models.Deck) *models.Theme {
	if deck.Theme != "" {
		return s.themes.Get(deck.Theme)
	}
	return s.themes.Default()
}

func (s *Service) publish(ctx context.Context, eventType interfaces.EventType, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).Str("event", string(eventType)).Msg("Failed to publish export event")
	}
}

// cleanup removes raster artifacts that outlived an abandoned export.
func (s *Service) cleanup() {
	cutoff := time.Now().Add(-s.maxAge)
	entries, err := os.ReadDir(s.workDir)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to scan export work directory")
		return
	}

	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.workDir, entry.Name())); err != nil {
			s.logger.Warn().Err(err).Str("artifact", entry.Name()).Msg("Failed to remove stale export artifact")
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Cleaned up stale export artifacts")
	}
}
