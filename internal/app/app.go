package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/common"
	"github.com/ternarybob/prezo/internal/handlers"
	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/services/events"
	"github.com/ternarybob/prezo/internal/services/export"
	"github.com/ternarybob/prezo/internal/services/generator"
	"github.com/ternarybob/prezo/internal/services/imagecache"
	"github.com/ternarybob/prezo/internal/services/imagesearch"
	"github.com/ternarybob/prezo/internal/services/render"
	"github.com/ternarybob/prezo/internal/services/session"
	"github.com/ternarybob/prezo/internal/services/source"
	"github.com/ternarybob/prezo/internal/services/theme"
)

// App holds all application components and dependencies
type App struct {
	Config    *common.Config
	Logger    arbor.ILogger
	ctx       context.Context
	cancelCtx context.CancelFunc

	// Core services
	EventService     interfaces.EventService
	ThemeService     interfaces.ThemeService
	ImageCache       interfaces.ImageCacheService
	GeneratorService interfaces.GeneratorService
	SessionService   interfaces.SessionService
	RenderService    interfaces.RenderService
	ExportService    *export.Service
	SourceService    interfaces.SourceService
	ImageSearch      interfaces.ImageSearchService

	// HTTP handlers
	APIHandler         *handlers.APIHandler
	GenerateHandler    *handlers.GenerateHandler
	SessionHandler     *handlers.SessionHandler
	PreviewHandler     *handlers.PreviewHandler
	ExportHandler      *handlers.ExportHandler
	ImageSearchHandler *handlers.ImageSearchHandler
	WSHandler          *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	if logger == nil {
		logger = common.GetLogger()
	}

	app := &App{
		Config: cfg,
		Logger: logger,
	}
	app.ctx, app.cancelCtx = context.WithCancel(context.Background())

	app.EventService = events.NewService(logger)

	themeService, err := theme.NewService(cfg.Themes.Dir, cfg.Themes.Default, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize theme service: %w", err)
	}
	app.ThemeService = themeService

	if err := app.initImageCache(); err != nil {
		return nil, err
	}

	provider, imageGen, err := generator.NewProvider(app.ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation provider: %w", err)
	}
	app.GeneratorService = generator.NewService(cfg, provider, imageGen, app.ImageCache, app.EventService, logger)

	ttl, err := time.ParseDuration(cfg.Sessions.TTL)
	if err != nil || ttl <= 0 {
		ttl = 4 * time.Hour
	}
	sessionManager, err := session.NewManager(ttl, cfg.Sessions.SweepSchedule, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}
	app.SessionService = sessionManager

	app.RenderService = render.NewRenderer(logger)
	app.SourceService = source.NewService(logger)

	exportService, err := export.NewService(&cfg.Export, app.RenderService, app.ThemeService, app.EventService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize export service: %w", err)
	}
	app.ExportService = exportService

	// Image search stays nil without a key; its handler reports 503.
	if cfg.ImageSearch.PexelsAPIKey != "" {
		app.ImageSearch = imagesearch.NewService(cfg.ImageSearch.PexelsAPIKey, cfg.ImageSearch.PerPage, logger)
	} else {
		logger.Info().Msg("Pexels API key not configured, image search disabled")
	}

	app.initHandlers()

	logger.Info().
		Str("provider", app.GeneratorService.Provider()).
		Int("themes", len(app.ThemeService.List())).
		Msg("Application initialized")
	return app, nil
}

func (a *App) initImageCache() error {
	path := a.Config.Storage.Badger.Path
	if a.Config.Storage.Badger.ResetOnStartup {
		a.Logger.Warn().Str("path", path).Msg("Resetting image cache on startup")
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to reset image cache: %w", err)
		}
	}

	cache, err := imagecache.NewService(path, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize image cache: %w", err)
	}
	a.ImageCache = cache
	return nil
}

func (a *App) initHandlers() {
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, a.Logger)
	a.APIHandler = handlers.NewAPIHandler(a.GeneratorService, a.ImageCache, a.SessionService, a.Logger)
	a.GenerateHandler = handlers.NewGenerateHandler(a.GeneratorService, a.SessionService, a.SourceService, a.Logger)
	a.SessionHandler = handlers.NewSessionHandler(a.SessionService, a.Logger)
	a.PreviewHandler = handlers.NewPreviewHandler(a.SessionService, a.RenderService, a.ThemeService, a.Logger)
	a.ExportHandler = handlers.NewExportHandler(a.SessionService, a.ExportService, a.Logger)
	a.ImageSearchHandler = handlers.NewImageSearchHandler(a.ImageSearch, a.Logger)
}

// Close shuts down all services in reverse dependency order.
func (a *App) Close() error {
	a.Logger.Info().Msg("Shutting down application services")
	a.cancelCtx()

	if a.ExportService != nil {
		if err := a.ExportService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close export service")
		}
	}
	if a.SessionService != nil {
		if err := a.SessionService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close session manager")
		}
	}
	if a.GeneratorService != nil {
		if err := a.GeneratorService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close generator service")
		}
	}
	if a.ImageCache != nil {
		if err := a.ImageCache.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close image cache")
		}
	}
	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
