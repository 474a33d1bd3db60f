package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/newsletter-portal/internal/common"
	"github.com/bobmcallan/newsletter-portal/internal/config"
	"github.com/bobmcallan/newsletter-portal/internal/data"
	"github.com/bobmcallan/newsletter-portal/internal/handlers"
	"github.com/bobmcallan/newsletter-portal/internal/mcp"
	"github.com/bobmcallan/newsletter-portal/internal/render"
	"github.com/bobmcallan/newsletter-portal/internal/storage"
	"github.com/bobmcallan/newsletter-portal/pages"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Data       *data.Source
	Newsletter *render.Newsletter
	Storage    *storage.RequestStorage

	// HTTP handlers
	NewsletterHandler *handlers.NewsletterHandler
	ThemeHandler      *handlers.ThemeHandler
	HealthHandler     *handlers.HealthHandler
	VersionHandler    *handlers.VersionHandler
	StaticHandler     http.Handler
	MCPHandler        *mcp.Handler
}

// New initializes the application with all dependencies. The newsletter
// documents are read and rendered once here; any problem with them is
// returned and must abort startup.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	// Validate environment setting
	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("running in dev mode")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	if err := a.initNewsletter(); err != nil {
		return nil, err
	}

	rs, err := storage.NewRequestStorage(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = rs

	if err := a.initHandlers(); err != nil {
		a.Storage.Close()
		return nil, err
	}

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initNewsletter loads the documents and composes the page.
func (a *App) initNewsletter() error {
	loc, err := a.Config.Location()
	if err != nil {
		return err
	}

	src, err := data.Load(a.Config.Data, loc)
	if err != nil {
		return fmt.Errorf("failed to load newsletter data: %w", err)
	}
	dates, err := src.GetDates()
	if err != nil {
		return fmt.Errorf("failed to read newsletter dates: %w", err)
	}

	page, err := render.NewNewsletter(src.GetTables(), dates, render.Branding{
		Title:      a.Config.Display.Title,
		BrandURL:   a.Config.Display.BrandURL,
		BrandLabel: a.Config.Display.BrandLabel,
	})
	if err != nil {
		return err
	}

	a.Data = src
	a.Newsletter = page

	a.Logger.Info().
		Int("sections", page.Sections()).
		Str("newsletter_date", dates.NewsletterDate).
		Str("updated_at", dates.UpdatedAt).
		Msg("newsletter loaded")
	return nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() error {
	a.NewsletterHandler = handlers.NewNewsletterHandler(a.Logger, a.Newsletter)
	a.ThemeHandler = handlers.NewThemeHandler(a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	static, err := handlers.StaticHandler(pages.FS)
	if err != nil {
		return fmt.Errorf("failed to initialize static files: %w", err)
	}
	a.StaticHandler = static

	if a.Config.MCP.Enabled {
		a.MCPHandler = mcp.NewHandler(a.Data, a.Logger)
	}

	a.Logger.Debug().Msg("HTTP handlers initialized")
	return nil
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
