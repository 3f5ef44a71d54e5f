package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/common"
	"github.com/ternarybob/jigoor/internal/handlers"
	"github.com/ternarybob/jigoor/internal/services/analysis"
	"github.com/ternarybob/jigoor/internal/services/llm"
	"github.com/ternarybob/jigoor/internal/services/thirdparty"
	"github.com/ternarybob/jigoor/internal/session"
)

const sessionIdleTimeout = 2 * time.Hour

// App holds all application components and dependencies
type App struct {
	Config    *common.Config
	Logger    arbor.ILogger
	ctx       context.Context
	cancelCtx context.CancelFunc

	// AI provider, shared by the signal and news services. Nil when ConfigError is set.
	Provider    llm.Provider
	ConfigError *handlers.ConfigErrorInfo

	SignalService     *analysis.SignalService
	NewsService       *analysis.NewsService
	ThirdPartyService *thirdparty.Service
	Sessions          *session.Store
	Pruner            *session.Pruner

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	PageHandler    *handlers.PageHandler
	SessionHandler *handlers.SessionHandler
	WSHandler      *handlers.WebSocketHandler
}

// New initializes the application with all dependencies.
// A missing API key is not fatal: the app starts and serves the configuration error screen.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config:    cfg,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	if err := app.initServices(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initHandlers(); err != nil {
		cancel()
		app.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	app.Pruner = session.NewPruner(app.Sessions, sessionIdleTimeout, logger)
	if err := app.Pruner.Start(session.DefaultPruneSchedule); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to start session pruner: %w", err)
	}

	logger.Info().
		Str("provider", string(cfg.LLM.DefaultProvider)).
		Bool("configured", app.ConfigError == nil).
		Str("data_source", cfg.Signals.DataSource).
		Msg("Application initialization complete")

	return app, nil
}

func (a *App) initServices() error {
	provider, err := llm.NewProvider(a.ctx, a.Config, a.Logger)
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		providerType := llm.ProviderType(a.Config.LLM.DefaultProvider)
		a.ConfigError = &handlers.ConfigErrorInfo{
			ProviderName:  providerType.DisplayName(),
			EnvVars:       a.Config.APIKeyEnvVars(),
			ConfigSection: string(providerType),
			Details:       err.Error(),
		}
		a.Logger.Error().
			Str("provider", string(providerType)).
			Strs("env_vars", a.ConfigError.EnvVars).
			Msg("API key missing - serving configuration error screen")
	case err != nil:
		return fmt.Errorf("failed to create LLM provider: %w", err)
	default:
		a.Provider = provider
		a.SignalService = analysis.NewSignalService(provider, a.Logger)
		a.NewsService = analysis.NewNewsService(provider, a.Logger)
		a.Logger.Info().Str("provider", string(provider.GetProviderType())).Msg("LLM provider initialized")
	}

	thirdParty, err := thirdparty.NewService(&a.Config.ThirdParty, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create third-party service: %w", err)
	}
	a.ThirdPartyService = thirdParty

	deps := session.Dependencies{
		ThirdParty: thirdParty,
		Logger:     a.Logger,
	}
	if a.ConfigError == nil {
		deps.Signals = a.SignalService
		deps.News = a.NewsService
	}
	a.Sessions = session.NewStore(deps, a.Config.Signals, a.Logger)

	return nil
}

func (a *App) initHandlers() error {
	providerType := llm.ProviderType(a.Config.LLM.DefaultProvider)
	providerLabel := providerType.DisplayName() + " AI"

	configError := ""
	if a.ConfigError != nil {
		configError = a.ConfigError.Details
	}

	a.APIHandler = handlers.NewAPIHandler(a.Logger, a.Sessions, string(providerType), configError)

	pageHandler, err := handlers.NewPageHandler(a.Logger, providerLabel, a.Config.Signals.SignalCount, a.ConfigError)
	if err != nil {
		return err
	}
	a.PageHandler = pageHandler

	presenter := handlers.Presenter{
		CADRate:       a.Config.Signals.USDToCADRate,
		ProviderLabel: providerLabel,
	}
	a.SessionHandler = handlers.NewSessionHandler(a.ctx, a.Sessions, presenter, a.Logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.Sessions, presenter, a.Logger)
	a.Sessions.SetNotifier(a.WSHandler)

	return nil
}

// Close cancels background work and releases the AI provider
func (a *App) Close() error {
	if a.cancelCtx != nil {
		a.Logger.Info().Msg("Cancelling background goroutines")
		a.cancelCtx()
	}

	if a.Pruner != nil {
		a.Pruner.Stop()
	}

	if a.Provider != nil {
		if err := a.Provider.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM provider")
		} else {
			a.Logger.Info().Msg("LLM provider closed")
		}
	}

	return nil
}
