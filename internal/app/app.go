package app

import (
	"context"
	"fmt"

	"github.com/redclay/finwire/internal/common"
	"github.com/redclay/finwire/internal/handlers"
	"github.com/redclay/finwire/internal/interfaces"
	"github.com/redclay/finwire/internal/services/analysis"
	"github.com/redclay/finwire/internal/services/ingest"
	"github.com/redclay/finwire/internal/services/llm"
	"github.com/redclay/finwire/internal/services/retention"
	"github.com/redclay/finwire/internal/services/scheduler"
	"github.com/redclay/finwire/internal/services/source/cls"
	badgerstorage "github.com/redclay/finwire/internal/storage/badger"
	"github.com/ternarybob/arbor"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Domain services
	Source           interfaces.ArticleSource
	IngestService    *ingest.Service
	RetentionService *retention.Service
	AnalysisService  *analysis.Service
	LLMService       interfaces.LLMService
	SchedulerService interfaces.SchedulerService

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	NewsHandler      *handlers.NewsHandler
	AnalysisHandler  *handlers.AnalysisHandler
	SchedulerHandler *handlers.SchedulerHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := badgerstorage.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	source, err := cls.New(&cfg.Source, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize article source: %w", err)
	}
	app.Source = source

	llmService, err := llm.NewService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	app.LLMService = llmService

	app.IngestService = ingest.NewService(source, storageManager.ArticleStorage(), logger)
	app.RetentionService = retention.NewService(storageManager.ArticleStorage(), cfg.Retention.MaxAgeDays, logger)
	app.AnalysisService = analysis.NewService(
		storageManager.ArticleStorage(),
		storageManager.ReportStorage(),
		llmService,
		&cfg.Analysis,
		logger,
	)
	app.SchedulerService = scheduler.NewService(logger)

	app.APIHandler = handlers.NewAPIHandler()
	app.NewsHandler = handlers.NewNewsHandler(app.IngestService, storageManager.ArticleStorage(), logger)
	app.AnalysisHandler = handlers.NewAnalysisHandler(app.AnalysisService, storageManager.ReportStorage(), logger)
	app.SchedulerHandler = handlers.NewSchedulerHandler(app.SchedulerService, logger)

	logger.Info().Msg("Application initialized")

	return app, nil
}

// Start registers the background jobs and starts the scheduler.
func (a *App) Start() error {
	if err := a.registerJobs(); err != nil {
		return err
	}

	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	return nil
}

// registerJobs wires the three background jobs: ingestion, retention
// sweep, and scheduled analysis.
func (a *App) registerJobs() error {
	err := a.SchedulerService.RegisterJob(
		"ingest",
		a.Config.Ingest.Schedule,
		"Harvest new articles from the news source",
		func() error {
			_, err := a.IngestService.Run(context.Background())
			return err
		},
	)
	if err != nil {
		return fmt.Errorf("failed to register ingest job: %w", err)
	}

	err = a.SchedulerService.RegisterJob(
		"retention",
		a.Config.Retention.Schedule,
		"Delete articles past the retention age",
		func() error {
			_, err := a.RetentionService.Sweep()
			return err
		},
	)
	if err != nil {
		return fmt.Errorf("failed to register retention job: %w", err)
	}

	err = a.SchedulerService.RegisterJob(
		"analysis",
		a.Config.Analysis.Schedule,
		"Generate a market analysis report from recent articles",
		func() error {
			_, err := a.AnalysisService.RunScheduled(context.Background())
			return err
		},
	)
	if err != nil {
		return fmt.Errorf("failed to register analysis job: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the application components.
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info().Msg("Stopping application...")

	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduler stop failed")
		}
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("LLM service close failed")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.Logger.Info().Msg("Application stopped")
	return nil
}
