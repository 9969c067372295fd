package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"PaperRecommender/internal/config"
	"PaperRecommender/internal/feed"
	"PaperRecommender/internal/infrastructure/feeds"
	"PaperRecommender/internal/infrastructure/llm"
	"PaperRecommender/internal/infrastructure/mail"
	"PaperRecommender/internal/infrastructure/scheduler"
	"PaperRecommender/internal/infrastructure/storage"
	"PaperRecommender/internal/logging"
	"PaperRecommender/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	scheduler *usecase.Scheduler
	db        *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	registry := feed.NewRegistry()
	registry.Register(feeds.NewArxivScanner(nil, logging.Component(baseLogger, "feed.arxiv")))

	source := feeds.NewSource(registry, cfg.Feeds, logging.Component(baseLogger, "source"))
	repository := storage.NewPostgresRepository(db)
	classifier := llm.NewDeepSeekClient(cfg.DeepSeek, cfg.Keywords)
	sender := mail.NewSender(cfg.Mail, logging.Component(baseLogger, "mail"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Repository: repository,
		Classifier: classifier,
		Sender:     sender,
		Logger:     logging.Component(baseLogger, "pipeline"),
	})

	driver := scheduler.NewDailyScheduler(cfg.Scheduler.TriggerHour(), cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, pipeline, logging.Component(baseLogger, "scheduler"))

	return &Application{cfg: cfg, scheduler: sched, db: db}, nil
}

// Run starts the daily cycle and blocks until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler == nil {
		return nil
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx := context.Background()
	if err := a.scheduler.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}

	return nil
}
