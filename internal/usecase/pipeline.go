package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"PaperRecommender/internal/ports"
)

const (
	// defaultIngestLookback covers late arXiv announcements: ingestion
	// re-reads a full trailing week and relies on dedup for overlap.
	defaultIngestLookback = 7 * 24 * time.Hour

	// defaultReportWindow is rolling relative to the trigger time, not a
	// calendar day, so month and day boundaries need no special casing.
	defaultReportWindow = 24 * time.Hour

	digestSubject = "Daily Recommendation"
)

// PipelineDeps wires all driven adapters into the recommendation pipeline.
type PipelineDeps struct {
	Source     ports.PaperSource
	Repository ports.PaperRepository
	Classifier ports.Classifier
	Sender     ports.DigestSender
	Logger     *slog.Logger

	// Zero values fall back to the defaults above.
	IngestLookback time.Duration
	ReportWindow   time.Duration
}

// Pipeline implements the daily recommendation workflow: ingest new
// announcements, score the reporting window, compose the digest, send it.
type Pipeline struct {
	source         ports.PaperSource
	repository     ports.PaperRepository
	classifier     ports.Classifier
	sender         ports.DigestSender
	logger         *slog.Logger
	ingestLookback time.Duration
	reportWindow   time.Duration
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	lookback := deps.IngestLookback
	if lookback <= 0 {
		lookback = defaultIngestLookback
	}
	window := deps.ReportWindow
	if window <= 0 {
		window = defaultReportWindow
	}

	return &Pipeline{
		source:         deps.Source,
		repository:     deps.Repository,
		classifier:     deps.Classifier,
		sender:         deps.Sender,
		logger:         deps.Logger,
		ingestLookback: lookback,
		reportWindow:   window,
	}
}

// RunCycle executes one full pipeline cycle anchored at now. Store and
// composition failures abort the cycle and surface to the scheduler; a
// delivery failure only loses that day's report.
func (p *Pipeline) RunCycle(ctx context.Context, now time.Time) error {
	if _, err := p.Ingest(ctx, now.Add(-p.ingestLookback), now); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	included, err := p.ScoreAndSelect(ctx, now.Add(-p.reportWindow), now)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	p.info("scoring finished", "included", len(included))

	document, err := p.Compose(ctx, included)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	if p.sender != nil {
		if err := p.sender.Send(ctx, digestSubject, document); err != nil {
			p.errorLog("send digest", "error", err)
		}
	}

	return nil
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) errorLog(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
