package ports

import (
	"context"
	"time"

	"PaperRecommender/internal/domain"
)

// PaperSource pulls candidate papers announced inside a time window.
type PaperSource interface {
	FetchWindow(ctx context.Context, start, end time.Time) ([]domain.Paper, error)
}

// PaperRepository persists papers and their memoized relevance scores.
type PaperRepository interface {
	// FindByArxivID returns nil without error when no paper matches.
	FindByArxivID(ctx context.Context, arxivID string) (*domain.Paper, error)
	FindPublishedBetween(ctx context.Context, start, end time.Time) ([]domain.Paper, error)
	Create(ctx context.Context, paper domain.Paper) (domain.Paper, error)
	SaveRelevance(ctx context.Context, paperID int64, score float64) error
}

// Classifier scores abstracts against the user's keywords and writes the
// cross-paper digest summary.
type Classifier interface {
	ScoreRelevance(ctx context.Context, abstract string) (float64, error)
	SummarizePapers(ctx context.Context, papers []domain.Paper) (string, error)
}

// DigestSender delivers one rendered digest to the configured recipients.
type DigestSender interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// Scheduler controls when pipeline cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
