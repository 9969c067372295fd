package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"PaperRecommender/internal/config"
	"PaperRecommender/internal/domain"
	"PaperRecommender/internal/feed"
	"PaperRecommender/internal/ports"
)

// Source implements PaperSource via registered feed-scanner strategies.
type Source struct {
	registry *feed.Registry
	feeds    []config.FeedConfig
	logger   *slog.Logger
}

var _ ports.PaperSource = (*Source)(nil)

// NewSource wires the scanner registry with config-defined feeds.
func NewSource(reg *feed.Registry, feeds []config.FeedConfig, log *slog.Logger) *Source {
	return &Source{
		registry: reg,
		feeds:    feeds,
		logger:   log,
	}
}

// FetchWindow iterates over configured feeds and executes their scanners.
func (s *Source) FetchWindow(ctx context.Context, start, end time.Time) ([]domain.Paper, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("feed registry is not configured")
	}

	s.debug("fetch window", "feeds", len(s.feeds), "start", start.Format(time.RFC3339), "end", end.Format(time.RFC3339))

	var aggregated []domain.Paper
	for _, fc := range s.feeds {
		strategy, err := s.registry.Resolve(fc.Scanner)
		if err != nil {
			return nil, fmt.Errorf("feed %s: %w", fc.Name, err)
		}

		req := feed.Request{
			Start:    start,
			End:      end,
			FeedName: fc.Name,
			URL:      fc.URL,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scan feed %s: %w", fc.Name, err)
		}

		s.debug("feed produced candidates", "feed", fc.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("source done", "total_candidates", len(aggregated))
	return aggregated, nil
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
