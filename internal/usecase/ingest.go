package usecase

import (
	"context"
	"fmt"
	"time"
)

// Ingest pulls candidate papers announced in [start, end), dedups them
// against the store by their feed-provided identifier, and inserts the
// genuinely new ones unscored. It returns the number of papers stored.
//
// Per-paper insert failures are logged and skipped so one bad record
// never aborts the remaining batch; store lookup failures abort the
// cycle because dedup can no longer be trusted.
func (p *Pipeline) Ingest(ctx context.Context, start, end time.Time) (int, error) {
	candidates, err := p.source.FetchWindow(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetch window: %w", err)
	}

	stored := 0
	for _, paper := range candidates {
		existing, err := p.repository.FindByArxivID(ctx, paper.ArxivID)
		if err != nil {
			return stored, fmt.Errorf("lookup %s: %w", paper.ArxivID, err)
		}
		if existing != nil {
			continue
		}

		if _, err := p.repository.Create(ctx, paper); err != nil {
			p.errorLog("store paper", "arxiv_id", paper.ArxivID, "error", err)
			continue
		}
		stored++
	}

	p.info("ingest window processed", "candidates", len(candidates), "stored", stored)
	return stored, nil
}
