package usecase

import (
	"context"
	"fmt"
	"time"

	"PaperRecommender/internal/domain"
)

// ScoreAndSelect resolves a relevance decision for every paper published
// in [start, end) and returns the included ones in publication order.
//
// A previously persisted score is reused without a classifier call; this
// memoization makes repeated runs over the same window idempotent. New
// scores are persisted unconditionally, relevant or not. A classifier
// failure leaves the paper unscored so the next cycle retries it, and
// processing of the remaining papers continues.
func (p *Pipeline) ScoreAndSelect(ctx context.Context, start, end time.Time) ([]domain.Paper, error) {
	papers, err := p.repository.FindPublishedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load window: %w", err)
	}

	included := make([]domain.Paper, 0, len(papers))
	for _, paper := range papers {
		if paper.Relevance.Scored {
			if paper.Relevance.Relevant() {
				included = append(included, paper)
			}
			continue
		}

		score, err := p.classifier.ScoreRelevance(ctx, paper.Summary)
		if err != nil {
			p.errorLog("classify paper", "arxiv_id", paper.ArxivID, "error", err)
			continue
		}

		if err := p.repository.SaveRelevance(ctx, paper.ID, score); err != nil {
			return nil, fmt.Errorf("persist score for %s: %w", paper.ArxivID, err)
		}

		paper.Relevance = domain.ScoredRelevance(score)
		if paper.Relevance.Relevant() {
			p.info("paper recommended", "arxiv_id", paper.ArxivID, "score", score)
			included = append(included, paper)
		}
	}

	return included, nil
}
