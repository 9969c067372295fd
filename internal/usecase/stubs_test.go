package usecase

import (
	"context"
	"fmt"
	"time"

	"PaperRecommender/internal/domain"
)

// stubRepository is an in-memory PaperRepository.
type stubRepository struct {
	papers    []domain.Paper
	saved     map[int64]float64
	createErr map[string]error
	lookupErr error
}

func (r *stubRepository) FindByArxivID(_ context.Context, arxivID string) (*domain.Paper, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for i := range r.papers {
		if r.papers[i].ArxivID == arxivID {
			paper := r.papers[i]
			return &paper, nil
		}
	}
	return nil, nil
}

func (r *stubRepository) FindPublishedBetween(_ context.Context, start, end time.Time) ([]domain.Paper, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	var out []domain.Paper
	for _, paper := range r.papers {
		if !paper.Published.Before(start) && paper.Published.Before(end) {
			out = append(out, paper)
		}
	}
	return out, nil
}

func (r *stubRepository) Create(_ context.Context, paper domain.Paper) (domain.Paper, error) {
	if err := r.createErr[paper.ArxivID]; err != nil {
		return domain.Paper{}, err
	}
	paper.ID = int64(len(r.papers) + 1)
	r.papers = append(r.papers, paper)
	return paper, nil
}

func (r *stubRepository) SaveRelevance(_ context.Context, paperID int64, score float64) error {
	for i := range r.papers {
		if r.papers[i].ID == paperID {
			r.papers[i].Relevance = domain.ScoredRelevance(score)
			if r.saved == nil {
				r.saved = map[int64]float64{}
			}
			r.saved[paperID] = score
			return nil
		}
	}
	return fmt.Errorf("paper %d not found", paperID)
}

// stubClassifier returns canned scores keyed by abstract text.
type stubClassifier struct {
	scores       map[string]float64
	failing      map[string]bool
	summary      string
	summaryErr   error
	scoreCalls   int
	summaryCalls int
}

func (c *stubClassifier) ScoreRelevance(_ context.Context, abstract string) (float64, error) {
	c.scoreCalls++
	if c.failing[abstract] {
		return 0, fmt.Errorf("classifier unavailable")
	}
	return c.scores[abstract], nil
}

func (c *stubClassifier) SummarizePapers(_ context.Context, _ []domain.Paper) (string, error) {
	c.summaryCalls++
	if c.summaryErr != nil {
		return "", c.summaryErr
	}
	return c.summary, nil
}

type stubSource struct {
	papers []domain.Paper
	err    error
}

func (s *stubSource) FetchWindow(_ context.Context, _, _ time.Time) ([]domain.Paper, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.papers, nil
}

type stubSender struct {
	subjects []string
	bodies   []string
	err      error
}

func (s *stubSender) Send(_ context.Context, subject, htmlBody string) error {
	if s.err != nil {
		return s.err
	}
	s.subjects = append(s.subjects, subject)
	s.bodies = append(s.bodies, htmlBody)
	return nil
}

func testPaper(id int64, arxivID, title, summary string, published time.Time) domain.Paper {
	return domain.Paper{
		ID:        id,
		ArxivID:   arxivID,
		Title:     title,
		Authors:   []string{"Alice Smith", "Bob Jones"},
		Summary:   summary,
		Published: published,
		PDFURL:    "https://arxiv.org/pdf/" + arxivID,
	}
}
