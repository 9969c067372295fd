package domain

import "time"

// Paper is the central entity: one arXiv announcement tracked by the store.
type Paper struct {
	ID        int64
	ArxivID   string
	Title     string
	Authors   []string
	Summary   string
	Published time.Time
	PDFURL    string
	Relevance Relevance
}

// RelevanceThreshold separates relevant from irrelevant papers. The bound
// is exclusive: a score of exactly 0.5 is not relevant.
const RelevanceThreshold = 0.5

// Relevance is the classifier verdict for a paper. The zero value means
// the classifier has never been asked; it transitions to a scored value
// exactly once and is never recomputed afterwards.
type Relevance struct {
	Scored bool
	Score  float64
}

// ScoredRelevance builds a final classifier verdict.
func ScoredRelevance(score float64) Relevance {
	return Relevance{Scored: true, Score: score}
}

// Relevant reports whether the paper passed the classifier cut.
func (r Relevance) Relevant() bool {
	return r.Scored && r.Score > RelevanceThreshold
}

// Report is the ephemeral product of one cycle: the included papers in
// feed order plus the cross-paper narrative summary. It is never persisted.
type Report struct {
	Papers  []Paper
	Summary string
}
