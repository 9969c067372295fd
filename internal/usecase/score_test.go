package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func scoringPipeline(repo *stubRepository, classifier *stubClassifier) *Pipeline {
	return NewPipeline(PipelineDeps{
		Source:     &stubSource{},
		Repository: repo,
		Classifier: classifier,
	})
}

func TestScoreAndSelectMemoization(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	published := now.Add(-2 * time.Hour)

	repo := &stubRepository{}
	repo.papers = append(repo.papers,
		testPaper(1, "2603.00001v1", "First", "abstract one", published),
		testPaper(2, "2603.00002v1", "Second", "abstract two", published),
	)

	classifier := &stubClassifier{scores: map[string]float64{
		"abstract one": 0.9,
		"abstract two": 0.2,
	}}
	pipeline := scoringPipeline(repo, classifier)

	first, err := pipeline.ScoreAndSelect(context.Background(), now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, "First", first[0].Title)
	require.Equal(t, 2, classifier.scoreCalls)

	// Second run over the same window reuses persisted scores: identical
	// inclusion, zero additional classifier calls.
	second, err := pipeline.ScoreAndSelect(context.Background(), now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, first[0].ArxivID, second[0].ArxivID)
	require.Equal(t, 2, classifier.scoreCalls)
}

func TestScoreAndSelectThresholdBoundary(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	published := now.Add(-time.Hour)

	repo := &stubRepository{}
	repo.papers = append(repo.papers,
		testPaper(1, "2603.00001v1", "Borderline", "boundary abstract", published),
		testPaper(2, "2603.00002v1", "Barely In", "barely abstract", published),
	)

	classifier := &stubClassifier{scores: map[string]float64{
		"boundary abstract": 0.5,
		"barely abstract":   0.5000001,
	}}
	pipeline := scoringPipeline(repo, classifier)

	included, err := pipeline.ScoreAndSelect(context.Background(), now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, included, 1)
	require.Equal(t, "Barely In", included[0].Title)

	// Both verdicts are persisted, relevant or not.
	require.Equal(t, 0.5, repo.saved[1])
	require.Equal(t, 0.5000001, repo.saved[2])
}

func TestScoreAndSelectClassifierFailureIsolation(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	published := now.Add(-time.Hour)

	repo := &stubRepository{}
	repo.papers = append(repo.papers,
		testPaper(1, "2603.00001v1", "Broken", "failing abstract", published),
		testPaper(2, "2603.00002v1", "Fine", "working abstract", published),
	)

	classifier := &stubClassifier{
		scores:  map[string]float64{"working abstract": 0.8},
		failing: map[string]bool{"failing abstract": true},
	}
	pipeline := scoringPipeline(repo, classifier)

	included, err := pipeline.ScoreAndSelect(context.Background(), now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, included, 1)
	require.Equal(t, "Fine", included[0].Title)

	// The failed paper keeps no persisted score and stays retryable.
	_, persisted := repo.saved[1]
	require.False(t, persisted)
	require.False(t, repo.papers[0].Relevance.Scored)

	// The next run retries only the failed paper.
	classifier.failing = map[string]bool{}
	classifier.scores["failing abstract"] = 0.7
	calls := classifier.scoreCalls

	included, err = pipeline.ScoreAndSelect(context.Background(), now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, included, 2)
	require.Equal(t, calls+1, classifier.scoreCalls)
}
