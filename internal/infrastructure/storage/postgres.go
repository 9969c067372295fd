package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"PaperRecommender/internal/domain"
	"PaperRecommender/internal/ports"
)

// Expected schema:
//
//	CREATE TABLE papers (
//	    id              BIGSERIAL PRIMARY KEY,
//	    arxiv_id        TEXT NOT NULL UNIQUE,
//	    title           TEXT NOT NULL,
//	    authors         TEXT[] NOT NULL DEFAULT '{}',
//	    summary         TEXT NOT NULL,
//	    published       TIMESTAMPTZ NOT NULL,
//	    pdf_url         TEXT NOT NULL,
//	    relevance_score DOUBLE PRECISION,
//	    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//
// relevance_score is NULL until the classifier has run; it is written
// exactly once per paper.

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var paperColumns = []string{"id", "arxiv_id", "title", "authors", "summary", "published", "pdf_url", "relevance_score"}

// PostgresRepository persists papers and memoized relevance scores.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.PaperRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByArxivID looks a paper up by its feed-provided identifier. It
// returns nil without error when the paper is absent.
func (r *PostgresRepository) FindByArxivID(ctx context.Context, arxivID string) (*domain.Paper, error) {
	query, args, err := psql.
		Select(paperColumns...).
		From("papers").
		Where(sq.Eq{"arxiv_id": arxivID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lookup query: %w", err)
	}

	paper, err := scanPaper(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", arxivID, err)
	}

	return &paper, nil
}

// FindPublishedBetween returns papers published in [start, end) ordered
// by publication time, oldest first.
func (r *PostgresRepository) FindPublishedBetween(ctx context.Context, start, end time.Time) ([]domain.Paper, error) {
	query, args, err := psql.
		Select(paperColumns...).
		From("papers").
		Where(sq.GtOrEq{"published": start}).
		Where(sq.Lt{"published": end}).
		OrderBy("published ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build window query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query window: %w", err)
	}
	defer rows.Close()

	var papers []domain.Paper
	for rows.Next() {
		paper, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		papers = append(papers, paper)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return papers, nil
}

// insertPaperQuery builds the insert statement for a new paper. A nil
// author slice is stored as an empty array; the column is NOT NULL.
func insertPaperQuery(paper domain.Paper) (string, []interface{}, error) {
	authors := paper.Authors
	if authors == nil {
		authors = []string{}
	}
	return psql.
		Insert("papers").
		Columns("arxiv_id", "title", "authors", "summary", "published", "pdf_url").
		Values(paper.ArxivID, paper.Title, pq.Array(authors), paper.Summary, paper.Published, paper.PDFURL).
		Suffix("RETURNING id").
		ToSql()
}

// Create inserts an unscored paper and returns it with its assigned ID.
func (r *PostgresRepository) Create(ctx context.Context, paper domain.Paper) (domain.Paper, error) {
	query, args, err := insertPaperQuery(paper)
	if err != nil {
		return domain.Paper{}, fmt.Errorf("build insert: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&paper.ID); err != nil {
		return domain.Paper{}, fmt.Errorf("insert %s: %w", paper.ArxivID, err)
	}

	paper.Relevance = domain.Relevance{}
	return paper, nil
}

// SaveRelevance writes the memoized classifier score for a paper.
func (r *PostgresRepository) SaveRelevance(ctx context.Context, paperID int64, score float64) error {
	query, args, err := psql.
		Update("papers").
		Set("relevance_score", score).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": paperID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update score for %d: %w", paperID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("paper %d not found", paperID)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (domain.Paper, error) {
	var (
		paper   domain.Paper
		authors pq.StringArray
		score   sql.NullFloat64
	)

	err := row.Scan(
		&paper.ID,
		&paper.ArxivID,
		&paper.Title,
		&authors,
		&paper.Summary,
		&paper.Published,
		&paper.PDFURL,
		&score,
	)
	if err != nil {
		return domain.Paper{}, err
	}

	paper.Authors = authors
	paper.Published = paper.Published.UTC()
	if score.Valid {
		paper.Relevance = domain.ScoredRelevance(score.Float64)
	}

	return paper, nil
}
