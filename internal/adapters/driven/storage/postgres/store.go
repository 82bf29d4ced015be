// Package postgres stores analysis results in PostgreSQL through lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ResultStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	id              TEXT PRIMARY KEY,
	document_name   TEXT NOT NULL,
	model_id        TEXT NOT NULL,
	embedding_model TEXT NOT NULL DEFAULT '',
	question_set    TEXT NOT NULL DEFAULT '',
	answers         JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	duration_ms     BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_results_created_at ON results (created_at DESC);
`

// Store is a PostgreSQL-backed result store.
type Store struct {
	db *sql.DB
}

// NewStore connects to dsn and creates the results table if needed.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty postgres dsn", domain.ErrInvalidInput)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces a result.
func (s *Store) Save(ctx context.Context, result *domain.Result) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (id, document_name, model_id, embedding_model, question_set, answers, created_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			document_name = EXCLUDED.document_name,
			model_id = EXCLUDED.model_id,
			embedding_model = EXCLUDED.embedding_model,
			question_set = EXCLUDED.question_set,
			answers = EXCLUDED.answers,
			created_at = EXCLUDED.created_at,
			duration_ms = EXCLUDED.duration_ms`,
		result.ID, result.DocumentName, result.ModelID, result.EmbeddingModel, result.QuestionSet,
		answers, result.CreatedAt.UTC(), result.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// Get retrieves one result.
func (s *Store) Get(ctx context.Context, id string) (*domain.Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_name, model_id, embedding_model, question_set, answers, created_at, duration_ms
		FROM results WHERE id = $1`, id)

	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return r, nil
}

// List returns results newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]domain.Result, error) {
	query := `
		SELECT id, document_name, model_id, embedding_model, question_set, answers, created_at, duration_ms
		FROM results ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []domain.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("list results: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*domain.Result, error) {
	var r domain.Result
	var answers []byte
	var durationMS int64

	if err := row.Scan(&r.ID, &r.DocumentName, &r.ModelID, &r.EmbeddingModel, &r.QuestionSet,
		&answers, &r.CreatedAt, &durationMS); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &r.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return &r, nil
}
