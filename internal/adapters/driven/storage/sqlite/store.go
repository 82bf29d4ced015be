package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/incident-rag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ResultStore = (*Store)(nil)

// Store is a SQLite-backed result store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) results.db inside dataDir.
// If dataDir is empty, defaults to ~/.incident-rag/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".incident-rag", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "results.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save stores a result, replacing any row with the same ID.
func (s *Store) Save(ctx context.Context, result *domain.Result) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshalling answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (id, document_name, model_id, embedding_model, question_set, answers, created_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_name = excluded.document_name,
			model_id = excluded.model_id,
			embedding_model = excluded.embedding_model,
			question_set = excluded.question_set,
			answers = excluded.answers,
			created_at = excluded.created_at,
			duration_ms = excluded.duration_ms
	`, result.ID, result.DocumentName, result.ModelID, result.EmbeddingModel, result.QuestionSet,
		string(answers), result.CreatedAt.UTC(), result.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("saving result: %w", err)
	}
	return nil
}

// Get retrieves a result by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_name, model_id, embedding_model, question_set, answers, created_at, duration_ms
		FROM results WHERE id = ?
	`, id)

	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// List returns results newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]domain.Result, error) {
	query := `
		SELECT id, document_name, model_id, embedding_model, question_set, answers, created_at, duration_ms
		FROM results ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var out []domain.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
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
	var answers string
	var createdAt time.Time
	var durationMS int64

	if err := row.Scan(&r.ID, &r.DocumentName, &r.ModelID, &r.EmbeddingModel, &r.QuestionSet,
		&answers, &createdAt, &durationMS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning result: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
		return nil, fmt.Errorf("unmarshalling answers: %w", err)
	}
	r.CreatedAt = createdAt
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return &r, nil
}

// migrate runs every .up.sql file newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			upFiles = append(upFiles, e.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}
