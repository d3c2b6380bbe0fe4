package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/awside/symtrain-assistant/internal/types"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS analyses (
	file_path TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	dialogue TEXT NOT NULL,
	reason TEXT NOT NULL,
	steps TEXT NOT NULL,
	category TEXT NOT NULL,
	updated_at_utc TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS embeddings (
	cache_key TEXT PRIMARY KEY,
	vector TEXT NOT NULL,
	updated_at_utc TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS pipeline_runs (
	id TEXT PRIMARY KEY,
	request TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	mapping_rate REAL NOT NULL DEFAULT 0,
	created_at_utc TEXT NOT NULL,
	completed_at_utc TEXT
)`,
}

// SQLiteStore is a Store backed by a local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create sqlite schema: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// SaveAnalysis inserts or replaces the analysis for its file path
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a *types.Analysis) error {
	steps, err := json.Marshal(nonNil(a.Steps))
	if err != nil {
		return fmt.Errorf("failed to marshal steps: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (file_path, name, dialogue, reason, steps, category, updated_at_utc)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (file_path) DO UPDATE SET
		   name = excluded.name, dialogue = excluded.dialogue, reason = excluded.reason,
		   steps = excluded.steps, category = excluded.category, updated_at_utc = excluded.updated_at_utc`,
		a.FilePath, a.Name, a.Dialogue, a.Reason, string(steps), a.Category, nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis returns the cached analysis for filePath
func (s *SQLiteStore) GetAnalysis(ctx context.Context, filePath string) (*types.Analysis, error) {
	var a types.Analysis
	var steps string
	err := s.db.QueryRowContext(ctx,
		`SELECT file_path, name, dialogue, reason, steps, category FROM analyses WHERE file_path = ?`,
		filePath,
	).Scan(&a.FilePath, &a.Name, &a.Dialogue, &a.Reason, &steps, &a.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	if err := json.Unmarshal([]byte(steps), &a.Steps); err != nil {
		return nil, fmt.Errorf("failed to decode steps: %w", err)
	}
	return &a, nil
}

// SaveEmbedding inserts or replaces the vector stored under key
func (s *SQLiteStore) SaveEmbedding(ctx context.Context, key string, vector []float32) error {
	encoded, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO embeddings (cache_key, vector, updated_at_utc) VALUES (?, ?, ?)
		 ON CONFLICT (cache_key) DO UPDATE SET vector = excluded.vector, updated_at_utc = excluded.updated_at_utc`,
		key, string(encoded), nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save embedding: %w", err)
	}
	return nil
}

// GetEmbedding returns the vector stored under key
func (s *SQLiteStore) GetEmbedding(ctx context.Context, key string) ([]float32, error) {
	var encoded string
	err := s.db.QueryRowContext(ctx, `SELECT vector FROM embeddings WHERE cache_key = ?`, key).Scan(&encoded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}
	var vector []float32
	if err := json.Unmarshal([]byte(encoded), &vector); err != nil {
		return nil, fmt.Errorf("failed to decode embedding: %w", err)
	}
	return vector, nil
}

// CreateRun records a new running pipeline run and returns its ID
func (s *SQLiteStore) CreateRun(ctx context.Context, request string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pipeline_runs (id, request, status, created_at_utc) VALUES (?, ?, ?, ?)`,
		id.String(), request, RunStatusRunning, nowUTC(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run finished with its outcome
func (s *SQLiteStore) CompleteRun(ctx context.Context, id uuid.UUID, status, category string, mappingRate float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pipeline_runs SET status = ?, category = ?, mapping_rate = ?, completed_at_utc = ? WHERE id = ?`,
		status, category, mappingRate, nowUTC(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetRun returns a run by ID
func (s *SQLiteStore) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	var rawID, createdAt string
	var completedAt sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, request, category, status, mapping_rate, created_at_utc, completed_at_utc
		 FROM pipeline_runs WHERE id = ?`,
		id.String(),
	).Scan(&rawID, &run.Request, &run.Category, &run.Status, &run.MappingRate, &createdAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if run.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", rawID, err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at: %w", err)
		}
		run.CompletedAt = &t
	}
	return &run, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func nonNil(steps []string) []string {
	if steps == nil {
		return []string{}
	}
	return steps
}
