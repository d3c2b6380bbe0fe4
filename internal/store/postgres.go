package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/awside/symtrain-assistant/internal/types"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS analyses (
	file_path TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	dialogue TEXT NOT NULL,
	reason TEXT NOT NULL,
	steps TEXT[] NOT NULL,
	category TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS embeddings (
	cache_key TEXT PRIMARY KEY,
	vector REAL[] NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS pipeline_runs (
	id UUID PRIMARY KEY,
	request TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	mapping_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at TIMESTAMPTZ
)`,
}

// PostgresStore is a Store backed by a PostgreSQL connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres establishes a connection pool and ensures the schema
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &PostgresStore{pool: pool}, nil
}

// SaveAnalysis inserts or replaces the analysis for its file path
func (s *PostgresStore) SaveAnalysis(ctx context.Context, a *types.Analysis) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO analyses (file_path, name, dialogue, reason, steps, category)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (file_path) DO UPDATE SET name = $2, dialogue = $3, reason = $4,
		   steps = $5, category = $6, updated_at = NOW()`,
		a.FilePath, a.Name, a.Dialogue, a.Reason, nonNil(a.Steps), a.Category,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis returns the cached analysis for filePath
func (s *PostgresStore) GetAnalysis(ctx context.Context, filePath string) (*types.Analysis, error) {
	var a types.Analysis
	err := s.pool.QueryRow(ctx,
		`SELECT file_path, name, dialogue, reason, steps, category FROM analyses WHERE file_path = $1`,
		filePath,
	).Scan(&a.FilePath, &a.Name, &a.Dialogue, &a.Reason, &a.Steps, &a.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &a, nil
}

// SaveEmbedding inserts or replaces the vector stored under key
func (s *PostgresStore) SaveEmbedding(ctx context.Context, key string, vector []float32) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO embeddings (cache_key, vector) VALUES ($1, $2)
		 ON CONFLICT (cache_key) DO UPDATE SET vector = $2, updated_at = NOW()`,
		key, vector,
	)
	if err != nil {
		return fmt.Errorf("failed to save embedding: %w", err)
	}
	return nil
}

// GetEmbedding returns the vector stored under key
func (s *PostgresStore) GetEmbedding(ctx context.Context, key string) ([]float32, error) {
	var vector []float32
	err := s.pool.QueryRow(ctx, `SELECT vector FROM embeddings WHERE cache_key = $1`, key).Scan(&vector)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}
	return vector, nil
}

// CreateRun records a new running pipeline run and returns its ID
func (s *PostgresStore) CreateRun(ctx context.Context, request string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO pipeline_runs (id, request, status) VALUES ($1, $2, $3) RETURNING id`,
		uuid.New(), request, RunStatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run finished with its outcome
func (s *PostgresStore) CompleteRun(ctx context.Context, id uuid.UUID, status, category string, mappingRate float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE pipeline_runs SET status = $1, category = $2, mapping_rate = $3, completed_at = NOW() WHERE id = $4`,
		status, category, mappingRate, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetRun returns a run by ID
func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	err := s.pool.QueryRow(ctx,
		`SELECT id, request, category, status, mapping_rate, created_at, completed_at
		 FROM pipeline_runs WHERE id = $1`,
		id,
	).Scan(&run.ID, &run.Request, &run.Category, &run.Status, &run.MappingRate, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
