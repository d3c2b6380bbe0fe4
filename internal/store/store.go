// Package store caches analyses, embeddings and pipeline runs in SQLite or PostgreSQL.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/awside/symtrain-assistant/internal/types"
)

// DefaultSQLitePath is used when no database is configured
const DefaultSQLitePath = ".symtrain/cache.db"

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run is one pipeline run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Request     string     `json:"request"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	MappingRate float64    `json:"mapping_rate"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Store persists analysis results and embeddings across runs.
// Get methods return (nil, nil) when nothing is stored under the key.
type Store interface {
	SaveAnalysis(ctx context.Context, analysis *types.Analysis) error
	GetAnalysis(ctx context.Context, filePath string) (*types.Analysis, error)
	SaveEmbedding(ctx context.Context, key string, vector []float32) error
	GetEmbedding(ctx context.Context, key string) ([]float32, error)
	CreateRun(ctx context.Context, request string) (uuid.UUID, error)
	CompleteRun(ctx context.Context, id uuid.UUID, status, category string, mappingRate float64) error
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
	Close() error
}

// Config selects a backend. DatabaseURL wins over SQLitePath.
type Config struct {
	DatabaseURL string
	SQLitePath  string
}

// Open connects to PostgreSQL when a database URL is set, else opens SQLite
func Open(ctx context.Context, cfg Config) (Store, error) {
	if cfg.DatabaseURL != "" {
		pg, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}

	path := cfg.SQLitePath
	if path == "" {
		path = DefaultSQLitePath
	}
	lite, err := OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return lite, nil
}
