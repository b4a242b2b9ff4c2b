// Package vector provides persistent vector storage and similarity search.
package vector

import (
	"context"
	"errors"
	"fmt"

	"github.com/kotae-ai/kotae/internal/config"
	"github.com/kotae-ai/kotae/internal/models"
)

// ErrDimensionMismatch means an existing collection was created with a
// different vector dimensionality than the configured embedder produces.
// This is a hard failure: the stored vectors and new ones are not comparable.
var ErrDimensionMismatch = errors.New("collection dimension mismatch")

// Record is one stored (vector, text, metadata) triple. ID must be stable
// for a given source chunk so that re-ingestion overwrites instead of
// appending duplicates.
type Record struct {
	ID       string
	Vector   []float32
	Text     string
	Metadata models.ChunkMetadata
}

// ScoredRecord is a search hit with its similarity score.
type ScoredRecord struct {
	Record Record
	Score  float32
}

// Store defines vector persistence and nearest-neighbor search over a single
// named collection.
type Store interface {
	// EnsureCollection creates the collection if missing; when it already
	// exists, the stored dimensionality and metric are verified against the
	// configuration and ErrDimensionMismatch is returned on conflict.
	EnsureCollection(ctx context.Context) error
	// Upsert inserts or overwrites records by ID. Partial-batch failures are
	// not rolled back.
	Upsert(ctx context.Context, records []Record) error
	// DeleteBySource removes every record whose metadata source equals path.
	DeleteBySource(ctx context.Context, path string) error
	// Search returns up to k records ordered by descending similarity.
	Search(ctx context.Context, vec []float32, k int) ([]ScoredRecord, error)
	// Count returns the number of stored records.
	Count(ctx context.Context) (uint64, error)
	Close() error
}

// NewStore creates a store of the configured type ("qdrant" or "memory")
// with the given vector dimensionality.
func NewStore(cfg *config.VectorConfig, dimensions int) (Store, error) {
	switch cfg.Type {
	case "qdrant", "":
		return NewQdrantStore(cfg, dimensions)
	case "memory":
		return NewMemoryStore(dimensions), nil
	default:
		return nil, fmt.Errorf("unknown vector store type: %q", cfg.Type)
	}
}
