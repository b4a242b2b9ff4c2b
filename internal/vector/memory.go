package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store using brute-force cosine similarity.
// Used by tests and for self-contained deployments without a Qdrant server.
// Contents do not survive a restart.
type MemoryStore struct {
	dimensions int
	records    map[string]Record
	mu         sync.RWMutex
}

// NewMemoryStore creates an in-memory store with the given dimensionality.
func NewMemoryStore(dimensions int) *MemoryStore {
	return &MemoryStore{
		dimensions: dimensions,
		records:    make(map[string]Record),
	}
}

// EnsureCollection is a no-op: the collection exists from construction with
// the dimensionality fixed there.
func (m *MemoryStore) EnsureCollection(ctx context.Context) error {
	return nil
}

// Upsert inserts or overwrites records by ID.
func (m *MemoryStore) Upsert(ctx context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if len(r.Vector) != m.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d: %w",
				len(r.Vector), m.dimensions, ErrDimensionMismatch)
		}
		vec := make([]float32, m.dimensions)
		copy(vec, r.Vector)
		r.Vector = vec
		m.records[r.ID] = r
	}
	return nil
}

// DeleteBySource removes all records for the given source path.
func (m *MemoryStore) DeleteBySource(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.records {
		if r.Metadata.Source == path {
			delete(m.records, id)
		}
	}
	return nil
}

// Search returns the top-k records by cosine similarity, descending.
func (m *MemoryStore) Search(ctx context.Context, vec []float32, k int) ([]ScoredRecord, error) {
	if len(vec) != m.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(vec), m.dimensions)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.records) == 0 {
		return nil, nil
	}
	scored := make([]ScoredRecord, 0, len(m.records))
	for _, r := range m.records {
		scored = append(scored, ScoredRecord{Record: r, Score: cosineSimilarity(vec, r.Vector)})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Count returns the number of stored records.
func (m *MemoryStore) Count(ctx context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.records)), nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
