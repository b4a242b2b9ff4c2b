package vector

import (
	"context"
	"testing"

	"github.com/kotae-ai/kotae/internal/models"
)

func record(id string, source string, vec ...float32) Record {
	return Record{
		ID:     id,
		Vector: vec,
		Text:   "text for " + id,
		Metadata: models.ChunkMetadata{
			Source:   source,
			Filename: source,
		},
	}
}

func TestMemoryStoreSearchOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(3)

	err := m.Upsert(ctx, []Record{
		record("a", "a.txt", 1, 0, 0),
		record("b", "b.txt", 0, 1, 0),
		record("c", "c.txt", 0.9, 0.1, 0),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	hits, err := m.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Record.ID != "a" {
		t.Errorf("best hit = %q, want %q", hits[0].Record.ID, "a")
	}
	if hits[1].Record.ID != "c" {
		t.Errorf("second hit = %q, want %q", hits[1].Record.ID, "c")
	}
	if hits[0].Score < hits[1].Score {
		t.Errorf("hits not ordered by descending score: %f < %f", hits[0].Score, hits[1].Score)
	}
}

func TestMemoryStoreSearchFewerThanK(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(2)
	if err := m.Upsert(ctx, []Record{record("only", "f.txt", 1, 1)}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	hits, err := m.Search(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("got %d hits, want 1", len(hits))
	}
}

func TestMemoryStoreUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(2)

	if err := m.Upsert(ctx, []Record{record("x", "x.txt", 1, 0)}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := m.Upsert(ctx, []Record{record("x", "x.txt", 0, 1)}); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	n, err := m.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d after re-upsert of same ID, want 1", n)
	}

	hits, err := m.Search(ctx, []float32{0, 1}, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if hits[0].Record.Vector[1] != 1 {
		t.Error("re-upsert did not overwrite the stored vector")
	}
}

func TestMemoryStoreDeleteBySource(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(2)
	err := m.Upsert(ctx, []Record{
		record("a1", "a.txt", 1, 0),
		record("a2", "a.txt", 0, 1),
		record("b1", "b.txt", 1, 1),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := m.DeleteBySource(ctx, "a.txt"); err != nil {
		t.Fatalf("DeleteBySource failed: %v", err)
	}
	n, _ := m.Count(ctx)
	if n != 1 {
		t.Errorf("count = %d after delete, want 1", n)
	}
	hits, _ := m.Search(ctx, []float32{1, 0}, 10)
	for _, h := range hits {
		if h.Record.Metadata.Source == "a.txt" {
			t.Errorf("record %q from deleted source survived", h.Record.ID)
		}
	}
}

func TestMemoryStoreDimensionChecks(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(3)

	if err := m.Upsert(ctx, []Record{record("bad", "f.txt", 1, 0)}); err == nil {
		t.Error("expected an error upserting a 2-dim vector into a 3-dim store")
	}
	if _, err := m.Search(ctx, []float32{1, 0}, 1); err == nil {
		t.Error("expected an error searching with a 2-dim query in a 3-dim store")
	}
}
