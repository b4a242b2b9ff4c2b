package retriever

import (
	"context"
	"fmt"
	"testing"

	"github.com/kotae-ai/kotae/internal/embedding"
	"github.com/kotae-ai/kotae/internal/models"
	"github.com/kotae-ai/kotae/internal/vector"
)

func seedStore(t *testing.T, embedder embedding.Embedder, store vector.Store, texts []string) {
	t.Helper()
	ctx := context.Background()
	records := make([]vector.Record, len(texts))
	for i, text := range texts {
		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			t.Fatal(err)
		}
		records[i] = vector.Record{
			ID:     fmt.Sprintf("00000000-0000-0000-0000-%012d", i),
			Vector: vec,
			Text:   text,
			Metadata: models.ChunkMetadata{
				Source:   fmt.Sprintf("/docs/%d.txt", i),
				Filename: fmt.Sprintf("%d.txt", i),
			},
		}
	}
	if err := store.Upsert(ctx, records); err != nil {
		t.Fatal(err)
	}
}

func TestRetrieveTopK(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	store := vector.NewMemoryStore(32)
	seedStore(t, embedder, store, []string{
		"Paris is the capital of France.",
		"Berlin is the capital of Germany.",
		"Madrid is the capital of Spain.",
		"Rome is the capital of Italy.",
		"Lisbon is the capital of Portugal.",
	})

	r := New(embedder, store)
	hits, err := r.Retrieve(context.Background(), "capital of France")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want the default top-3", len(hits))
	}
	for i := 1; i < len(hits); i++ {
		if hits[i-1].Score < hits[i].Score {
			t.Errorf("hits out of order at %d: %f < %f", i, hits[i-1].Score, hits[i].Score)
		}
	}
}

func TestRetrieveWithTopK(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	store := vector.NewMemoryStore(32)
	seedStore(t, embedder, store, []string{"one", "two", "three"})

	r := New(embedder, store, WithTopK(2))
	hits, err := r.Retrieve(context.Background(), "query")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("got %d hits, want 2", len(hits))
	}
}

func TestRetrieveSameTextRanksFirst(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	store := vector.NewMemoryStore(32)
	seedStore(t, embedder, store, []string{
		"completely unrelated text about gardening",
		"the exact query text",
		"another unrelated note about cooking",
	})

	r := New(embedder, store)
	hits, err := r.Retrieve(context.Background(), "the exact query text")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	// The query embeds to the same vector as the identical stored text, so
	// it must score highest under cosine similarity.
	if hits[0].Record.Text != "the exact query text" {
		t.Errorf("best hit = %q", hits[0].Record.Text)
	}
}

func TestRetrieveEmptyStore(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	store := vector.NewMemoryStore(32)
	r := New(embedder, store)
	hits, err := r.Retrieve(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits from an empty store", len(hits))
	}
}
