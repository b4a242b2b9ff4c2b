// Package embedding provides text embedding backends. The same embedder
// instance must be used for indexing and querying: vectors from different
// models are not comparable, and switching models invalidates the stored
// collection.
package embedding

import "context"

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
