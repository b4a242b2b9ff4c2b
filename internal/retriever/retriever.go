// Package retriever turns a natural-language query into the most relevant
// stored chunks by embedding it and searching the vector store.
package retriever

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kotae-ai/kotae/internal/embedding"
	"github.com/kotae-ai/kotae/internal/vector"
)

const defaultTopK = 3

// Retriever performs semantic retrieval over the vector store.
type Retriever struct {
	embedder embedding.Embedder
	store    vector.Store
	topK     int
	logger   *zap.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Retriever) {
		r.logger = logger
	}
}

// WithTopK overrides the number of chunks returned per query.
func WithTopK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// New creates a Retriever. The embedder must be the same one used at ingest
// time, otherwise query and stored vectors live in different spaces.
func New(embedder embedding.Embedder, store vector.Store, opts ...Option) *Retriever {
	r := &Retriever{
		embedder: embedder,
		store:    store,
		topK:     defaultTopK,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve embeds the query and returns up to topK scored chunks, best first.
// An empty result is not an error; the caller decides how to answer without
// context.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]vector.ScoredRecord, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := r.store.Search(ctx, vec, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	r.logger.Debug("retrieved chunks",
		zap.Int("count", len(hits)),
		zap.Int("top_k", r.topK))
	return hits, nil
}
