// Package chat runs the question-answering pipeline: retrieve, generate,
// format. The pipeline never panics or fails a request outright; every
// failure becomes a readable answer so conversational clients always get a
// response.
package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kotae-ai/kotae/internal/answer"
	"github.com/kotae-ai/kotae/internal/generator"
	"github.com/kotae-ai/kotae/internal/models"
	"github.com/kotae-ai/kotae/internal/retriever"
	"github.com/kotae-ai/kotae/internal/vector"
)

const (
	msgMissingCredential = "Cloud mode needs an API key. Set OPENAI_API_KEY or switch to local mode."
	msgBackendDown       = "The language model is unavailable right now. Please try again in a moment."
	msgRetrievalFailed   = "I could not search the knowledge base. Please check that the vector store is running."
)

// Service answers questions against the ingested knowledge base.
type Service struct {
	retriever *retriever.Retriever
	router    *generator.Router
	logger    *zap.Logger
}

// New creates a chat Service.
func New(ret *retriever.Retriever, router *generator.Router, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{retriever: ret, router: router, logger: logger}
}

// Ask answers a question using the backend selected by mode. It never
// returns an error: retrieval or generation failures are logged and mapped
// to an explanatory answer, with whatever sources were retrieved attached.
func (s *Service) Ask(ctx context.Context, question string, mode generator.Mode) *models.Answer {
	hits, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		s.logger.Error("retrieval failed", zap.Error(err))
		return &models.Answer{Answer: msgRetrievalFailed, Sources: []models.Source{}}
	}

	raw, err := s.router.Generate(ctx, chunkTexts(hits), question, mode)
	if err != nil {
		s.logger.Error("generation failed",
			zap.String("mode", mode.String()),
			zap.Error(err))
		return &models.Answer{
			Answer:  failureMessage(err),
			Sources: answer.Sources(hits),
		}
	}

	return answer.Format(raw, hits)
}

// Predict runs the legacy pipeline: local mode only, strict answer-marker
// extraction. Unlike Ask it surfaces pipeline failures as errors, which the
// legacy endpoint reports in its own shape.
func (s *Service) Predict(ctx context.Context, question string) (string, error) {
	hits, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return "", err
	}
	raw, err := s.router.Generate(ctx, chunkTexts(hits), question, generator.ModeLocal)
	if err != nil {
		return "", err
	}
	return answer.ExtractMarked(raw), nil
}

func failureMessage(err error) string {
	if errors.Is(err, generator.ErrMissingCredential) {
		return msgMissingCredential
	}
	var be *generator.BackendError
	if errors.As(err, &be) {
		return msgBackendDown
	}
	return msgBackendDown
}

func chunkTexts(hits []vector.ScoredRecord) []string {
	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Record.Text
	}
	return texts
}
