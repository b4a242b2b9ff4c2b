// Package answer normalizes raw model output into the API answer shape.
package answer

import (
	"strings"

	"github.com/kotae-ai/kotae/internal/generator"
	"github.com/kotae-ai/kotae/internal/models"
	"github.com/kotae-ai/kotae/internal/vector"
)

// Apology is returned when the model produced nothing usable. The caller
// still gets sources so it can point at what was retrieved.
const Apology = "I'm sorry, I could not produce an answer to that question."

// Format turns raw model output and the retrieved chunks into an Answer.
// When the model echoes the prompt template back, everything up to the answer
// marker is stripped; otherwise the trimmed output is used as-is. Empty
// output becomes the apology. Sources are always attached, deduplicated by
// path, in retrieval order.
func Format(raw string, retrieved []vector.ScoredRecord) *models.Answer {
	text := strings.TrimSpace(raw)
	if idx := strings.LastIndex(text, generator.AnswerMarker); idx >= 0 {
		text = strings.TrimSpace(text[idx+len(generator.AnswerMarker):])
	}
	if text == "" {
		text = Apology
	}
	return &models.Answer{
		Answer:  text,
		Sources: Sources(retrieved),
	}
}

// ExtractMarked is the strict variant used by the legacy endpoint: the answer
// marker must be present, otherwise the apology is returned.
func ExtractMarked(raw string) string {
	idx := strings.LastIndex(raw, generator.AnswerMarker)
	if idx < 0 {
		return Apology
	}
	text := strings.TrimSpace(raw[idx+len(generator.AnswerMarker):])
	if text == "" {
		return Apology
	}
	return text
}

// Sources extracts the unique source files behind the retrieved chunks,
// preserving retrieval order.
func Sources(retrieved []vector.ScoredRecord) []models.Source {
	sources := make([]models.Source, 0, len(retrieved))
	seen := make(map[string]bool, len(retrieved))
	for _, hit := range retrieved {
		path := hit.Record.Metadata.Source
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		sources = append(sources, models.Source{
			Source: hit.Record.Metadata.Filename,
			Path:   path,
		})
	}
	return sources
}
