package answer

import (
	"testing"

	"github.com/kotae-ai/kotae/internal/models"
	"github.com/kotae-ai/kotae/internal/vector"
)

func hit(source, filename, text string) vector.ScoredRecord {
	return vector.ScoredRecord{
		Record: vector.Record{
			Text: text,
			Metadata: models.ChunkMetadata{
				Source:   source,
				Filename: filename,
			},
		},
	}
}

func TestFormatStripsMarker(t *testing.T) {
	raw := "Question: what?\nHelpful Answer: Paris is the capital."
	got := Format(raw, nil)
	if got.Answer != "Paris is the capital." {
		t.Errorf("answer = %q", got.Answer)
	}
}

func TestFormatWithoutMarker(t *testing.T) {
	got := Format("  Paris is the capital.  ", nil)
	if got.Answer != "Paris is the capital." {
		t.Errorf("answer = %q", got.Answer)
	}
}

func TestFormatEmptyOutput(t *testing.T) {
	tests := []string{"", "   \n  ", "Helpful Answer:   "}
	for _, raw := range tests {
		got := Format(raw, nil)
		if got.Answer != Apology {
			t.Errorf("Format(%q) = %q, want the apology", raw, got.Answer)
		}
	}
}

func TestFormatAttachesSources(t *testing.T) {
	hits := []vector.ScoredRecord{
		hit("/docs/a.pdf", "a.pdf", "chunk one"),
		hit("/docs/a.pdf", "a.pdf", "chunk two"),
		hit("/docs/b.txt", "b.txt", "chunk three"),
	}
	got := Format("An answer.", hits)
	if len(got.Sources) != 2 {
		t.Fatalf("got %d sources, want 2 (deduplicated)", len(got.Sources))
	}
	if got.Sources[0].Source != "a.pdf" || got.Sources[0].Path != "/docs/a.pdf" {
		t.Errorf("first source = %+v", got.Sources[0])
	}
	if got.Sources[1].Source != "b.txt" {
		t.Errorf("second source = %+v", got.Sources[1])
	}
}

func TestFormatFailureStillHasSources(t *testing.T) {
	hits := []vector.ScoredRecord{hit("/docs/a.pdf", "a.pdf", "chunk")}
	got := Format("", hits)
	if got.Answer != Apology {
		t.Errorf("answer = %q, want the apology", got.Answer)
	}
	if len(got.Sources) != 1 {
		t.Errorf("sources should be attached even for the apology, got %d", len(got.Sources))
	}
}

func TestExtractMarked(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"marker present", "noise Helpful Answer: The answer.", "The answer."},
		{"marker absent", "The model rambled on.", Apology},
		{"marker empty", "Helpful Answer:", Apology},
		{"last marker wins", "Helpful Answer: first\nHelpful Answer: second", "second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractMarked(tt.raw); got != tt.want {
				t.Errorf("ExtractMarked(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
