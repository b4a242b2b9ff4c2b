package splitter

import (
	"strings"
	"testing"

	"github.com/kotae-ai/kotae/internal/config"
	"github.com/kotae-ai/kotae/internal/models"
)

func testConfig() *config.ChunkingConfig {
	return &config.ChunkingConfig{
		TextChunkSize:    1000,
		TextChunkOverlap: 100,
		CodeChunkSize:    500,
		CodeChunkOverlap: 50,
	}
}

func TestSplitShortDocument(t *testing.T) {
	s := New(testConfig())
	doc := &models.Document{
		Text:       "A short paragraph.",
		SourcePath: "/docs/short.txt",
		Format:     models.FormatText,
	}
	chunks := s.Split(doc)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != doc.Text {
		t.Errorf("chunk text = %q, want %q", chunks[0].Text, doc.Text)
	}
}

func TestSplitMetadata(t *testing.T) {
	s := New(testConfig())
	doc := &models.Document{
		Text:       strings.Repeat("word ", 400),
		SourcePath: "/docs/reports/annual.txt",
		Format:     models.FormatText,
		Page:       2,
	}
	chunks := s.Split(doc)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	for i, c := range chunks {
		if c.Metadata.Source != doc.SourcePath {
			t.Errorf("chunk %d source = %q, want %q", i, c.Metadata.Source, doc.SourcePath)
		}
		if c.Metadata.Filename != "annual.txt" {
			t.Errorf("chunk %d filename = %q, want %q", i, c.Metadata.Filename, "annual.txt")
		}
		if c.Metadata.Page != 2 {
			t.Errorf("chunk %d page = %d, want 2", i, c.Metadata.Page)
		}
	}
}

func TestSplitSizeAndCoverage(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		text    string
	}{
		{
			name:    "prose paragraphs",
			profile: Profile{ChunkSize: 200, ChunkOverlap: 40, Separators: proseSeparators},
			text:    strings.Repeat("One sentence here. Another sentence follows. ", 30) + "\n\n" + strings.Repeat("Second paragraph text. ", 20),
		},
		{
			name:    "code declarations",
			profile: Profile{ChunkSize: 150, ChunkOverlap: 30, Separators: codeSeparators},
			text: "package main\n\nfunc one() {\n\treturn\n}\n\nfunc two() {\n\treturn\n}\n" +
				strings.Repeat("\nfunc more() {\n\tcompute()\n\tcompute()\n}\n", 10),
		},
		{
			name:    "no separators",
			profile: Profile{ChunkSize: 100, ChunkOverlap: 20, Separators: proseSeparators},
			text:    strings.Repeat("x", 950),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := tt.profile.Split(tt.text)
			if len(chunks) == 0 {
				t.Fatal("no chunks produced")
			}
			total := 0
			for i, c := range chunks {
				if len(c) > tt.profile.ChunkSize {
					t.Errorf("chunk %d has %d bytes, exceeds limit %d", i, len(c), tt.profile.ChunkSize)
				}
				if !strings.Contains(tt.text, c) {
					t.Errorf("chunk %d is not a substring of the input", i)
				}
				total += len(c)
			}
			// Overlap re-emits text between consecutive chunks, so the chunk
			// bytes must cover the input at least once.
			if total < len(tt.text) {
				t.Errorf("chunks cover %d bytes, input is %d", total, len(tt.text))
			}
		})
	}
}

func TestSplitEmptyText(t *testing.T) {
	p := Profile{ChunkSize: 100, ChunkOverlap: 20, Separators: proseSeparators}
	if chunks := p.Split(""); chunks != nil {
		t.Errorf("empty input should yield no chunks, got %d", len(chunks))
	}
}

func TestSplitCodeUsesCodeProfile(t *testing.T) {
	s := New(&config.ChunkingConfig{
		TextChunkSize:    1000,
		TextChunkOverlap: 100,
		CodeChunkSize:    120,
		CodeChunkOverlap: 20,
	})
	text := strings.Repeat("func handler() {\n\tserve()\n}\n\n", 20)
	doc := &models.Document{Text: text, SourcePath: "/src/main.go", Format: models.FormatCode}
	chunks := s.Split(doc)
	if len(chunks) < 2 {
		t.Fatalf("code document should split under the smaller code chunk size, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if len(c.Text) > 120 {
			t.Errorf("chunk %d has %d bytes, exceeds code chunk size", i, len(c.Text))
		}
	}
}
