// Package splitter splits documents into overlapping fixed-size chunks.
// Splitting is recursive: text is broken on the coarsest separator that
// occurs, and oversized pieces are re-split on finer separators, so chunks
// follow paragraph and declaration boundaries where possible.
package splitter

import (
	"path/filepath"
	"strings"

	"github.com/kotae-ai/kotae/internal/config"
	"github.com/kotae-ai/kotae/internal/models"
)

// proseSeparators break prose at paragraphs, then lines, sentences, words.
var proseSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// codeSeparators keep top-level declarations together before falling back
// to blank lines, lines, and words.
var codeSeparators = []string{"\nfunc ", "\ndef ", "\nclass ", "\ntype ", "\n\n", "\n", " ", ""}

// Profile is one splitting configuration: chunk size and overlap in bytes,
// plus the ordered separator list.
type Profile struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// Splitter selects a profile per document format and produces chunks.
type Splitter struct {
	text Profile
	code Profile
}

// New creates a splitter from the chunking configuration.
func New(cfg *config.ChunkingConfig) *Splitter {
	return &Splitter{
		text: Profile{ChunkSize: cfg.TextChunkSize, ChunkOverlap: cfg.TextChunkOverlap, Separators: proseSeparators},
		code: Profile{ChunkSize: cfg.CodeChunkSize, ChunkOverlap: cfg.CodeChunkOverlap, Separators: codeSeparators},
	}
}

// Split breaks doc into ordered chunks. A document shorter than the chunk
// size yields exactly one chunk. Every chunk carries the source path and
// base filename in its metadata for citation.
func (s *Splitter) Split(doc *models.Document) []models.Chunk {
	profile := s.text
	if doc.Format == models.FormatCode {
		profile = s.code
	}
	pieces := profile.Split(doc.Text)
	chunks := make([]models.Chunk, 0, len(pieces))
	for _, text := range pieces {
		chunks = append(chunks, models.Chunk{
			Text: text,
			Metadata: models.ChunkMetadata{
				Source:   doc.SourcePath,
				Filename: filepath.Base(doc.SourcePath),
				Page:     doc.Page,
			},
		})
	}
	return chunks
}

// Split splits text into chunks of at most ChunkSize bytes with ChunkOverlap
// bytes carried between consecutive chunks. Chunks are contiguous substrings
// of the input; nothing is dropped.
func (p Profile) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= p.ChunkSize {
		return []string{text}
	}
	pieces := p.splitRecursive(text, p.Separators)
	return p.merge(pieces)
}

// splitRecursive breaks text into pieces no longer than ChunkSize, using the
// first separator in seps that occurs in text and recursing on the rest for
// oversized parts.
func (p Profile) splitRecursive(text string, seps []string) []string {
	if len(text) <= p.ChunkSize {
		return []string{text}
	}
	sep, rest := chooseSeparator(text, seps)
	if sep == "" {
		return p.hardCut(text)
	}
	var pieces []string
	for _, part := range splitKeepSep(text, sep) {
		if len(part) <= p.ChunkSize {
			pieces = append(pieces, part)
		} else {
			pieces = append(pieces, p.splitRecursive(part, rest)...)
		}
	}
	return pieces
}

// chooseSeparator returns the first separator present in text and the
// remaining finer separators. The empty separator means hard cutting.
func chooseSeparator(text string, seps []string) (string, []string) {
	for i, sep := range seps {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, seps[i+1:]
		}
	}
	return "", nil
}

// splitKeepSep splits text after each occurrence of sep, keeping the
// separator attached so that concatenating the parts reproduces text.
func splitKeepSep(text, sep string) []string {
	var parts []string
	for {
		i := strings.Index(text, sep)
		if i < 0 {
			if text != "" {
				parts = append(parts, text)
			}
			return parts
		}
		parts = append(parts, text[:i+len(sep)])
		text = text[i+len(sep):]
	}
}

// hardCut slices text on rune boundaries into pieces small enough for the
// merge step to build overlapping windows from.
func (p Profile) hardCut(text string) []string {
	block := p.ChunkOverlap
	if block <= 0 {
		block = 64
	}
	var parts []string
	runes := []rune(text)
	start := 0
	for start < len(runes) {
		end := start
		size := 0
		for end < len(runes) {
			rl := len(string(runes[end]))
			if size+rl > block && size > 0 {
				break
			}
			size += rl
			end++
		}
		parts = append(parts, string(runes[start:end]))
		start = end
	}
	return parts
}

// merge greedily joins consecutive pieces into chunks of at most ChunkSize,
// carrying up to ChunkOverlap bytes of trailing pieces into the next chunk.
func (p Profile) merge(pieces []string) []string {
	var chunks []string
	var cur []string
	curLen := 0
	for _, piece := range pieces {
		if curLen > 0 && curLen+len(piece) > p.ChunkSize {
			chunks = append(chunks, strings.Join(cur, ""))
			for curLen > 0 && (curLen > p.ChunkOverlap || curLen+len(piece) > p.ChunkSize) {
				curLen -= len(cur[0])
				cur = cur[1:]
			}
		}
		cur = append(cur, piece)
		curLen += len(piece)
	}
	if curLen > 0 {
		chunks = append(chunks, strings.Join(cur, ""))
	}
	return chunks
}
