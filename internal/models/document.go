// Package models defines core data structures for documents, chunks, and answers.
package models

// Format classifies a loaded document and selects the chunking profile.
type Format string

const (
	// FormatPDF is a PDF document; one Document is produced per page.
	FormatPDF Format = "pdf"
	// FormatDocx is an OOXML word-processing document.
	FormatDocx Format = "docx"
	// FormatCode is structured source code; split with syntax-aware separators.
	FormatCode Format = "code"
	// FormatText is prose or generic structured text.
	FormatText Format = "text"
)

// Document is one unit of raw text produced by the loader.
// Immutable once created; consumed by the splitter.
type Document struct {
	Text       string
	SourcePath string
	Format     Format
	Page       int // 1-based page number for PDFs, 0 otherwise
}

// ChunkMetadata travels with every chunk into the vector store.
// Source and Filename are required for citation in answers.
type ChunkMetadata struct {
	Source   string `json:"source"`
	Filename string `json:"filename"`
	Page     int    `json:"page,omitempty"`
}

// Chunk is a bounded-size slice of a document's text, the unit of
// embedding and retrieval.
type Chunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// Source is one citation attached to an answer.
type Source struct {
	Source string `json:"source"`
	Path   string `json:"path"`
}

// Answer is the response to a chat question: generated text plus the
// retrieved chunks' origins.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
