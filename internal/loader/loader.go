// Package loader turns files into raw text documents, selecting a parser by
// file type. Unsupported formats are reported as an ignored result rather
// than an error so that directory ingestion can continue past them.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kotae-ai/kotae/internal/models"
)

// ErrUnsupportedFormat marks a file whose extension matches no recognized type.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Status of a load attempt.
type Status string

const (
	// StatusLoaded means the file was parsed into one or more documents.
	StatusLoaded Status = "loaded"
	// StatusIgnored means the file's format is not recognized; Reason says why.
	StatusIgnored Status = "ignored"
)

// Result is the outcome of loading one file.
type Result struct {
	Status    Status
	Reason    string
	Documents []models.Document
}

// Loader parses files into documents.
type Loader struct{}

// New returns a new Loader.
func New() *Loader {
	return &Loader{}
}

// codeExtensions are source files split with syntax-aware separators to
// preserve declaration boundaries.
var codeExtensions = map[string]bool{
	".py": true, ".go": true, ".js": true, ".ts": true, ".java": true,
	".c": true, ".h": true, ".cpp": true, ".rs": true, ".rb": true,
	".sh": true, ".dockerfile": true,
}

// textExtensions are prose or generic structured text.
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".rst": true, ".json": true,
	".yml": true, ".yaml": true, ".toml": true, ".csv": true,
}

// specialBasenames are extension-less files recognized as code.
var specialBasenames = map[string]bool{
	"Dockerfile": true, "Makefile": true,
}

// Classify returns the format for path and whether it is recognized.
func Classify(path string) (models.Format, bool) {
	base := filepath.Base(path)
	if specialBasenames[base] {
		return models.FormatCode, true
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return models.FormatPDF, true
	case ext == ".docx":
		return models.FormatDocx, true
	case codeExtensions[ext]:
		return models.FormatCode, true
	case textExtensions[ext]:
		return models.FormatText, true
	default:
		return "", false
	}
}

// Load reads the file at path and parses it into documents. A file of an
// unrecognized format yields StatusIgnored with no error; read or parse
// failures return an error.
func (l *Loader) Load(path string) (*Result, error) {
	format, ok := Classify(path)
	if !ok {
		return &Result{Status: StatusIgnored, Reason: ErrUnsupportedFormat.Error()}, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var docs []models.Document
	switch format {
	case models.FormatPDF:
		docs, err = loadPDF(path, content)
	case models.FormatDocx:
		docs, err = loadDocx(path, content)
	default:
		docs, err = loadPlain(path, content, format)
	}
	if err != nil {
		return nil, err
	}
	return &Result{Status: StatusLoaded, Documents: docs}, nil
}
