// Package browse lists the mounted document tree for clients picking what to
// ingest. All paths are relative to a fixed root; escapes are rejected.
package browse

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kotae-ai/kotae/internal/models"
)

var (
	// ErrNotFound means the requested path does not exist under the root.
	ErrNotFound = errors.New("path not found")
	// ErrNotADirectory means the requested path is a file.
	ErrNotADirectory = errors.New("not a directory")
	// ErrInvalidPath means the requested path escapes the mounted root.
	ErrInvalidPath = errors.New("invalid path")
)

// Entry types reported to clients.
const (
	TypeFile      = "file"
	TypeDirectory = "directory"
)

// Entry is one directory listing item. Path is relative to the root and can
// be passed back to browse or ingest.
type Entry struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`
}

// Browser lists directories under a mounted root.
type Browser struct {
	root string
}

// New creates a Browser rooted at the mounted document directory.
func New(root string) *Browser {
	return &Browser{root: filepath.Clean(root)}
}

// Resolve maps a client-supplied relative path to an absolute path under the
// root, rejecting traversal outside it.
func (b *Browser) Resolve(rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if filepath.IsAbs(rel) {
		return "", ErrInvalidPath
	}
	abs := filepath.Join(b.root, rel)
	if abs != b.root && !strings.HasPrefix(abs, b.root+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return abs, nil
}

// SourcePath returns the models.Source for an absolute path under the root.
func (b *Browser) SourcePath(abs string) models.Source {
	rel, err := filepath.Rel(b.root, abs)
	if err != nil {
		rel = abs
	}
	return models.Source{Source: filepath.Base(abs), Path: rel}
}

// List returns the entries of the directory at rel, directories first, each
// group sorted case-insensitively by name. Dotfiles are hidden.
func (b *Browser) List(rel string) ([]Entry, error) {
	abs, err := b.Resolve(rel)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotADirectory
	}

	dirents, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if strings.HasPrefix(d.Name(), ".") {
			continue
		}
		entryType := TypeFile
		if d.IsDir() {
			entryType = TypeDirectory
		}
		entries = append(entries, Entry{
			Name: d.Name(),
			Type: entryType,
			Path: filepath.Join(rel, d.Name()),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Type != entries[j].Type {
			return entries[i].Type == TypeDirectory
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries, nil
}
