// Package ingest runs the ingestion pipeline: load, split, embed, upsert.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kotae-ai/kotae/internal/embedding"
	"github.com/kotae-ai/kotae/internal/fileid"
	"github.com/kotae-ai/kotae/internal/loader"
	"github.com/kotae-ai/kotae/internal/models"
	"github.com/kotae-ai/kotae/internal/splitter"
	"github.com/kotae-ai/kotae/internal/storage"
	"github.com/kotae-ai/kotae/internal/vector"
)

// File outcome statuses reported per ingested file.
const (
	StatusIngested = "ingested"
	StatusIgnored  = "ignored"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// FileResult is the per-file outcome in an ingest report.
type FileResult struct {
	Status        string `json:"status"`
	ChunksCreated int    `json:"chunks_created,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Report summarizes one ingest request. Details holds one single-key map per
// file, keyed by filename, in walk order.
type Report struct {
	Message string                  `json:"message"`
	Details []map[string]FileResult `json:"details"`
}

// Ingester drives documents through load, split, embed and upsert, recording
// outcomes in the ledger.
type Ingester struct {
	loader   *loader.Loader
	splitter *splitter.Splitter
	embedder embedding.Embedder
	store    vector.Store
	ledger   storage.Ledger
	logger   *zap.Logger
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Ingester) {
		i.logger = logger
	}
}

// New creates an Ingester over the given pipeline components.
func New(ld *loader.Loader, sp *splitter.Splitter, emb embedding.Embedder, store vector.Store, ledger storage.Ledger, opts ...Option) *Ingester {
	ing := &Ingester{
		loader:   ld,
		splitter: sp,
		embedder: emb,
		store:    store,
		ledger:   ledger,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// IngestPath ingests a single file or, for a directory, every file under it.
// Dotfiles and dot-directories are skipped. A failing file is recorded in the
// report and the batch continues.
func (i *Ingester) IngestPath(ctx context.Context, path string) (*Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	report := &Report{}
	if !info.IsDir() {
		i.ingestInto(ctx, report, path)
		report.Message = summarize(report)
		return report, nil
	}

	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		i.ingestInto(ctx, report, p)
		return ctx.Err()
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", path, walkErr)
	}
	report.Message = summarize(report)
	return report, nil
}

// IngestFile ingests one file and returns its outcome. Used by the watcher
// and the directory walk.
func (i *Ingester) IngestFile(ctx context.Context, path string) FileResult {
	info, err := os.Stat(path)
	if err != nil {
		return FileResult{Status: StatusFailed, Error: err.Error()}
	}

	// Unchanged files (same mtime and size as the last run) are skipped.
	if rec, err := i.ledger.Get(ctx, path); err == nil && rec != nil &&
		rec.Status == storage.StatusIngested &&
		rec.ModTimeNS == info.ModTime().UnixNano() && rec.Size == info.Size() {
		i.logger.Debug("file unchanged, skipping", zap.String("path", path))
		return FileResult{Status: StatusSkipped, ChunksCreated: rec.Chunks, Reason: "unchanged"}
	}

	result := i.ingestOnce(ctx, path)

	rec := &storage.FileRecord{
		Path:      path,
		Chunks:    result.ChunksCreated,
		ModTimeNS: info.ModTime().UnixNano(),
		Size:      info.Size(),
	}
	switch result.Status {
	case StatusIngested:
		rec.Status = storage.StatusIngested
	case StatusIgnored:
		rec.Status = storage.StatusIgnored
	default:
		rec.Status = storage.StatusFailed
	}
	if err := i.ledger.Upsert(ctx, rec); err != nil {
		i.logger.Warn("failed to record ingest outcome", zap.String("path", path), zap.Error(err))
	}
	return result
}

func (i *Ingester) ingestOnce(ctx context.Context, path string) FileResult {
	loaded, err := i.loader.Load(path)
	if err != nil {
		i.logger.Error("load failed", zap.String("path", path), zap.Error(err))
		return FileResult{Status: StatusFailed, Error: err.Error()}
	}
	if loaded.Status == loader.StatusIgnored {
		i.logger.Debug("file ignored", zap.String("path", path), zap.String("reason", loaded.Reason))
		return FileResult{Status: StatusIgnored, Reason: loaded.Reason}
	}

	var chunks []splitterChunk
	for _, doc := range loaded.Documents {
		for _, c := range i.splitter.Split(&doc) {
			chunks = append(chunks, splitterChunk{text: c.Text, metadata: c.Metadata})
		}
	}
	if len(chunks) == 0 {
		return FileResult{Status: StatusIgnored, Reason: "no extractable text"}
	}

	texts := make([]string, len(chunks))
	for n, c := range chunks {
		texts[n] = c.text
	}
	vecs, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		i.logger.Error("embedding failed", zap.String("path", path), zap.Error(err))
		return FileResult{Status: StatusFailed, Error: err.Error()}
	}

	records := make([]vector.Record, len(chunks))
	for n, c := range chunks {
		records[n] = vector.Record{
			ID:       fileid.ChunkID(path, n),
			Vector:   vecs[n],
			Text:     c.text,
			Metadata: c.metadata,
		}
	}

	// Earlier versions of the file may have had more chunks than this one;
	// clearing by source first keeps stale tails from surviving the upsert.
	if err := i.store.DeleteBySource(ctx, path); err != nil {
		i.logger.Error("delete previous records failed", zap.String("path", path), zap.Error(err))
		return FileResult{Status: StatusFailed, Error: err.Error()}
	}
	if err := i.store.Upsert(ctx, records); err != nil {
		i.logger.Error("upsert failed", zap.String("path", path), zap.Error(err))
		return FileResult{Status: StatusFailed, Error: err.Error()}
	}

	i.logger.Info("file ingested",
		zap.String("path", path),
		zap.Int("chunks", len(records)))
	return FileResult{Status: StatusIngested, ChunksCreated: len(records)}
}

// Remove deletes a file's vector records and ledger entry, for files removed
// from disk.
func (i *Ingester) Remove(ctx context.Context, path string) error {
	if err := i.store.DeleteBySource(ctx, path); err != nil {
		return fmt.Errorf("delete records for %s: %w", path, err)
	}
	if err := i.ledger.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete ledger entry for %s: %w", path, err)
	}
	i.logger.Info("file removed from index", zap.String("path", path))
	return nil
}

func (i *Ingester) ingestInto(ctx context.Context, report *Report, path string) {
	result := i.IngestFile(ctx, path)
	report.Details = append(report.Details, map[string]FileResult{
		filepath.Base(path): result,
	})
}

func summarize(report *Report) string {
	var ingested, ignored, skipped, failed int
	for _, detail := range report.Details {
		for _, result := range detail {
			switch result.Status {
			case StatusIngested:
				ingested++
			case StatusIgnored:
				ignored++
			case StatusSkipped:
				skipped++
			default:
				failed++
			}
		}
	}
	return fmt.Sprintf("%d ingested, %d skipped, %d ignored, %d failed",
		ingested, skipped, ignored, failed)
}

type splitterChunk struct {
	text     string
	metadata models.ChunkMetadata
}
