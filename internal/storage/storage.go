// Package storage defines the ingest ledger: a persistent record of which
// files were ingested, when, and with what fingerprint. The ledger lets
// re-ingestion skip files whose content has not changed.
package storage

import "context"

// FileStatus is the recorded outcome of ingesting a file.
type FileStatus string

const (
	StatusIngested FileStatus = "ingested"
	StatusIgnored  FileStatus = "ignored"
	StatusFailed   FileStatus = "failed"
)

// FileRecord is one ledger entry per source file path.
type FileRecord struct {
	Path       string
	Status     FileStatus
	Chunks     int
	ModTimeNS  int64
	Size       int64
	IngestedAt int64
}

// Ledger defines persistence operations for ingest bookkeeping.
type Ledger interface {
	Get(ctx context.Context, path string) (*FileRecord, error)
	Upsert(ctx context.Context, rec *FileRecord) error
	Delete(ctx context.Context, path string) error
	CountFiles(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)
	Close() error
}
