package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLedger implements Ledger using SQLite.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		chunks INTEGER NOT NULL DEFAULT 0,
		mtime_ns INTEGER NOT NULL DEFAULT 0,
		size INTEGER NOT NULL DEFAULT 0,
		ingested_at INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_files_status ON files(status);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the ledger entry for path, or (nil, nil) when absent.
func (s *SQLiteLedger) Get(ctx context.Context, path string) (*FileRecord, error) {
	var rec FileRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT path, status, chunks, mtime_ns, size, ingested_at
		 FROM files WHERE path = ?`, path,
	).Scan(&rec.Path, &rec.Status, &rec.Chunks, &rec.ModTimeNS, &rec.Size, &rec.IngestedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upsert inserts or replaces the ledger entry for rec.Path.
func (s *SQLiteLedger) Upsert(ctx context.Context, rec *FileRecord) error {
	if rec.IngestedAt == 0 {
		rec.IngestedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (path, status, chunks, mtime_ns, size, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			status = excluded.status,
			chunks = excluded.chunks,
			mtime_ns = excluded.mtime_ns,
			size = excluded.size,
			ingested_at = excluded.ingested_at`,
		rec.Path, rec.Status, rec.Chunks, rec.ModTimeNS, rec.Size, rec.IngestedAt,
	)
	return err
}

// Delete removes the ledger entry for path.
func (s *SQLiteLedger) Delete(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path)
	return err
}

// CountFiles returns the number of successfully ingested files.
func (s *SQLiteLedger) CountFiles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM files WHERE status = ?`, StatusIngested,
	).Scan(&count)
	return count, err
}

// CountChunks returns the total number of chunks across ingested files.
func (s *SQLiteLedger) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(chunks), 0) FROM files WHERE status = ?`, StatusIngested,
	).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteLedger) Close() error {
	return s.db.Close()
}
