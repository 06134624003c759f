// Package store defines the persistence interface for the word corpus and
// provides SQLite and in-memory implementations.
package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hyperjump/findword/internal/models"
)

// ScanOptions restricts a corpus scan. POS filters by part of speech and
// Exclude drops one word (already normalized) from the sequence.
type ScanOptions struct {
	POS     models.POS
	Exclude string
}

// Store defines word persistence operations. Words are keyed
// case-insensitively: implementations normalize on both write and read.
// Returned entries are shared and must be treated as read-only by callers.
type Store interface {
	// Upsert inserts or updates a word, reporting whether it was created.
	// The word is normalized and the entry validated before writing; a new
	// entry gets CreatedAt = UpdatedAt = now, an existing one keeps
	// CreatedAt and has flags, embedding, and UpdatedAt replaced.
	Upsert(ctx context.Context, word string, isNoun, isVerb bool, embedding []float32) (*models.WordEntry, bool, error)

	// Get returns the entry for a word, or models.ErrNotFound.
	Get(ctx context.Context, word string) (*models.WordEntry, error)

	// Scan calls fn for every entry in ascending word order, subject to
	// opts. An error from fn aborts the scan and is returned.
	Scan(ctx context.Context, opts ScanOptions, fn func(*models.WordEntry) error) error

	// List returns a page of entries in ascending word order.
	List(ctx context.Context, offset, limit int) ([]*models.WordEntry, error)

	// Count returns the total number of entries.
	Count(ctx context.Context) (int64, error)

	// Stats returns aggregate POS counts.
	Stats(ctx context.Context) (*models.StoreStats, error)

	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int64, error)

	Close() error
}

// BackendType selects the store implementation.
type BackendType string

const (
	// BackendSQLite persists words in a SQLite database.
	BackendSQLite BackendType = "sqlite"
	// BackendMemory keeps words in process memory. Nothing survives a
	// restart; intended for tests and throwaway runs.
	BackendMemory BackendType = "memory"
)

// New creates a word store of the given backend type. Supported types:
// "sqlite" (default), "memory". path is the SQLite database location and is
// ignored by the memory backend.
func New(backend, path string) (Store, error) {
	switch BackendType(backend) {
	case BackendSQLite, "":
		return NewSQLiteStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: sqlite, memory)", backend)
	}
}

// DiskUsageBytes sums the on-disk size of the given files or directory
// trees. Empty and missing paths count as zero.
func DiskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if !info.IsDir() {
			total += info.Size()
			continue
		}
		err = filepath.WalkDir(p, func(_ string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			total += fi.Size()
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
