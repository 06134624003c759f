package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/findword/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if they do not
// exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
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

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS words (
		word TEXT PRIMARY KEY,
		is_noun INTEGER NOT NULL DEFAULT 0,
		is_verb INTEGER NOT NULL DEFAULT 0,
		embedding TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_words_is_noun ON words(is_noun);
	CREATE INDEX IF NOT EXISTS idx_words_is_verb ON words(is_verb);
	`
	_, err := db.Exec(schema)
	return err
}

// Upsert inserts or updates a word, reporting whether it was created.
func (s *SQLiteStore) Upsert(ctx context.Context, word string, isNoun, isVerb bool, embedding []float32) (*models.WordEntry, bool, error) {
	norm := models.NormalizeWord(word)
	if err := models.ValidateEntry(norm, embedding); err != nil {
		return nil, false, err
	}

	embJSON, err := json.Marshal(embedding)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal embedding: %w", err)
	}
	now := time.Now()

	var createdAt time.Time
	var created bool
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM words WHERE word = ?`, norm,
	).Scan(&createdAt)

	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO words (word, is_noun, is_verb, embedding, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			norm, isNoun, isVerb, string(embJSON), now, now,
		)
		if err != nil {
			return nil, false, err
		}
		createdAt = now
		created = true
	case err != nil:
		return nil, false, err
	default:
		_, err = s.db.ExecContext(ctx,
			`UPDATE words SET is_noun = ?, is_verb = ?, embedding = ?, updated_at = ?
			 WHERE word = ?`,
			isNoun, isVerb, string(embJSON), now, norm,
		)
		if err != nil {
			return nil, false, err
		}
	}

	entry := &models.WordEntry{
		Word:      norm,
		IsNoun:    isNoun,
		IsVerb:    isVerb,
		Embedding: embedding,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	return entry, created, nil
}

// Get returns the entry for a word, or models.ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, word string) (*models.WordEntry, error) {
	norm := models.NormalizeWord(word)

	var entry models.WordEntry
	var embJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT word, is_noun, is_verb, embedding, created_at, updated_at
		 FROM words WHERE word = ?`, norm,
	).Scan(&entry.Word, &entry.IsNoun, &entry.IsVerb, &embJSON, &entry.CreatedAt, &entry.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, norm)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(embJSON), &entry.Embedding); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedding for %q: %w", norm, err)
	}
	return &entry, nil
}

// Scan calls fn for every entry in ascending word order, subject to opts.
func (s *SQLiteStore) Scan(ctx context.Context, opts ScanOptions, fn func(*models.WordEntry) error) error {
	query := `SELECT word, is_noun, is_verb, embedding, created_at, updated_at FROM words`
	var conds []string
	var args []interface{}
	if opts.Exclude != "" {
		conds = append(conds, "word != ?")
		args = append(args, opts.Exclude)
	}
	switch opts.POS {
	case models.POSNoun:
		conds = append(conds, "is_noun = 1")
	case models.POSVerb:
		conds = append(conds, "is_verb = 1")
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY word ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.WordEntry
		var embJSON string
		if err := rows.Scan(&entry.Word, &entry.IsNoun, &entry.IsVerb, &embJSON, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(embJSON), &entry.Embedding); err != nil {
			return fmt.Errorf("failed to unmarshal embedding for %q: %w", entry.Word, err)
		}
		if err := fn(&entry); err != nil {
			return err
		}
	}
	return rows.Err()
}

// List returns a page of entries in ascending word order. limit <= 0 means
// no limit.
func (s *SQLiteStore) List(ctx context.Context, offset, limit int) ([]*models.WordEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, is_noun, is_verb, embedding, created_at, updated_at
		 FROM words ORDER BY word ASC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.WordEntry
	for rows.Next() {
		var entry models.WordEntry
		var embJSON string
		if err := rows.Scan(&entry.Word, &entry.IsNoun, &entry.IsVerb, &embJSON, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(embJSON), &entry.Embedding); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding for %q: %w", entry.Word, err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Count returns the total number of entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&count)
	return count, err
}

// Stats returns aggregate POS counts.
func (s *SQLiteStore) Stats(ctx context.Context) (*models.StoreStats, error) {
	var stats models.StoreStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(is_noun), 0),
		        COALESCE(SUM(is_verb), 0),
		        COALESCE(SUM(is_noun * is_verb), 0)
		 FROM words`,
	).Scan(&stats.Total, &stats.NounCount, &stats.VerbCount, &stats.BothCount)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Clear removes all entries and returns how many were removed.
func (s *SQLiteStore) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM words`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
