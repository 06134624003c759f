package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hyperjump/findword/internal/models"
)

// MemoryStore implements Store with an in-process map guarded by a RWMutex.
// Reads run concurrently; writes take the exclusive lock.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*models.WordEntry
}

// NewMemoryStore creates an empty in-memory word store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*models.WordEntry),
	}
}

// Upsert inserts or updates a word, reporting whether it was created.
func (s *MemoryStore) Upsert(ctx context.Context, word string, isNoun, isVerb bool, embedding []float32) (*models.WordEntry, bool, error) {
	norm := models.NormalizeWord(word)
	if err := models.ValidateEntry(norm, embedding); err != nil {
		return nil, false, err
	}

	emb := make([]float32, len(embedding))
	copy(emb, embedding)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[norm]; ok {
		existing.IsNoun = isNoun
		existing.IsVerb = isVerb
		existing.Embedding = emb
		existing.UpdatedAt = now
		return existing, false, nil
	}

	entry := &models.WordEntry{
		Word:      norm,
		IsNoun:    isNoun,
		IsVerb:    isVerb,
		Embedding: emb,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.entries[norm] = entry
	return entry, true, nil
}

// Get returns the entry for a word, or models.ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, word string) (*models.WordEntry, error) {
	norm := models.NormalizeWord(word)

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[norm]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, norm)
	}
	return entry, nil
}

// Scan calls fn for every entry in ascending word order, subject to opts.
func (s *MemoryStore) Scan(ctx context.Context, opts ScanOptions, fn func(*models.WordEntry) error) error {
	for _, entry := range s.snapshot() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.Word == opts.Exclude {
			continue
		}
		if !opts.POS.Matches(entry.IsNoun, entry.IsVerb) {
			continue
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

// List returns a page of entries in ascending word order.
func (s *MemoryStore) List(ctx context.Context, offset, limit int) ([]*models.WordEntry, error) {
	all := s.snapshot()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// Count returns the total number of entries.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}

// Stats returns aggregate POS counts.
func (s *MemoryStore) Stats(ctx context.Context) (*models.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.StoreStats{Total: len(s.entries)}
	for _, e := range s.entries {
		if e.IsNoun {
			stats.NounCount++
		}
		if e.IsVerb {
			stats.VerbCount++
		}
		if e.IsNoun && e.IsVerb {
			stats.BothCount++
		}
	}
	return stats, nil
}

// Clear removes all entries and returns how many were removed.
func (s *MemoryStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.entries))
	s.entries = make(map[string]*models.WordEntry)
	return n, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}

// snapshot returns the current entries sorted ascending by word, so scans
// stay consistent while writers proceed.
func (s *MemoryStore) snapshot() []*models.WordEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.WordEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}
