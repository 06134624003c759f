// Package keyword provides the text-search index over the corpus vocabulary.
package keyword

import (
	"context"

	"github.com/hyperjump/findword/internal/models"
)

// WordIndex defines text-search operations on words. It serves only the
// search endpoint; similarity ranking never touches it.
type WordIndex interface {
	// Index adds or replaces one word document.
	Index(entry *models.WordEntry) error
	// IndexBatch adds or replaces many word documents in one batch.
	IndexBatch(entries []*models.WordEntry) error
	// Delete removes a word from the index.
	Delete(word string) error
	// Search returns matching words in ascending order. The query selects
	// exact or prefix matching and an optional POS filter.
	Search(ctx context.Context, query *models.SearchQuery) ([]string, error)
	// Reset drops every indexed word.
	Reset() error
	// DocCount returns the number of indexed words.
	DocCount() (uint64, error)
	Close() error
}
