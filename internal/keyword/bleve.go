package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/findword/internal/models"
)

// wordDoc is the document shape indexed per word. Embeddings are never
// indexed; they stay in the store.
type wordDoc struct {
	Word   string `json:"word"`
	IsNoun bool   `json:"is_noun"`
	IsVerb bool   `json:"is_verb"`
}

// BleveIndex implements WordIndex using Bleve. The document ID is the
// normalized word, so indexing the same word twice replaces the document.
type BleveIndex struct {
	index bleve.Index
	path  string
}

func buildMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	// Keyword analyzer keeps the word as a single untokenized term, so term
	// queries match whole words and prefix queries run on the raw string.
	// Words are lower-cased before indexing.
	wordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("word", wordFieldMapping)
	docMapping.AddFieldMappingsAt("is_noun", bleve.NewBooleanFieldMapping())
	docMapping.AddFieldMappingsAt("is_verb", bleve.NewBooleanFieldMapping())
	im.AddDocumentMapping("word", docMapping)
	im.DefaultType = "word"
	im.DefaultMapping = docMapping

	return im
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index is
// opened and reused; remove the directory to force a rebuild after a mapping
// change.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index, path: path}, nil
	}

	index, err := bleve.New(path, buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index, path: path}, nil
}

// Index adds or replaces one word document.
func (b *BleveIndex) Index(entry *models.WordEntry) error {
	return b.index.Index(entry.Word, wordDoc{
		Word:   entry.Word,
		IsNoun: entry.IsNoun,
		IsVerb: entry.IsVerb,
	})
}

// IndexBatch adds or replaces many word documents in one batch.
func (b *BleveIndex) IndexBatch(entries []*models.WordEntry) error {
	batch := b.index.NewBatch()
	for _, entry := range entries {
		err := batch.Index(entry.Word, wordDoc{
			Word:   entry.Word,
			IsNoun: entry.IsNoun,
			IsVerb: entry.IsVerb,
		})
		if err != nil {
			return err
		}
	}
	return b.index.Batch(batch)
}

// Delete removes a word from the index.
func (b *BleveIndex) Delete(word string) error {
	return b.index.Delete(models.NormalizeWord(word))
}

// Search returns matching words in ascending order.
func (b *BleveIndex) Search(ctx context.Context, query *models.SearchQuery) ([]string, error) {
	var wordQuery blevequery.Query
	if query.Exact {
		q := bleve.NewTermQuery(query.Query)
		q.SetField("word")
		wordQuery = q
	} else {
		q := bleve.NewPrefixQuery(query.Query)
		q.SetField("word")
		wordQuery = q
	}

	conjuncts := []blevequery.Query{wordQuery}
	switch query.POS {
	case models.POSNoun:
		bq := bleve.NewBoolFieldQuery(true)
		bq.SetField("is_noun")
		conjuncts = append(conjuncts, bq)
	case models.POSVerb:
		bq := bleve.NewBoolFieldQuery(true)
		bq.SetField("is_verb")
		conjuncts = append(conjuncts, bq)
	}

	q := wordQuery
	if len(conjuncts) > 1 {
		q = bleve.NewConjunctionQuery(conjuncts...)
	}

	size := query.Limit
	if size <= 0 {
		count, err := b.index.DocCount()
		if err != nil {
			return nil, fmt.Errorf("failed to get doc count: %w", err)
		}
		size = int(count)
	}

	req := bleve.NewSearchRequest(q)
	req.Size = size
	req.SortBy([]string{"_id"})
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}

	out := make([]string, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = hit.ID
	}
	return out, nil
}

// Reset drops every indexed word by recreating the index directory.
func (b *BleveIndex) Reset() error {
	if err := b.index.Close(); err != nil {
		return fmt.Errorf("failed to close Bleve index: %w", err)
	}
	if err := os.RemoveAll(b.path); err != nil {
		return fmt.Errorf("failed to remove Bleve index: %w", err)
	}
	index, err := bleve.New(b.path, buildMapping())
	if err != nil {
		return fmt.Errorf("failed to recreate Bleve index: %w", err)
	}
	b.index = index
	return nil
}

// DocCount returns the number of indexed words.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
