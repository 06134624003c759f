// Package search provides the word similarity engine.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/findword/internal/keyword"
	"github.com/hyperjump/findword/internal/models"
	"github.com/hyperjump/findword/internal/store"
	"github.com/hyperjump/findword/internal/vector"
)

// Engine answers lookup, similarity, and text-search queries. It is
// read-only over the store, so queries are safe to run concurrently.
//
// Similarity ranking is a brute-force scan: O(N*D) per query over N corpus
// words of dimension D. No index is built for it; that holds up well into
// the tens of thousands of words.
type Engine struct {
	store  store.Store
	index  keyword.WordIndex
	logger *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWordIndex sets the text-search index. Without one, Search falls back
// to scanning the store.
func WithWordIndex(idx keyword.WordIndex) EngineOption {
	return func(e *Engine) { e.index = idx }
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a search engine over the given store.
func NewEngine(s store.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		store:  s,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lookup returns the entry for a word, or models.ErrNotFound.
func (e *Engine) Lookup(ctx context.Context, word string) (*models.WordEntry, error) {
	return e.store.Get(ctx, word)
}

// Compare returns the cosine similarity of two stored words under the
// strict policy: a zero-norm or dimension-mismatched embedding is an error
// here, unlike in ranking.
func (e *Engine) Compare(ctx context.Context, wordA, wordB string) (float64, error) {
	a, err := e.store.Get(ctx, wordA)
	if err != nil {
		return 0, err
	}
	b, err := e.store.Get(ctx, wordB)
	if err != nil {
		return 0, err
	}
	sim, err := vector.CosineSimilarity(a.Embedding, b.Embedding)
	if err != nil {
		return 0, fmt.Errorf("%s vs %s: %w", a.Word, b.Word, err)
	}
	return sim, nil
}

// FindSimilar ranks corpus words by cosine similarity to the target word.
// The target must exist and have a nonzero embedding. Candidates are
// handled permissively: one with a zero norm or a different dimension is
// skipped, never fatal. Results are sorted by descending similarity, ties
// broken by ascending word, truncated to the query limit.
func (e *Engine) FindSimilar(ctx context.Context, query *models.SimilarityQuery) ([]*models.SimilarWord, error) {
	target, err := e.store.Get(ctx, query.Word)
	if err != nil {
		return nil, err
	}
	unit, err := vector.Normalize(target.Embedding)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", target.Word, err)
	}

	start := time.Now()
	var results []*models.SimilarWord
	skipped := 0
	err = e.store.Scan(ctx, store.ScanOptions{POS: query.POS, Exclude: target.Word}, func(entry *models.WordEntry) error {
		if len(entry.Embedding) != len(unit) {
			skipped++
			return nil
		}
		candidate, err := vector.Normalize(entry.Embedding)
		if err != nil {
			skipped++
			return nil
		}
		// Both vectors are unit length, so the dot product is the cosine.
		sim := vector.Dot(unit, candidate)
		if sim < query.MinSimilarity {
			return nil
		}
		results = append(results, &models.SimilarWord{
			Word:       entry.Word,
			IsNoun:     entry.IsNoun,
			IsVerb:     entry.IsVerb,
			Similarity: sim,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Word < results[j].Word
	})
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}

	e.logger.Debug("similarity query",
		zap.String("word", target.Word),
		zap.Int("results", len(results)),
		zap.Int("skipped", skipped),
		zap.Duration("took", time.Since(start)))
	return results, nil
}

// BatchFindSimilar runs FindSimilar for each word, keyed by the word as
// given. A word that cannot be ranked (unknown, invalid, zero vector) gets
// an empty list; one bad word never aborts the batch.
func (e *Engine) BatchFindSimilar(ctx context.Context, words []string, pos models.POS, limit int, minSimilarity float64) (map[string][]*models.SimilarWord, error) {
	out := make(map[string][]*models.SimilarWord, len(words))
	for _, word := range words {
		query := &models.SimilarityQuery{
			Word:          word,
			POS:           pos,
			Limit:         limit,
			MinSimilarity: minSimilarity,
		}
		if err := query.Validate(); err != nil {
			e.logger.Debug("batch similarity skipping word", zap.String("word", word), zap.Error(err))
			out[word] = []*models.SimilarWord{}
			continue
		}
		results, err := e.FindSimilar(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Debug("batch similarity skipping word", zap.String("word", word), zap.Error(err))
			out[word] = []*models.SimilarWord{}
			continue
		}
		if results == nil {
			results = []*models.SimilarWord{}
		}
		out[word] = results
	}
	return out, nil
}

// Search returns corpus entries whose word matches the query exactly or by
// prefix, ascending by word. With a word index configured the index answers
// and entries are fetched from the store; otherwise the store is scanned.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) ([]*models.WordEntry, error) {
	if e.index == nil {
		return e.scanSearch(ctx, query)
	}
	words, err := e.index.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	entries := make([]*models.WordEntry, 0, len(words))
	for _, w := range words {
		entry, err := e.store.Get(ctx, w)
		if err != nil {
			e.logger.Warn("indexed word missing from store", zap.String("word", w), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

var errScanDone = errors.New("scan done")

func (e *Engine) scanSearch(ctx context.Context, query *models.SearchQuery) ([]*models.WordEntry, error) {
	var entries []*models.WordEntry
	err := e.store.Scan(ctx, store.ScanOptions{POS: query.POS}, func(entry *models.WordEntry) error {
		if query.Exact {
			if entry.Word != query.Query {
				return nil
			}
		} else if !strings.HasPrefix(entry.Word, query.Query) {
			return nil
		}
		entries = append(entries, entry)
		if query.Limit > 0 && len(entries) >= query.Limit {
			return errScanDone
		}
		return nil
	})
	if err != nil && !errors.Is(err, errScanDone) {
		return nil, err
	}
	return entries, nil
}

// List returns a page of entries in ascending word order.
func (e *Engine) List(ctx context.Context, offset, limit int) ([]*models.WordEntry, error) {
	return e.store.List(ctx, offset, limit)
}

// Stats returns aggregate corpus counts.
func (e *Engine) Stats(ctx context.Context) (*models.StoreStats, error) {
	return e.store.Stats(ctx)
}
