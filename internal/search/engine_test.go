package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/hyperjump/findword/internal/models"
	"github.com/hyperjump/findword/internal/store"
)

func newFixtureEngine(t *testing.T) (*Engine, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()
	fixtures := []struct {
		word   string
		isNoun bool
		isVerb bool
		emb    []float32
	}{
		{"dog", true, false, []float32{0.1, 0.2, 0.3, 0.4, 0.5}},
		{"cat", true, false, []float32{0.15, 0.25, 0.35, 0.45, 0.55}},
		{"run", false, true, []float32{0.9, 0.8, 0.7, 0.6, 0.5}},
	}
	for _, f := range fixtures {
		if _, _, err := s.Upsert(ctx, f.word, f.isNoun, f.isVerb, f.emb); err != nil {
			t.Fatal(err)
		}
	}
	return NewEngine(s), s
}

func TestEngine_FindSimilarRanking(t *testing.T) {
	e, _ := newFixtureEngine(t)

	results, err := e.FindSimilar(context.Background(), &models.SimilarityQuery{Word: "dog", Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Word != "cat" || results[1].Word != "run" {
		t.Errorf("ranking = [%s %s], want [cat run]", results[0].Word, results[1].Word)
	}
	if results[0].Similarity <= 0.9 {
		t.Errorf("similarity(dog, cat) = %v, want > 0.9", results[0].Similarity)
	}
	if results[0].Similarity < results[1].Similarity {
		t.Error("results must be non-increasing in similarity")
	}
}

func TestEngine_FindSimilarExcludesTarget(t *testing.T) {
	e, _ := newFixtureEngine(t)

	results, err := e.FindSimilar(context.Background(), &models.SimilarityQuery{Word: "dog", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Word == "dog" {
			t.Error("target word must not appear in its own results")
		}
	}
}

func TestEngine_FindSimilarMinSimilarity(t *testing.T) {
	e, _ := newFixtureEngine(t)

	results, err := e.FindSimilar(context.Background(), &models.SimilarityQuery{
		Word: "dog", Limit: 10, MinSimilarity: 0.9,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Word != "cat" {
		t.Errorf("min_similarity=0.9 should keep only cat, got %v", results)
	}
	for _, r := range results {
		if r.Similarity < 0.9 {
			t.Errorf("result %s below threshold: %v", r.Word, r.Similarity)
		}
	}
}

func TestEngine_FindSimilarLimit(t *testing.T) {
	e, _ := newFixtureEngine(t)

	results, err := e.FindSimilar(context.Background(), &models.SimilarityQuery{Word: "dog", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 1 {
		t.Errorf("limit=1 returned %d results", len(results))
	}
}

func TestEngine_FindSimilarPOSFilter(t *testing.T) {
	e, _ := newFixtureEngine(t)

	results, err := e.FindSimilar(context.Background(), &models.SimilarityQuery{
		Word: "dog", POS: models.POSNoun, Limit: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Word != "cat" {
		t.Errorf("noun filter should keep only cat, got %v", results)
	}
	for _, r := range results {
		if !r.IsNoun {
			t.Errorf("noun filter returned non-noun %s", r.Word)
		}
	}
}

func TestEngine_FindSimilarTieBreaksAscending(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	emb := []float32{0.1, 0.2, 0.3}
	same := []float32{0.2, 0.4, 0.6}
	mustUpsert(t, s, "anchor", emb)
	mustUpsert(t, s, "zebra", same)
	mustUpsert(t, s, "apple", same)
	e := NewEngine(s)

	results, err := e.FindSimilar(ctx, &models.SimilarityQuery{Word: "anchor", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Word != "apple" || results[1].Word != "zebra" {
		t.Errorf("equal similarities must sort ascending by word, got [%s %s]",
			results[0].Word, results[1].Word)
	}
}

func TestEngine_FindSimilarUnknownWord(t *testing.T) {
	e, _ := newFixtureEngine(t)

	_, err := e.FindSimilar(context.Background(), &models.SimilarityQuery{Word: "ghost", Limit: 10})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEngine_FindSimilarZeroVectorTarget(t *testing.T) {
	s := store.NewMemoryStore()
	mustUpsert(t, s, "void", []float32{0, 0, 0})
	mustUpsert(t, s, "dog", []float32{0.1, 0.2, 0.3})
	e := NewEngine(s)

	_, err := e.FindSimilar(context.Background(), &models.SimilarityQuery{Word: "void", Limit: 10})
	if !errors.Is(err, models.ErrZeroVector) {
		t.Errorf("expected ErrZeroVector for zero-norm target, got %v", err)
	}
}

func TestEngine_FindSimilarSkipsBadCandidates(t *testing.T) {
	s := store.NewMemoryStore()
	mustUpsert(t, s, "dog", []float32{0.1, 0.2, 0.3})
	mustUpsert(t, s, "cat", []float32{0.2, 0.4, 0.6})
	mustUpsert(t, s, "void", []float32{0, 0, 0})
	mustUpsert(t, s, "short", []float32{0.5, 0.5})
	e := NewEngine(s)

	results, err := e.FindSimilar(context.Background(), &models.SimilarityQuery{Word: "dog", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Word != "cat" {
		t.Errorf("zero-norm and mismatched candidates must be skipped, got %v", results)
	}
}

func TestEngine_BatchFindSimilar(t *testing.T) {
	e, _ := newFixtureEngine(t)

	out, err := e.BatchFindSimilar(context.Background(), []string{"dog", "ghost"}, models.POSAny, 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(out))
	}
	if len(out["dog"]) == 0 {
		t.Error("known word should have ranked results")
	}
	if results, ok := out["ghost"]; !ok || len(results) != 0 {
		t.Errorf("unknown word should map to an empty list, got %v", results)
	}
}

func TestEngine_Compare(t *testing.T) {
	e, _ := newFixtureEngine(t)
	ctx := context.Background()

	sim, err := e.Compare(ctx, "dog", "cat")
	if err != nil {
		t.Fatal(err)
	}
	if sim <= 0.9 {
		t.Errorf("Compare(dog, cat) = %v, want > 0.9", sim)
	}

	ba, err := e.Compare(ctx, "cat", "dog")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(sim-ba) > 1e-12 {
		t.Errorf("Compare must be symmetric: %v vs %v", sim, ba)
	}

	if _, err := e.Compare(ctx, "dog", "ghost"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEngine_CompareStrict(t *testing.T) {
	s := store.NewMemoryStore()
	mustUpsert(t, s, "dog", []float32{0.1, 0.2, 0.3})
	mustUpsert(t, s, "short", []float32{0.5, 0.5})
	mustUpsert(t, s, "void", []float32{0, 0, 0})
	e := NewEngine(s)
	ctx := context.Background()

	if _, err := e.Compare(ctx, "dog", "short"); !errors.Is(err, models.ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}
	if _, err := e.Compare(ctx, "dog", "void"); !errors.Is(err, models.ErrZeroVector) {
		t.Errorf("expected ErrZeroVector, got %v", err)
	}
}

func TestEngine_SearchScanFallback(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	seed := []struct {
		word   string
		isNoun bool
		isVerb bool
	}{
		{"cat", true, false},
		{"catalog", true, true},
		{"catch", false, true},
		{"dog", true, false},
	}
	for _, f := range seed {
		if _, _, err := s.Upsert(ctx, f.word, f.isNoun, f.isVerb, []float32{0.1}); err != nil {
			t.Fatal(err)
		}
	}
	e := NewEngine(s)

	entries, err := e.Search(ctx, &models.SearchQuery{Query: "cat"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"cat", "catalog", "catch"}
	if len(entries) != len(want) {
		t.Fatalf("prefix search returned %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i].Word != w {
			t.Fatalf("prefix order wrong: got %s at %d, want %s", entries[i].Word, i, w)
		}
	}

	entries, err = e.Search(ctx, &models.SearchQuery{Query: "cat", Exact: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Word != "cat" {
		t.Errorf("exact search = %v, want [cat]", entries)
	}

	entries, err = e.Search(ctx, &models.SearchQuery{Query: "cat", POS: models.POSVerb})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("verb filter returned %d entries, want 2", len(entries))
	}

	entries, err = e.Search(ctx, &models.SearchQuery{Query: "cat", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("limit=1 returned %d entries", len(entries))
	}
}

type mockIndex struct {
	words    []string
	err      error
	gotQuery *models.SearchQuery
}

func (m *mockIndex) Index(*models.WordEntry) error        { return nil }
func (m *mockIndex) IndexBatch([]*models.WordEntry) error { return nil }
func (m *mockIndex) Delete(string) error                  { return nil }
func (m *mockIndex) Reset() error                         { return nil }
func (m *mockIndex) DocCount() (uint64, error)            { return uint64(len(m.words)), nil }
func (m *mockIndex) Close() error                         { return nil }

func (m *mockIndex) Search(ctx context.Context, q *models.SearchQuery) ([]string, error) {
	m.gotQuery = q
	return m.words, m.err
}

func TestEngine_SearchUsesIndex(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	mustUpsert(t, s, "cat", []float32{0.1})
	mustUpsert(t, s, "catalog", []float32{0.1})

	// The index claims a word the store no longer has; Search must skip it.
	idx := &mockIndex{words: []string{"cat", "catalog", "stale"}}
	e := NewEngine(s, WithWordIndex(idx))

	entries, err := e.Search(ctx, &models.SearchQuery{Query: "cat"})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if idx.gotQuery == nil || idx.gotQuery.Query != "cat" {
		t.Error("index should receive the search query")
	}
}

func TestEngine_ListAndStats(t *testing.T) {
	e, _ := newFixtureEngine(t)
	ctx := context.Background()

	entries, err := e.List(ctx, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Word != "cat" {
		t.Errorf("List(0, 2) = %v", entries)
	}

	stats, err := e.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 3 || stats.NounCount != 2 || stats.VerbCount != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func mustUpsert(t *testing.T, s store.Store, word string, emb []float32) {
	t.Helper()
	if _, _, err := s.Upsert(context.Background(), word, true, true, emb); err != nil {
		t.Fatalf("upsert %s: %v", word, err)
	}
}
