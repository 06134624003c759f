// Package e2e runs the whole corpus pipeline against real storage: raw
// word lists through classification, embedding attachment, loading, and
// queries.
package e2e

// Dimension is the embedding width used across the e2e corpus.
const Dimension = 6

// E2EWord is one corpus word with its POS flags and model vector.
type E2EWord struct {
	Word      string
	IsNoun    bool
	IsVerb    bool
	Embedding []float32
}

// SimilarityCase expects the words in ExpectTop to fill the first
// len(ExpectTop) ranks for Word, in any order among themselves.
type SimilarityCase struct {
	Word        string
	POS         string
	ExpectTop   []string
	Description string
}

// SearchCase expects a text search to return exactly ExpectWords in
// ascending order.
type SearchCase struct {
	Query       string
	Exact       bool
	POS         string
	ExpectWords []string
	Description string
}

// Corpus holds the words and query expectations for the pipeline tests.
// OOVWord appears in the raw lists but is deliberately left out of the
// vec model, so the pipeline must drop it before storage.
type Corpus struct {
	Words           []E2EWord
	SimilarityCases []SimilarityCase
	SearchCases     []SearchCase
	OOVWord         string
}

// clusterVector places a word on one dominant axis with a small per-member
// offset on the last axis. Words sharing an axis have pairwise cosine
// similarity above 0.99 while words on different axes stay below 0.1, so
// ranking expectations are unambiguous.
func clusterVector(axis, member int) []float32 {
	vec := make([]float32, Dimension)
	vec[axis] = 1
	vec[Dimension-1] = 0.05 * float32(member+1)
	return vec
}

// BuildCorpus returns a deterministic corpus of clustered words: animal
// and food nouns, motion verbs, speech words carrying both flags, and
// tool nouns.
func BuildCorpus() *Corpus {
	clusters := []struct {
		axis  int
		noun  bool
		verb  bool
		words []string
	}{
		{0, true, false, []string{"dog", "cat", "fox", "wolf", "horse"}},
		{1, false, true, []string{"run", "jump", "walk", "swim", "climb"}},
		{2, true, false, []string{"bread", "cheese", "apple", "grape"}},
		{3, true, true, []string{"talk", "answer", "whisper"}},
		{4, true, false, []string{"hammer", "wrench", "chisel"}},
	}

	var words []E2EWord
	for _, c := range clusters {
		for i, w := range c.words {
			words = append(words, E2EWord{
				Word:      w,
				IsNoun:    c.noun,
				IsVerb:    c.verb,
				Embedding: clusterVector(c.axis, i),
			})
		}
	}

	return &Corpus{
		Words:   words,
		OOVWord: "grape",
		SimilarityCases: []SimilarityCase{
			{
				Word:        "dog",
				ExpectTop:   []string{"cat", "fox", "wolf", "horse"},
				Description: "animal nouns cluster together",
			},
			{
				Word:        "run",
				ExpectTop:   []string{"jump", "walk", "swim", "climb"},
				Description: "motion verbs cluster together",
			},
			{
				Word:        "talk",
				POS:         "verb",
				ExpectTop:   []string{"answer", "whisper"},
				Description: "speech words stay close under a verb filter",
			},
			{
				Word:        "bread",
				ExpectTop:   []string{"cheese", "apple"},
				Description: "food nouns rank nearest despite the dropped member",
			},
		},
		SearchCases: []SearchCase{
			{
				Query:       "w",
				ExpectWords: []string{"walk", "whisper", "wolf", "wrench"},
				Description: "prefix search returns all matches ascending",
			},
			{
				Query:       "cat",
				Exact:       true,
				ExpectWords: []string{"cat"},
				Description: "exact search matches the whole word only",
			},
			{
				Query:       "c",
				POS:         "verb",
				ExpectWords: []string{"climb"},
				Description: "prefix search respects the POS filter",
			},
		},
	}
}

// StoredWords returns the words that survive the pipeline, everything
// except the out-of-vocabulary one.
func (c *Corpus) StoredWords() []E2EWord {
	out := make([]E2EWord, 0, len(c.Words))
	for _, w := range c.Words {
		if w.Word == c.OOVWord {
			continue
		}
		out = append(out, w)
	}
	return out
}
