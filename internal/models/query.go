package models

import "fmt"

const (
	// DefaultLimit is the result count applied when a similarity query does
	// not set one.
	DefaultLimit = 10
	// MaxLimit caps the result count accepted from callers.
	MaxLimit = 100
)

// SimilarityQuery carries the parameters of a similarity ranking request.
type SimilarityQuery struct {
	Word          string  `json:"word"`
	POS           POS     `json:"pos,omitempty"`
	Limit         int     `json:"limit,omitempty"`
	MinSimilarity float64 `json:"min_similarity,omitempty"`
}

// Validate checks bounds and fills defaults. Out-of-range values are
// rejected, not clamped: limit must land in [1, MaxLimit] once defaulted,
// min_similarity in [0, 1].
func (q *SimilarityQuery) Validate() error {
	q.Word = NormalizeWord(q.Word)
	if q.Word == "" {
		return fmt.Errorf("%w: word cannot be empty", ErrValidation)
	}
	pos, err := ParsePOS(string(q.POS))
	if err != nil {
		return err
	}
	q.POS = pos
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrValidation, MaxLimit, q.Limit)
	}
	if q.MinSimilarity < 0 || q.MinSimilarity > 1 {
		return fmt.Errorf("%w: min_similarity must be between 0 and 1, got %g", ErrValidation, q.MinSimilarity)
	}
	return nil
}

// SearchQuery carries the parameters of a word text-search request.
// Exact selects case-insensitive equality; otherwise the query is a
// case-insensitive prefix match. Limit zero means unlimited.
type SearchQuery struct {
	Query string `json:"query"`
	POS   POS    `json:"pos,omitempty"`
	Exact bool   `json:"exact,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Validate normalizes the query term and checks the filter values.
func (q *SearchQuery) Validate() error {
	q.Query = NormalizeWord(q.Query)
	if q.Query == "" {
		return fmt.Errorf("%w: search query cannot be empty", ErrValidation)
	}
	pos, err := ParsePOS(string(q.POS))
	if err != nil {
		return err
	}
	q.POS = pos
	if q.Limit < 0 {
		return fmt.Errorf("%w: limit cannot be negative, got %d", ErrValidation, q.Limit)
	}
	return nil
}
