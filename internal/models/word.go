// Package models defines core data structures for words, queries, and reports.
package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// POS is a part-of-speech filter value. The empty value means no filter.
type POS string

const (
	POSAny  POS = ""
	POSNoun POS = "noun"
	POSVerb POS = "verb"
)

// ParsePOS validates a part-of-speech filter string.
func ParsePOS(s string) (POS, error) {
	switch POS(strings.ToLower(strings.TrimSpace(s))) {
	case POSAny:
		return POSAny, nil
	case POSNoun:
		return POSNoun, nil
	case POSVerb:
		return POSVerb, nil
	default:
		return POSAny, fmt.Errorf("%w: pos must be 'noun' or 'verb', got %q", ErrValidation, s)
	}
}

// Matches reports whether an entry with the given flags passes the filter.
func (p POS) Matches(isNoun, isVerb bool) bool {
	switch p {
	case POSNoun:
		return isNoun
	case POSVerb:
		return isVerb
	default:
		return true
	}
}

// WordEntry represents one corpus word with its POS flags and embedding.
type WordEntry struct {
	Word      string    `json:"word" db:"word"`
	IsNoun    bool      `json:"is_noun" db:"is_noun"`
	IsVerb    bool      `json:"is_verb" db:"is_verb"`
	Embedding []float32 `json:"embedding,omitempty" db:"embedding"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PartsOfSpeech returns the entry's POS labels in noun, verb order.
// An entry with neither flag set reports "unknown".
func (e *WordEntry) PartsOfSpeech() []string {
	var parts []string
	if e.IsNoun {
		parts = append(parts, "noun")
	}
	if e.IsVerb {
		parts = append(parts, "verb")
	}
	if len(parts) == 0 {
		parts = []string{"unknown"}
	}
	return parts
}

// NormalizeWord lower-cases and trims a word for case-insensitive keying.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// ValidateEntry checks a word and embedding against the store's insertion
// rules: non-empty word, non-empty embedding, finite values only. Equal
// dimensions across entries are not checked here; that is enforced at
// comparison time.
func ValidateEntry(word string, embedding []float32) error {
	if NormalizeWord(word) == "" {
		return fmt.Errorf("%w: empty word", ErrValidation)
	}
	if len(embedding) == 0 {
		return fmt.Errorf("%w: word %q has an empty embedding", ErrValidation, word)
	}
	for i, v := range embedding {
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: word %q embedding[%d] is not finite", ErrValidation, word, i)
		}
	}
	return nil
}
