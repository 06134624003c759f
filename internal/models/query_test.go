package models

import (
	"errors"
	"testing"
)

func TestSimilarityQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   *SimilarityQuery
		wantErr bool
	}{
		{"empty word", &SimilarityQuery{Word: ""}, true},
		{"valid query", &SimilarityQuery{Word: "dog"}, false},
		{"sets default limit", &SimilarityQuery{Word: "dog", Limit: 0}, false},
		{"rejects limit above max", &SimilarityQuery{Word: "dog", Limit: 200}, true},
		{"rejects negative limit", &SimilarityQuery{Word: "dog", Limit: -1}, true},
		{"accepts limit at max", &SimilarityQuery{Word: "dog", Limit: 100}, false},
		{"rejects min similarity above one", &SimilarityQuery{Word: "dog", MinSimilarity: 1.5}, true},
		{"rejects negative min similarity", &SimilarityQuery{Word: "dog", MinSimilarity: -0.1}, true},
		{"accepts noun filter", &SimilarityQuery{Word: "dog", POS: POSNoun}, false},
		{"rejects unknown pos", &SimilarityQuery{Word: "dog", POS: POS("adjective")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if !tt.wantErr && tt.query.Limit == 0 {
				t.Error("expected default limit to be set")
			}
		})
	}
}

func TestSimilarityQuery_ValidateNormalizesWord(t *testing.T) {
	q := &SimilarityQuery{Word: "  DoG "}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if q.Word != "dog" {
		t.Errorf("expected normalized word 'dog', got %q", q.Word)
	}
}

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   *SearchQuery
		wantErr bool
	}{
		{"empty query", &SearchQuery{Query: ""}, true},
		{"whitespace query", &SearchQuery{Query: "   "}, true},
		{"valid query", &SearchQuery{Query: "Dog"}, false},
		{"verb filter", &SearchQuery{Query: "run", POS: POSVerb}, false},
		{"bad pos", &SearchQuery{Query: "run", POS: POS("adverb")}, true},
		{"negative limit", &SearchQuery{Query: "run", Limit: -5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsePOS(t *testing.T) {
	if pos, err := ParsePOS(" Noun "); err != nil || pos != POSNoun {
		t.Errorf("ParsePOS(' Noun ') = %q, %v", pos, err)
	}
	if pos, err := ParsePOS(""); err != nil || pos != POSAny {
		t.Errorf("ParsePOS('') = %q, %v", pos, err)
	}
	if _, err := ParsePOS("adjective"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for 'adjective', got %v", err)
	}
}

func TestPOS_Matches(t *testing.T) {
	if !POSAny.Matches(false, false) {
		t.Error("POSAny should match everything")
	}
	if POSNoun.Matches(false, true) {
		t.Error("POSNoun should not match a verb-only entry")
	}
	if !POSVerb.Matches(true, true) {
		t.Error("POSVerb should match an entry that is both")
	}
}
