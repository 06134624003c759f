package models

// ClassifiedRecord is one distinct word with its unioned POS flags, as
// produced by the classifier stage.
type ClassifiedRecord struct {
	Word   string
	IsNoun bool
	IsVerb bool
}

// EmbeddedRecord is a classified word with its attached vector. Words that
// were out of vocabulary never reach this stage.
type EmbeddedRecord struct {
	Word      string
	IsNoun    bool
	IsVerb    bool
	Embedding []float32
}

// SimilarWord is one row of a similarity ranking.
type SimilarWord struct {
	Word       string  `json:"word"`
	IsNoun     bool    `json:"is_noun"`
	IsVerb     bool    `json:"is_verb"`
	Similarity float64 `json:"similarity"`
}
