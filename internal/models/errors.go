package models

import "errors"

// Sentinel errors for the word store, the similarity engine, and the
// ingestion pipeline. Callers match them with errors.Is; the concrete
// message carries the word or field that failed.
var (
	// ErrNotFound is returned when a word is absent from the store.
	ErrNotFound = errors.New("word not found")

	// ErrValidation is returned for malformed records: empty word, empty or
	// non-finite embedding, bad POS flag, out-of-range query parameter.
	ErrValidation = errors.New("validation failed")

	// ErrFormat is returned for a raw word-list filename that does not match
	// the pos=<pos>,lang=<lang>,length=<n>.txt grammar.
	ErrFormat = errors.New("unrecognized filename format")

	// ErrZeroVector is returned when a vector with zero norm cannot be
	// normalized for comparison.
	ErrZeroVector = errors.New("cannot normalize zero vector")

	// ErrDimension is returned when two compared vectors differ in length.
	ErrDimension = errors.New("vectors must be of equal length")
)
