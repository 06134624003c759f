// Package embedding provides pretrained word vector models used to
// attach embeddings to classified words.
package embedding

// Model is a read-only word vector model.
type Model interface {
	// Lookup returns the vector for word and whether the word is in
	// vocabulary. Out-of-vocabulary words are a normal condition, not
	// an error.
	Lookup(word string) ([]float32, bool)

	// Dimension returns the vector dimension.
	Dimension() int

	// Size returns the number of words held by the model.
	Size() int
}
