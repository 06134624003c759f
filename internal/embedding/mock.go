package embedding

import (
	"math"

	"github.com/hyperjump/findword/pkg/utils"
)

// MockModel is a deterministic in-memory model for tests and local
// development. Every word is in vocabulary unless listed as missing, and
// the same word always yields the same vector.
type MockModel struct {
	dimension int
	missing   map[string]struct{}
}

// NewMockModel creates a mock model with the given dimension. Words
// listed in missing are reported as out of vocabulary.
func NewMockModel(dimension int, missing ...string) *MockModel {
	if dimension <= 0 {
		dimension = 8
	}
	m := &MockModel{
		dimension: dimension,
		missing:   make(map[string]struct{}, len(missing)),
	}
	for _, w := range missing {
		m.missing[w] = struct{}{}
	}
	return m
}

// Lookup derives a unit-length vector from a hash of the word.
func (m *MockModel) Lookup(word string) ([]float32, bool) {
	if _, ok := m.missing[word]; ok {
		return nil, false
	}

	h := hashWord(word)
	vec := make([]float32, m.dimension)
	for i := range vec {
		vec[i] = float32(math.Sin(float64(h*(i+1)))*0.1 + 0.01)
	}
	utils.NormalizeL2(vec)
	return vec, true
}

// Dimension returns the configured vector dimension.
func (m *MockModel) Dimension() int {
	return m.dimension
}

// Size reports zero; the mock has no fixed vocabulary.
func (m *MockModel) Size() int {
	return 0
}

func hashWord(s string) int {
	h := 0
	for _, c := range s {
		h = 31*h + int(c)
	}
	if h < 0 {
		h = -h
	}
	return h
}
