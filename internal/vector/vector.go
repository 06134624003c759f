// Package vector provides cosine similarity primitives for word embeddings.
//
// Zero-vector handling is split by API surface: CosineSimilarity is strict
// and fails on a zero-norm operand, which suits direct pairwise comparison.
// Ranking code that must survive a bad corpus entry normalizes candidates
// with Normalize and skips the ones it rejects.
package vector

import (
	"fmt"
	"math"

	"github.com/hyperjump/findword/internal/models"
)

// Dot computes the inner product of a and b, accumulating in float64.
// The caller guarantees equal lengths.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm returns the Euclidean norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns a copy of v scaled to unit norm.
// Fails with models.ErrZeroVector when the norm is zero.
func Normalize(v []float32) ([]float32, error) {
	n := Norm(v)
	if n == 0 {
		return nil, models.ErrZeroVector
	}
	out := make([]float32, len(v))
	inv := 1 / n
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out, nil
}

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. Fails with models.ErrDimension when lengths differ and with
// models.ErrZeroVector when either operand has zero norm.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", models.ErrDimension, len(a), len(b))
	}
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0, models.ErrZeroVector
	}
	return Dot(a, b) / (na * nb), nil
}
