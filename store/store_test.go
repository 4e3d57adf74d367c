package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		v := []float32{0.1, 0.2, 0.3}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{0, 1}
		assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		a := []float32{1, 2}
		b := []float32{-1, -2}
		assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
	})

	t.Run("zero vector scores 0", func(t *testing.T) {
		a := []float32{0, 0, 0}
		b := []float32{1, 2, 3}
		assert.Equal(t, 0.0, CosineSimilarity(a, b))
		assert.Equal(t, 0.0, CosineSimilarity(b, a))
	})

	t.Run("mismatched lengths score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	})

	t.Run("empty vectors score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	})
}
