package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMovie() Movie {
	return Movie{
		Title:         "The Shawshank Redemption",
		Year:          1994,
		Director:      "Frank Darabont",
		Genre:         []string{"Drama"},
		Description:   "Two imprisoned men bond over a number of years.",
		AverageRating: 9.3,
	}
}

func TestMovieValidate(t *testing.T) {
	t.Run("valid movie passes", func(t *testing.T) {
		require.NoError(t, validMovie().Validate())
	})

	t.Run("title is required", func(t *testing.T) {
		m := validMovie()
		m.Title = "   "
		assert.Error(t, m.Validate())
	})

	t.Run("title has a length cap", func(t *testing.T) {
		m := validMovie()
		m.Title = strings.Repeat("a", 201)
		assert.Error(t, m.Validate())

		m.Title = strings.Repeat("a", 200)
		assert.NoError(t, m.Validate())
	})

	t.Run("year bounds are exclusive", func(t *testing.T) {
		m := validMovie()

		m.Year = 1880
		assert.Error(t, m.Validate())

		m.Year = 1881
		assert.NoError(t, m.Validate())

		m.Year = 2099
		assert.NoError(t, m.Validate())

		m.Year = 2100
		assert.Error(t, m.Validate())
	})

	t.Run("director needs at least two characters", func(t *testing.T) {
		m := validMovie()
		m.Director = "X"
		assert.Error(t, m.Validate())
	})

	t.Run("genre must be present and non-empty", func(t *testing.T) {
		m := validMovie()

		m.Genre = nil
		assert.Error(t, m.Validate())

		m.Genre = []string{"Drama", " "}
		assert.Error(t, m.Validate())
	})

	t.Run("rating stays within 0 to 10", func(t *testing.T) {
		m := validMovie()

		m.AverageRating = -0.1
		assert.Error(t, m.Validate())

		m.AverageRating = 10.1
		assert.Error(t, m.Validate())

		m.AverageRating = 10
		assert.NoError(t, m.Validate())
	})
}

func TestMovieEmbeddingText(t *testing.T) {
	m := Movie{
		Title:       "Inception",
		Director:    "Christopher Nolan",
		Genre:       []string{"Sci-Fi", "Thriller"},
		Description: "A thief steals secrets through dreams.",
	}

	assert.Equal(t, "Inception Christopher Nolan Sci-Fi Thriller A thief steals secrets through dreams.", m.EmbeddingText())
}
