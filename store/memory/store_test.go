package memory

import (
	"context"
	"testing"

	"github.com/filmflow/filmflow/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovieCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	id, err := s.InsertMovie(ctx, store.Movie{
		Title:     "Alien",
		Year:      1979,
		Director:  "Ridley Scott",
		Genre:     []string{"Horror", "Sci-Fi"},
		Embedding: []float32{0.1, 0.2},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	t.Run("get strips the embedding", func(t *testing.T) {
		movie, err := s.GetMovie(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Alien", movie.Title)
		assert.Nil(t, movie.Embedding)
		assert.False(t, movie.CreatedAt.IsZero())
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := s.GetMovie(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update replaces fields", func(t *testing.T) {
		err := s.UpdateMovie(ctx, store.Movie{
			ID:       id,
			Title:    "Alien (Director's Cut)",
			Year:     1979,
			Director: "Ridley Scott",
			Genre:    []string{"Horror"},
		})
		require.NoError(t, err)

		movie, err := s.GetMovie(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Alien (Director's Cut)", movie.Title)
	})

	t.Run("update unknown id", func(t *testing.T) {
		err := s.UpdateMovie(ctx, store.Movie{ID: "missing"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, s.DeleteMovie(ctx, id))

		_, err := s.GetMovie(ctx, id)
		assert.ErrorIs(t, err, store.ErrNotFound)

		assert.ErrorIs(t, s.DeleteMovie(ctx, id), store.ErrNotFound)
	})
}

func TestFindMovies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	seed := []store.Movie{
		{Title: "Inception", Year: 2010, Director: "Christopher Nolan", Genre: []string{"Sci-Fi"}},
		{Title: "Interstellar", Year: 2014, Director: "Christopher Nolan", Genre: []string{"Sci-Fi", "Drama"}},
		{Title: "Heat", Year: 1995, Director: "Michael Mann", Genre: []string{"Crime"}},
	}
	for _, m := range seed {
		_, err := s.InsertMovie(ctx, m)
		require.NoError(t, err)
	}

	t.Run("filter by director substring", func(t *testing.T) {
		movies, err := s.FindMovies(ctx, store.Filter{Director: "nolan"}, 10)
		require.NoError(t, err)
		require.Len(t, movies, 2)
		assert.Equal(t, "Inception", movies[0].Title)
		assert.Equal(t, "Interstellar", movies[1].Title)
	})

	t.Run("filter by genre and year", func(t *testing.T) {
		movies, err := s.FindMovies(ctx, store.Filter{Genre: "sci-fi", Year: 2014}, 10)
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.Equal(t, "Interstellar", movies[0].Title)
	})

	t.Run("limit caps results", func(t *testing.T) {
		movies, err := s.FindMovies(ctx, store.Filter{}, 2)
		require.NoError(t, err)
		assert.Len(t, movies, 2)
	})

	t.Run("no match", func(t *testing.T) {
		movies, err := s.FindMovies(ctx, store.Filter{Title: "Tenet"}, 10)
		require.NoError(t, err)
		assert.Empty(t, movies)
	})
}

func TestVectorSearch(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.InsertMovie(ctx, store.Movie{Title: "A", Year: 2000, Director: "AA", Genre: []string{"g"}, Embedding: []float32{1, 0}})
	require.NoError(t, err)
	_, err = s.InsertMovie(ctx, store.Movie{Title: "B", Year: 2000, Director: "BB", Genre: []string{"g"}, Embedding: []float32{0, 1}})
	require.NoError(t, err)
	_, err = s.InsertMovie(ctx, store.Movie{Title: "C", Year: 2000, Director: "CC", Genre: []string{"g"}})
	require.NoError(t, err)

	t.Run("ranks by similarity and skips records without vectors", func(t *testing.T) {
		results, err := s.VectorSearch(ctx, []float32{1, 0}, 100, 10)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "A", results[0].Title)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
		assert.Equal(t, "B", results[1].Title)
	})

	t.Run("forced error surfaces", func(t *testing.T) {
		s.SetVectorSearchError(store.ErrVectorSearch)
		defer s.SetVectorSearchError(nil)

		_, err := s.VectorSearch(ctx, []float32{1, 0}, 100, 10)
		assert.ErrorIs(t, err, store.ErrVectorSearch)
	})
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	id, err := s.InsertUser(ctx, store.User{Username: "ada", PasswordHash: "hash", Role: "user"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := s.InsertUser(ctx, store.User{Username: "ada", PasswordHash: "other", Role: "user"})
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("lookup by username", func(t *testing.T) {
		user, err := s.GetUserByUsername(ctx, "ada")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "user", user.Role)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := s.GetUserByUsername(ctx, "grace")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
