package store

import (
	"errors"
	"strings"
)

// Validate checks the movie record schema constraints before persistence.
func (m Movie) Validate() error {
	title := strings.TrimSpace(m.Title)
	if len(title) == 0 {
		return errors.New("title is required")
	}
	if len(title) > 200 {
		return errors.New("title must be at most 200 characters")
	}
	if m.Year <= 1880 || m.Year >= 2100 {
		return errors.New("year must be between 1881 and 2099")
	}
	if len(strings.TrimSpace(m.Director)) < 2 {
		return errors.New("director must be at least 2 characters")
	}
	if len(m.Genre) == 0 {
		return errors.New("at least one genre is required")
	}
	for _, g := range m.Genre {
		if len(strings.TrimSpace(g)) == 0 {
			return errors.New("genre entries must not be empty")
		}
	}
	if m.AverageRating < 0 || m.AverageRating > 10 {
		return errors.New("average rating must be between 0 and 10")
	}
	return nil
}

// EmbeddingText is the canonical text a movie's embedding derives from.
// Regenerate the embedding whenever any of these fields change.
func (m Movie) EmbeddingText() string {
	return m.Title + " " + m.Director + " " + strings.Join(m.Genre, " ") + " " + m.Description
}
