package movies

import (
	"fmt"
	"strings"

	"github.com/filmflow/filmflow/store"
)

func renderScored(results []store.ScoredMovie) string {
	var sb strings.Builder

	for i, result := range results {
		sb.WriteString(fmt.Sprintf("%d. %s (%d) by %s", i+1, result.Title, result.Year, result.Director))
		if len(result.Genre) > 0 {
			sb.WriteString(" [" + strings.Join(result.Genre, ", ") + "]")
		}
		sb.WriteString(fmt.Sprintf(" - score %.3f, id %s\n", result.Score, result.ID))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderMovies(movies []store.Movie) string {
	var sb strings.Builder

	for i, movie := range movies {
		sb.WriteString(fmt.Sprintf("%d. %s (%d) by %s", i+1, movie.Title, movie.Year, movie.Director))
		if len(movie.Genre) > 0 {
			sb.WriteString(" [" + strings.Join(movie.Genre, ", ") + "]")
		}
		sb.WriteString(fmt.Sprintf(" - id %s\n", movie.ID))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderDetails(movie *store.Movie) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title: %s\n", movie.Title))
	sb.WriteString(fmt.Sprintf("Year: %d\n", movie.Year))
	sb.WriteString(fmt.Sprintf("Director: %s\n", movie.Director))
	sb.WriteString(fmt.Sprintf("Genre: %s\n", strings.Join(movie.Genre, ", ")))
	if len(movie.Cast) > 0 {
		sb.WriteString(fmt.Sprintf("Cast: %s\n", strings.Join(movie.Cast, ", ")))
	}
	if len(movie.Description) > 0 {
		sb.WriteString(fmt.Sprintf("Description: %s\n", movie.Description))
	}
	if len(movie.PosterURL) > 0 {
		sb.WriteString(fmt.Sprintf("Poster: %s\n", movie.PosterURL))
	}
	sb.WriteString(fmt.Sprintf("Average rating: %.1f\n", movie.AverageRating))
	sb.WriteString(fmt.Sprintf("Id: %s", movie.ID))

	return sb.String()
}
