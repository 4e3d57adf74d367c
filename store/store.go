package store

import (
	"context"
	"errors"
	"math"
	"time"
)

var (
	// ErrNotFound is returned when no record matches the given identifier.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("record already exists")
	// ErrVectorSearch wraps any failure of the store's native vector search
	// primitive so callers can select the exact fallback as a designed branch.
	ErrVectorSearch = errors.New("vector search unavailable")
)

type Movie struct {
	ID            string
	Title         string
	Year          int
	Director      string
	Genre         []string
	Cast          []string
	Description   string
	PosterURL     string
	AverageRating float64
	Embedding     []float32
	CreatedAt     time.Time
}

type ScoredMovie struct {
	Movie
	Score float64
}

// Filter constrains FindMovies. Text fields match case-insensitively as
// substrings, Year matches exactly, zero values impose no constraint.
type Filter struct {
	Title    string
	Director string
	Genre    string
	Year     int
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type Store interface {
	InsertMovie(ctx context.Context, movie Movie) (string, error)
	GetMovie(ctx context.Context, id string) (*Movie, error)
	FindMovies(ctx context.Context, filter Filter, limit int) ([]Movie, error)
	ScanEmbeddings(ctx context.Context, max int) ([]Movie, error)
	VectorSearch(ctx context.Context, vector []float32, candidatePool int, limit int) ([]ScoredMovie, error)
	UpdateMovie(ctx context.Context, movie Movie) error
	DeleteMovie(ctx context.Context, id string) error
	InsertUser(ctx context.Context, user User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	Close() error
}

func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
