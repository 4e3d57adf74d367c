package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/filmflow/filmflow/embedder"
	"github.com/filmflow/filmflow/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("search")

var (
	// ErrEmptyQuery is returned when there is no text to embed.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrNoMovies is returned when the catalog holds no records at all.
	ErrNoMovies = errors.New("no movies in catalog")
	// ErrNoVectorData is returned when no record carries an embedding, so
	// the exact fallback has nothing to rank.
	ErrNoVectorData = errors.New("no vector data in catalog")
)

// EmbeddingError marks a failure of the embedding backend. Without a query
// vector no search is possible, so unlike store failures it propagates to
// the caller.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// Engine ranks movies against natural-language queries. It prefers the
// store's native vector search and degrades to an exact in-memory cosine
// scan when the native path fails for any reason.
type Engine struct {
	options  Options
	embedder embedder.Embedder
	store    store.Store
}

func (e *Engine) SemanticSearch(ctx context.Context, query string, limit int) ([]store.ScoredMovie, error) {
	if limit < 1 {
		limit = 5
	}

	ctx, span := tracer.Start(ctx, "search.SemanticSearch",
		trace.WithAttributes(attribute.Int("search.limit", limit)))
	defer span.End()

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, &EmbeddingError{Err: err}
	}
	if len(vector) == 0 {
		return nil, ErrEmptyQuery
	}

	pool := limit * e.options.Oversample
	if pool < e.options.MinCandidatePool {
		pool = e.options.MinCandidatePool
	}

	results, nativeErr := e.store.VectorSearch(ctx, vector, pool, limit)
	if nativeErr == nil {
		span.SetAttributes(attribute.Bool("search.fallback", false))
		return results, nil
	}

	slog.WarnContext(ctx, "native vector search failed, using exact fallback",
		"reason", failureReason(nativeErr), "error", nativeErr)
	span.SetAttributes(
		attribute.Bool("search.fallback", true),
		attribute.String("search.failure_reason", failureReason(nativeErr)),
	)

	results, fallbackErr := e.exactScan(ctx, vector, limit)
	if fallbackErr != nil {
		if errors.Is(fallbackErr, ErrNoMovies) || errors.Is(fallbackErr, ErrNoVectorData) {
			return nil, fallbackErr
		}
		span.RecordError(fallbackErr)
		return nil, fmt.Errorf("semantic search failed: %v; fallback scan failed: %v", nativeErr, fallbackErr)
	}

	return results, nil
}

func (e *Engine) exactScan(ctx context.Context, vector []float32, limit int) ([]store.ScoredMovie, error) {
	movies, err := e.store.ScanEmbeddings(ctx, e.options.MaxScan)
	if err != nil {
		return nil, err
	}

	if len(movies) == 0 {
		return nil, ErrNoMovies
	}

	var scored []store.ScoredMovie

	for _, movie := range movies {
		if len(movie.Embedding) == 0 {
			continue
		}
		score := store.CosineSimilarity(vector, movie.Embedding)
		movie.Embedding = nil
		scored = append(scored, store.ScoredMovie{Movie: movie, Score: score})
	}

	if len(scored) == 0 {
		return nil, ErrNoVectorData
	}

	// Ties keep scan order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	return scored, nil
}

func (e *Engine) FilterSearch(ctx context.Context, filter store.Filter, limit int) ([]store.Movie, error) {
	if limit < 1 {
		limit = 5
	}

	ctx, span := tracer.Start(ctx, "search.FilterSearch",
		trace.WithAttributes(attribute.Int("search.limit", limit)))
	defer span.End()

	movies, err := e.store.FindMovies(ctx, filter, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return movies, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, store.ErrVectorSearch):
		return "index-unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "malformed-query"
	}
}

func NewEngine(em embedder.Embedder, st store.Store, opts ...Option) *Engine {
	return &Engine{
		options:  NewOptions(opts...),
		embedder: em,
		store:    st,
	}
}
