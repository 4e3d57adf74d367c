package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/filmflow/filmflow/store"
	"github.com/google/uuid"
)

type Store struct {
	options   store.Options
	movies    map[string]store.Movie
	order     []string
	users     map[string]store.User
	vectorErr error
	mtx       sync.RWMutex
}

func (s *Store) InsertMovie(ctx context.Context, movie store.Movie) (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	movie.ID = uuid.New().String()
	movie.CreatedAt = time.Now().UTC()

	cpy := make([]float32, len(movie.Embedding))
	copy(cpy, movie.Embedding)
	movie.Embedding = cpy

	s.movies[movie.ID] = movie
	s.order = append(s.order, movie.ID)

	return movie.ID, nil
}

func (s *Store) GetMovie(ctx context.Context, id string) (*store.Movie, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	movie, ok := s.movies[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	movie.Embedding = nil

	return &movie, nil
}

func (s *Store) FindMovies(ctx context.Context, filter store.Filter, limit int) ([]store.Movie, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var movies []store.Movie

	for _, id := range s.order {
		movie := s.movies[id]
		if !matches(movie, filter) {
			continue
		}
		movie.Embedding = nil
		movies = append(movies, movie)
		if len(movies) == limit {
			break
		}
	}

	return movies, nil
}

func matches(movie store.Movie, filter store.Filter) bool {
	if len(filter.Title) > 0 && !strings.Contains(strings.ToLower(movie.Title), strings.ToLower(filter.Title)) {
		return false
	}
	if len(filter.Director) > 0 && !strings.Contains(strings.ToLower(movie.Director), strings.ToLower(filter.Director)) {
		return false
	}
	if len(filter.Genre) > 0 {
		found := false
		for _, g := range movie.Genre {
			if strings.Contains(strings.ToLower(g), strings.ToLower(filter.Genre)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Year != 0 && movie.Year != filter.Year {
		return false
	}
	return true
}

func (s *Store) ScanEmbeddings(ctx context.Context, max int) ([]store.Movie, error) {
	if max < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var movies []store.Movie

	for _, id := range s.order {
		movies = append(movies, s.movies[id])
		if len(movies) == max {
			break
		}
	}

	return movies, nil
}

func (s *Store) VectorSearch(ctx context.Context, vector []float32, candidatePool int, limit int) ([]store.ScoredMovie, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.vectorErr != nil {
		return nil, s.vectorErr
	}

	var candidates []store.ScoredMovie

	for _, id := range s.order {
		movie := s.movies[id]
		if len(movie.Embedding) == 0 {
			continue
		}
		score := store.CosineSimilarity(vector, movie.Embedding)
		movie.Embedding = nil
		candidates = append(candidates, store.ScoredMovie{Movie: movie, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

func (s *Store) UpdateMovie(ctx context.Context, movie store.Movie) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.movies[movie.ID]
	if !ok {
		return store.ErrNotFound
	}

	movie.CreatedAt = existing.CreatedAt
	s.movies[movie.ID] = movie

	return nil
}

func (s *Store) DeleteMovie(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.movies[id]; !ok {
		return store.ErrNotFound
	}

	delete(s.movies, id)

	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

func (s *Store) InsertUser(ctx context.Context, user store.User) (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return "", store.ErrConflict
	}

	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()

	s.users[user.Username] = user

	return user.ID, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}

	return &user, nil
}

func (s *Store) Close() error {
	return nil
}

// SetVectorSearchError forces VectorSearch to fail. Used to exercise the
// exact fallback path.
func (s *Store) SetVectorSearchError(err error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.vectorErr = err
}

func NewStore(opts ...store.Option) *Store {
	options := store.NewOptions(opts...)

	return &Store{
		options: options,
		movies:  map[string]store.Movie{},
		users:   map[string]store.User{},
	}
}
