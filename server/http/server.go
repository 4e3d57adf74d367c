package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/filmflow/filmflow/agent"
	"github.com/filmflow/filmflow/auth"
	"github.com/filmflow/filmflow/cache"
	"github.com/filmflow/filmflow/embedder"
	"github.com/filmflow/filmflow/search"
	"github.com/filmflow/filmflow/store"
	"github.com/gorilla/mux"
)

type Server struct {
	options Options
	srv     *http.Server
}

func (s *Server) Start() error {
	slog.Info("http server listening", "address", s.options.Address)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type Deps struct {
	Store    store.Store
	Auth     *auth.Manager
	Agent    *agent.Service
	Engine   *search.Engine
	Embedder embedder.Embedder
	Cache    cache.Registry
}

func NewServer(deps Deps, opts ...Option) *Server {
	options := NewOptions(opts...)

	h := &handler{
		store:    deps.Store,
		auth:     deps.Auth,
		agent:    deps.Agent,
		engine:   deps.Engine,
		embedder: deps.Embedder,
		cache:    deps.Cache,
	}

	router := mux.NewRouter()
	router.Use(loggingMiddleware)
	router.Use(identityMiddleware(deps.Auth))

	router.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	api.HandleFunc("/movies", h.listMovies).Methods(http.MethodGet)
	api.HandleFunc("/movies", requireAdmin(h.createMovie)).Methods(http.MethodPost)
	api.HandleFunc("/movies/search", h.semanticSearch).Methods(http.MethodGet)
	api.HandleFunc("/movies/{id}", h.getMovie).Methods(http.MethodGet)
	api.HandleFunc("/movies/{id}", requireAdmin(h.updateMovie)).Methods(http.MethodPut)
	api.HandleFunc("/movies/{id}", requireAdmin(h.deleteMovie)).Methods(http.MethodDelete)

	api.HandleFunc("/agent/chat", requireIdentity(h.chat)).Methods(http.MethodPost)

	srv := &http.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		options: options,
		srv:     srv,
	}
}
