package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/filmflow/filmflow/agent"
	"github.com/filmflow/filmflow/auth"
	"github.com/filmflow/filmflow/cache"
	memorycache "github.com/filmflow/filmflow/cache/memory"
	rediscache "github.com/filmflow/filmflow/cache/redis"
	"github.com/filmflow/filmflow/embedder"
	googleembedder "github.com/filmflow/filmflow/embedder/google"
	openaiembedder "github.com/filmflow/filmflow/embedder/openai"
	"github.com/filmflow/filmflow/identity"
	"github.com/filmflow/filmflow/reasoner"
	anthropicreasoner "github.com/filmflow/filmflow/reasoner/anthropic"
	googlereasoner "github.com/filmflow/filmflow/reasoner/google"
	openaireasoner "github.com/filmflow/filmflow/reasoner/openai"
	"github.com/filmflow/filmflow/search"
	httpserver "github.com/filmflow/filmflow/server/http"
	"github.com/filmflow/filmflow/store"
	memorystore "github.com/filmflow/filmflow/store/memory"
	postgresstore "github.com/filmflow/filmflow/store/postgres"
	toolhandler "github.com/filmflow/filmflow/tool_handler"
	"github.com/filmflow/filmflow/tool_handler/movies"
	"github.com/joho/godotenv"
)

var (
	cfg struct {
		// Server config
		Address string `help:"Address for the HTTP server" env:"ADDRESS" default:":8080"`

		// Store config
		StoreLocation string `help:"Postgres connection string; empty selects the in-memory store" env:"STORE_LOCATION" default:""`

		// Cache config
		CacheLocation string `help:"Redis URL for the version registry; empty selects the in-memory registry" env:"CACHE_LOCATION" default:""`

		// Embedder config
		EmbedderKey   string `help:"API key for the embedder" env:"EMBEDDER_KEY" default:""`
		EmbedderModel string `help:"Model identifier for the embedder" env:"EMBEDDER_MODEL" default:"text-embedding-3-small"`
		EmbedderURL   string `help:"Base URL for an OpenAI-compatible embedding API" env:"EMBEDDER_URL" default:""`
		GoogleEmbed   bool   `help:"Use Google for embeddings instead of an OpenAI-compatible API" env:"GOOGLE_EMBED" default:"false"`

		// Reasoner config
		OpenAIKey     string `help:"API key for an OpenAI-compatible chat API (OpenAI, Groq, OpenRouter)" env:"OPENAI_KEY" default:""`
		OpenAIURL     string `help:"Base URL for the OpenAI-compatible chat API" env:"OPENAI_URL" default:""`
		AnthropicKey  string `help:"API key for Anthropic" env:"ANTHROPIC_KEY" default:""`
		GoogleKey     string `help:"API key for Google" env:"GOOGLE_KEY" default:""`
		ReasonerModel string `help:"Model identifier for the reasoner" env:"REASONER_MODEL" default:""`
		MaxIterations int    `help:"Number of tool-calling iterations the agent may take per message" env:"MAX_ITERATIONS" default:"8"`

		// Auth config
		AuthSecret    string `help:"Signing secret for bearer tokens" env:"AUTH_SECRET" default:""`
		AdminUsername string `help:"Seed admin username" env:"ADMIN_USERNAME" default:""`
		AdminPassword string `help:"Seed admin password" env:"ADMIN_PASSWORD" default:""`
	}
)

func main() {
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	var st store.Store
	if len(cfg.StoreLocation) > 0 {
		var err error
		st, err = postgresstore.NewStore(store.WithLocation(cfg.StoreLocation))
		if err != nil {
			slog.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
	} else {
		st = memorystore.NewStore()
	}
	defer st.Close()

	// Cache version registry
	var registry cache.Registry
	if len(cfg.CacheLocation) > 0 {
		var err error
		registry, err = rediscache.NewRegistry(cache.WithLocation(cfg.CacheLocation))
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
	} else {
		registry = memorycache.NewRegistry()
	}

	// Embedder
	var em embedder.Embedder
	if cfg.GoogleEmbed {
		var err error
		em, err = googleembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.EmbedderModel),
		)
		if err != nil {
			slog.Error("failed to create embedder", "error", err)
			os.Exit(1)
		}
	} else {
		em = openaiembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.EmbedderModel),
			embedder.WithBaseURL(cfg.EmbedderURL),
		)
	}

	// Reasoner
	r, err := newReasoner()
	if err != nil {
		slog.Error("failed to create reasoner", "error", err)
		os.Exit(1)
	}

	// Search engine
	engine := search.NewEngine(em, st)

	// Tools
	catalog, err := toolhandler.NewCatalog(
		movies.NewSemanticSearch(movies.WithEngine(engine)),
		movies.NewFilterSearch(movies.WithEngine(engine)),
		movies.NewDetails(movies.WithStore(st)),
		movies.NewAdd(
			movies.WithStore(st),
			movies.WithEmbedder(em),
			movies.WithCache(registry),
		),
	)
	if err != nil {
		slog.Error("failed to build tool catalog", "error", err)
		os.Exit(1)
	}

	// Agent
	svc := agent.New(r, catalog, agent.WithMaxIterations(cfg.MaxIterations))

	// Auth
	manager, err := auth.NewManager(auth.WithSecret(cfg.AuthSecret))
	if err != nil {
		slog.Error("failed to create auth manager", "error", err)
		os.Exit(1)
	}

	if err := seedAdmin(ctx, st, manager); err != nil {
		slog.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	// HTTP server
	srv := httpserver.NewServer(
		httpserver.Deps{
			Store:    st,
			Auth:     manager,
			Agent:    svc,
			Engine:   engine,
			Embedder: em,
			Cache:    registry,
		},
		httpserver.WithAddress(cfg.Address),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}

// newReasoner selects the first configured provider: an OpenAI-compatible
// API (which covers OpenAI, Groq, and OpenRouter via the base URL), then
// Anthropic, then Google. No configured provider is fatal.
func newReasoner() (reasoner.Reasoner, error) {
	switch {
	case len(cfg.OpenAIKey) > 0:
		return openaireasoner.NewReasoner(
			reasoner.WithApiKey(cfg.OpenAIKey),
			reasoner.WithBaseURL(cfg.OpenAIURL),
			reasoner.WithModel(defaultModel(cfg.ReasonerModel, "gpt-4o-mini")),
		), nil
	case len(cfg.AnthropicKey) > 0:
		return anthropicreasoner.NewReasoner(
			reasoner.WithApiKey(cfg.AnthropicKey),
			reasoner.WithModel(defaultModel(cfg.ReasonerModel, "claude-3-5-haiku-latest")),
		), nil
	case len(cfg.GoogleKey) > 0:
		return googlereasoner.NewReasoner(
			reasoner.WithApiKey(cfg.GoogleKey),
			reasoner.WithModel(defaultModel(cfg.ReasonerModel, "gemini-1.5-flash")),
		)
	default:
		return nil, reasoner.ErrNoProvider
	}
}

func defaultModel(model string, fallback string) string {
	if len(model) > 0 {
		return model
	}
	return fallback
}

func seedAdmin(ctx context.Context, st store.Store, manager *auth.Manager) error {
	if len(cfg.AdminUsername) == 0 || len(cfg.AdminPassword) == 0 {
		return nil
	}

	hash, err := manager.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	_, err = st.InsertUser(ctx, store.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Role:         identity.RoleAdmin,
	})
	if errors.Is(err, store.ErrConflict) {
		return nil
	}

	return err
}
