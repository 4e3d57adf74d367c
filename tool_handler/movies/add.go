package movies

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filmflow/filmflow/cache"
	"github.com/filmflow/filmflow/identity"
	"github.com/filmflow/filmflow/store"
	toolhandler "github.com/filmflow/filmflow/tool_handler"
)

type addHandler struct {
	options Options
}

func (h *addHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "add_movie",
		Description: "Adds a new movie to the catalog. Admin only. Title, year, director, and at least one genre are required; ask the user for any that are missing.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "The movie title",
				},
				"year": map[string]any{
					"type":        "integer",
					"description": "The release year",
				},
				"director": map[string]any{
					"type":        "string",
					"description": "The director's full name",
				},
				"genre": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "One or more genres",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "A short plot summary",
				},
				"cast": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Lead cast members",
				},
				"poster_url": map[string]any{
					"type":        "string",
					"description": "URL of the poster image",
				},
			},
			"required": []string{"title", "year", "director", "genre"},
		},
	}
}

func (h *addHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return toolhandler.ToolResponse{Content: "Error: no authenticated user session was found. The user must sign in before movies can be added."}, nil
	}
	if caller.Role != identity.RoleAdmin {
		return toolhandler.ToolResponse{Content: fmt.Sprintf("Error: adding movies requires the admin role. The current user's role is %q.", caller.Role)}, nil
	}

	movie := store.Movie{
		Title:       argString(req.Arguments, "title"),
		Year:        argInt(req.Arguments, "year", 0),
		Director:    argString(req.Arguments, "director"),
		Genre:       argStringList(req.Arguments, "genre"),
		Cast:        argStringList(req.Arguments, "cast"),
		Description: argString(req.Arguments, "description"),
		PosterURL:   argString(req.Arguments, "poster_url"),
	}

	if err := movie.Validate(); err != nil {
		return toolhandler.ToolResponse{Content: fmt.Sprintf("The movie could not be added: %v.", err)}, nil
	}

	vector, err := h.options.Embedder.Embed(ctx, movie.EmbeddingText())
	if err != nil {
		// Embedding failures propagate; a record without a vector would be
		// invisible to semantic search.
		return toolhandler.ToolResponse{}, fmt.Errorf("embedding failed: %w", err)
	}
	movie.Embedding = vector

	if _, err := h.options.Store.InsertMovie(ctx, movie); err != nil {
		return toolhandler.ToolResponse{Content: fmt.Sprintf("The movie could not be added: %v.", err)}, nil
	}

	if err := h.options.Cache.Increment(ctx, cache.NamespaceSemanticSearch); err != nil {
		slog.WarnContext(ctx, "failed to bump semantic search cache version", "error", err)
	}

	return toolhandler.ToolResponse{Content: fmt.Sprintf("'%s' was added to the catalog.", movie.Title)}, nil
}

func NewAdd(opts ...Option) toolhandler.ToolHandler {
	return &addHandler{
		options: NewOptions(opts...),
	}
}
