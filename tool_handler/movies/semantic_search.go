package movies

import (
	"context"
	"errors"
	"strings"

	"github.com/filmflow/filmflow/search"
	toolhandler "github.com/filmflow/filmflow/tool_handler"
)

type semanticSearchHandler struct {
	options Options
}

func (h *semanticSearchHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "semantic_search_movies",
		Description: "Searches movies by meaning. Use for mood or descriptive requests such as 'melancholic prison escape stories' or 'adventures set in space'.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The natural-language description of what the user wants to watch",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results, defaults to 5",
				},
			},
			"required": []string{"query"},
		},
	}
}

func (h *semanticSearchHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	query := strings.TrimSpace(argString(req.Arguments, "query"))
	limit := argInt(req.Arguments, "limit", 5)

	results, err := h.options.Engine.SemanticSearch(ctx, query, limit)

	var embErr *search.EmbeddingError
	switch {
	case errors.As(err, &embErr):
		// No vector means no search at all; let the loop report it.
		return toolhandler.ToolResponse{}, err
	case errors.Is(err, search.ErrEmptyQuery):
		return toolhandler.ToolResponse{Content: "The search query is empty. Ask the user what kind of movie they are looking for."}, nil
	case errors.Is(err, search.ErrNoMovies):
		return toolhandler.ToolResponse{Content: "There are no movies in the catalog yet."}, nil
	case errors.Is(err, search.ErrNoVectorData):
		return toolhandler.ToolResponse{Content: "The catalog movies are missing vector data, so semantic search is unavailable."}, nil
	case err != nil:
		return toolhandler.ToolResponse{Content: err.Error()}, nil
	}

	if len(results) == 0 {
		return toolhandler.ToolResponse{Content: "No movies semantically matched that request."}, nil
	}

	return toolhandler.ToolResponse{Content: renderScored(results)}, nil
}

func NewSemanticSearch(opts ...Option) toolhandler.ToolHandler {
	return &semanticSearchHandler{
		options: NewOptions(opts...),
	}
}
