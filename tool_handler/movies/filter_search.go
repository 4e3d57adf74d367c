package movies

import (
	"context"
	"fmt"

	"github.com/filmflow/filmflow/store"
	toolhandler "github.com/filmflow/filmflow/tool_handler"
)

type filterSearchHandler struct {
	options Options
}

func (h *filterSearchHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "search_movies_by_filter",
		Description: "Searches movies by specific criteria: title, director, genre, or release year. Use when the user names concrete facts such as 'Nolan's movie from 2010'.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Substring of the movie title",
				},
				"director": map[string]any{
					"type":        "string",
					"description": "Substring of the director's name",
				},
				"genre": map[string]any{
					"type":        "string",
					"description": "Substring of a genre",
				},
				"year": map[string]any{
					"type":        "integer",
					"description": "Exact release year",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results, defaults to 5",
				},
			},
			"required": []string{},
		},
	}
}

func (h *filterSearchHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	filter := store.Filter{
		Title:    argString(req.Arguments, "title"),
		Director: argString(req.Arguments, "director"),
		Genre:    argString(req.Arguments, "genre"),
		Year:     argInt(req.Arguments, "year", 0),
	}
	limit := argInt(req.Arguments, "limit", 5)

	movies, err := h.options.Engine.FilterSearch(ctx, filter, limit)
	if err != nil {
		return toolhandler.ToolResponse{Content: fmt.Sprintf("Filtered search failed: %v", err)}, nil
	}

	if len(movies) == 0 {
		return toolhandler.ToolResponse{Content: "No movies matched those filters."}, nil
	}

	return toolhandler.ToolResponse{Content: renderMovies(movies)}, nil
}

func NewFilterSearch(opts ...Option) toolhandler.ToolHandler {
	return &filterSearchHandler{
		options: NewOptions(opts...),
	}
}
