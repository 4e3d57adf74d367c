package movies

import (
	"context"
	"errors"
	"fmt"

	"github.com/filmflow/filmflow/store"
	toolhandler "github.com/filmflow/filmflow/tool_handler"
	"github.com/google/uuid"
)

type detailsHandler struct {
	options Options
}

func (h *detailsHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "get_movie_details",
		Description: "Fetches every detail of one movie whose id is already known.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"movie_id": map[string]any{
					"type":        "string",
					"description": "The movie's identifier",
				},
			},
			"required": []string{"movie_id"},
		},
	}
}

func (h *detailsHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	id := argString(req.Arguments, "movie_id")

	if uuid.Validate(id) != nil {
		return toolhandler.ToolResponse{Content: fmt.Sprintf("%q is not a valid movie id.", id)}, nil
	}

	movie, err := h.options.Store.GetMovie(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return toolhandler.ToolResponse{Content: fmt.Sprintf("No movie found with id %s.", id)}, nil
	}
	if err != nil {
		return toolhandler.ToolResponse{Content: fmt.Sprintf("Lookup failed: %v", err)}, nil
	}

	return toolhandler.ToolResponse{Content: renderDetails(movie)}, nil
}

func NewDetails(opts ...Option) toolhandler.ToolHandler {
	return &detailsHandler{
		options: NewOptions(opts...),
	}
}
