package toolhandler

import "context"

// ToolHandler is a named capability the reasoning process may invoke during
// an agent turn. Tools take primitive arguments and return human-readable
// text; the reasoning process consumes natural language, not structured data.
type ToolHandler interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error)
}

type ToolRequest struct {
	Arguments map[string]any
}

type ToolResponse struct {
	Content string
}
