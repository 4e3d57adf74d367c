package reasoner

import (
	"context"
	"encoding/json"
	"errors"

	toolhandler "github.com/filmflow/filmflow/tool_handler"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ErrNoProvider is returned when no reasoning backend is configured. This is
// fatal at startup; the process must not serve requests without one.
var ErrNoProvider = errors.New("no reasoning provider configured: set an OpenAI-compatible, Anthropic, or Google API key")

// Reasoner performs one reasoning step over a conversation: given the prompt
// state and the available tools, it either produces a final answer or selects
// exactly one tool to invoke next.
type Reasoner interface {
	Reason(ctx context.Context, req Request) (*Decision, error)
}

type Request struct {
	System   string
	Messages []Message
	Tools    []toolhandler.ToolSpec
}

type Message struct {
	Role    string
	Content string
	// ToolCall is set on assistant messages that requested a tool.
	ToolCall *ToolCall
	// ToolCallID and ToolName are set on tool messages carrying a result.
	ToolCallID string
	ToolName   string
}

type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Decision carries either final content or a single tool call, never both.
type Decision struct {
	Content  string
	ToolCall *ToolCall
}
