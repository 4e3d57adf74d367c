package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	cachememory "github.com/filmflow/filmflow/cache/memory"
	"github.com/filmflow/filmflow/identity"
	"github.com/filmflow/filmflow/reasoner"
	"github.com/filmflow/filmflow/store"
	storememory "github.com/filmflow/filmflow/store/memory"
	toolhandler "github.com/filmflow/filmflow/tool_handler"
	"github.com/filmflow/filmflow/tool_handler/movies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedReasoner struct {
	decisions []*reasoner.Decision
	err       error
	requests  []reasoner.Request
}

func (r *scriptedReasoner) Reason(ctx context.Context, req reasoner.Request) (*reasoner.Decision, error) {
	r.requests = append(r.requests, req)

	if r.err != nil {
		return nil, r.err
	}

	i := len(r.requests) - 1
	if i >= len(r.decisions) {
		return r.decisions[len(r.decisions)-1], nil
	}

	return r.decisions[i], nil
}

type echoTool struct {
	err error
}

func (t *echoTool) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "echo",
		Description: "echoes text back",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		},
	}
}

func (t *echoTool) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	if t.err != nil {
		return toolhandler.ToolResponse{}, t.err
	}
	return toolhandler.ToolResponse{Content: fmt.Sprintf("echo: %v", req.Arguments["text"])}, nil
}

func newCatalog(t *testing.T, handlers ...toolhandler.ToolHandler) *toolhandler.Catalog {
	t.Helper()

	catalog, err := toolhandler.NewCatalog(handlers...)
	require.NoError(t, err)

	return catalog
}

type fixedEmbedder struct {
	vector []float32
}

func (e *fixedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) == 0 {
		return []float32{}, nil
	}
	return e.vector, nil
}

func TestChatAddMovieMissingGenre(t *testing.T) {
	st := storememory.NewStore()

	addTool := movies.NewAdd(
		movies.WithStore(st),
		movies.WithEmbedder(&fixedEmbedder{vector: []float32{1, 0}}),
		movies.WithCache(cachememory.NewRegistry()),
	)

	clarify := "What genre is Dune? I need at least one genre to add it."
	r := &scriptedReasoner{decisions: []*reasoner.Decision{
		{ToolCall: &reasoner.ToolCall{
			ID:        "c1",
			Name:      "add_movie",
			Arguments: json.RawMessage(`{"title":"Dune","year":2021,"director":"Denis Villeneuve"}`),
		}},
		{Content: clarify},
	}}

	svc := New(r, newCatalog(t, addTool))

	ctx := identity.WithIdentity(context.Background(), identity.Identity{ID: "a1", Role: identity.RoleAdmin})

	reply, err := svc.Chat(ctx, "add Dune (2021) by Denis Villeneuve", nil)
	require.NoError(t, err)
	assert.Equal(t, clarify, reply)

	// The blocked call surfaces as an observation naming the missing field.
	require.Len(t, r.requests, 2)
	messages := r.requests[1].Messages
	require.Len(t, messages, 3)
	assert.Equal(t, reasoner.RoleTool, messages[2].Role)
	assert.Contains(t, messages[2].Content, "missing required argument")
	assert.Contains(t, messages[2].Content, "genre")

	// Nothing reached the catalog.
	inserted, err := st.FindMovies(context.Background(), store.Filter{}, 10)
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

func TestChat(t *testing.T) {
	ctx := context.Background()

	t.Run("direct answer without tools", func(t *testing.T) {
		r := &scriptedReasoner{decisions: []*reasoner.Decision{
			{Content: "Hello there"},
		}}
		svc := New(r, newCatalog(t, &echoTool{}))

		reply, err := svc.Chat(ctx, "hi", nil)
		require.NoError(t, err)
		assert.Equal(t, "Hello there", reply)
		require.Len(t, r.requests, 1)
		assert.Len(t, r.requests[0].Tools, 1)
	})

	t.Run("tool result feeds the next step", func(t *testing.T) {
		r := &scriptedReasoner{decisions: []*reasoner.Decision{
			{ToolCall: &reasoner.ToolCall{ID: "c1", Name: "echo", Arguments: json.RawMessage(`{"text":"ping"}`)}},
			{Content: "The tool said ping"},
		}}
		svc := New(r, newCatalog(t, &echoTool{}))

		reply, err := svc.Chat(ctx, "use the tool", nil)
		require.NoError(t, err)
		assert.Equal(t, "The tool said ping", reply)

		require.Len(t, r.requests, 2)
		messages := r.requests[1].Messages
		require.Len(t, messages, 3)
		assert.Equal(t, reasoner.RoleAssistant, messages[1].Role)
		require.NotNil(t, messages[1].ToolCall)
		assert.Equal(t, reasoner.RoleTool, messages[2].Role)
		assert.Equal(t, "echo: ping", messages[2].Content)
		assert.Equal(t, "c1", messages[2].ToolCallID)
	})

	t.Run("unknown tool reported back as observation", func(t *testing.T) {
		r := &scriptedReasoner{decisions: []*reasoner.Decision{
			{ToolCall: &reasoner.ToolCall{Name: "missing", Arguments: json.RawMessage(`{}`)}},
			{Content: "recovered"},
		}}
		svc := New(r, newCatalog(t, &echoTool{}))

		reply, err := svc.Chat(ctx, "do something", nil)
		require.NoError(t, err)
		assert.Equal(t, "recovered", reply)

		messages := r.requests[1].Messages
		assert.Contains(t, messages[2].Content, "unknown tool")
	})

	t.Run("schema violation blocks dispatch", func(t *testing.T) {
		tool := &echoTool{}
		r := &scriptedReasoner{decisions: []*reasoner.Decision{
			{ToolCall: &reasoner.ToolCall{Name: "echo", Arguments: json.RawMessage(`{"bogus":1}`)}},
			{Content: "recovered"},
		}}
		svc := New(r, newCatalog(t, tool))

		reply, err := svc.Chat(ctx, "do something", nil)
		require.NoError(t, err)
		assert.Equal(t, "recovered", reply)

		messages := r.requests[1].Messages
		assert.Contains(t, messages[2].Content, "invalid arguments")
	})

	t.Run("tool failure becomes an observation", func(t *testing.T) {
		r := &scriptedReasoner{decisions: []*reasoner.Decision{
			{ToolCall: &reasoner.ToolCall{Name: "echo", Arguments: json.RawMessage(`{"text":"ping"}`)}},
			{Content: "recovered"},
		}}
		svc := New(r, newCatalog(t, &echoTool{err: errors.New("backend down")}))

		reply, err := svc.Chat(ctx, "do something", nil)
		require.NoError(t, err)
		assert.Equal(t, "recovered", reply)

		messages := r.requests[1].Messages
		assert.Contains(t, messages[2].Content, "backend down")
	})

	t.Run("iteration budget exhaustion yields an apology", func(t *testing.T) {
		r := &scriptedReasoner{decisions: []*reasoner.Decision{
			{ToolCall: &reasoner.ToolCall{Name: "echo", Arguments: json.RawMessage(`{"text":"again"}`)}},
		}}
		svc := New(r, newCatalog(t, &echoTool{}), WithMaxIterations(3))

		reply, err := svc.Chat(ctx, "loop forever", nil)
		require.NoError(t, err)
		assert.Equal(t, exhaustedReply, reply)
		assert.Len(t, r.requests, 3)
	})

	t.Run("reasoner failure propagates", func(t *testing.T) {
		r := &scriptedReasoner{err: errors.New("provider down")}
		svc := New(r, newCatalog(t, &echoTool{}))

		_, err := svc.Chat(ctx, "hi", nil)
		assert.ErrorContains(t, err, "reasoning failed")
	})

	t.Run("empty input rejected", func(t *testing.T) {
		r := &scriptedReasoner{decisions: []*reasoner.Decision{{Content: "x"}}}
		svc := New(r, newCatalog(t, &echoTool{}))

		_, err := svc.Chat(ctx, "   ", nil)
		assert.Error(t, err)
		assert.Empty(t, r.requests)
	})

	t.Run("history precedes the new user turn", func(t *testing.T) {
		r := &scriptedReasoner{decisions: []*reasoner.Decision{{Content: "done"}}}
		svc := New(r, newCatalog(t, &echoTool{}))

		history := []reasoner.Message{
			{Role: reasoner.RoleUser, Content: "earlier question"},
			{Role: reasoner.RoleAssistant, Content: "earlier answer"},
		}

		_, err := svc.Chat(ctx, "follow-up", history)
		require.NoError(t, err)

		messages := r.requests[0].Messages
		require.Len(t, messages, 3)
		assert.Equal(t, "earlier question", messages[0].Content)
		assert.Equal(t, "follow-up", messages[2].Content)
	})
}
