package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/filmflow/filmflow/reasoner"
	toolhandler "github.com/filmflow/filmflow/tool_handler"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const exhaustedReply = "I'm sorry, I wasn't able to finish working through that request. Could you rephrase it or break it into smaller steps?"

var tracer = otel.Tracer("agent")

// Service runs the conversational loop: it asks the reasoner for the next
// step and, whenever the reasoner selects a tool, dispatches it and feeds
// the result back until the reasoner produces a final answer or the
// iteration budget runs out. Tools run strictly one at a time.
type Service struct {
	options  Options
	reasoner reasoner.Reasoner
	catalog  *toolhandler.Catalog
}

func (s *Service) Chat(ctx context.Context, userInput string, history []reasoner.Message) (string, error) {
	if len(strings.TrimSpace(userInput)) == 0 {
		return "", errors.New("user input is required")
	}

	ctx, span := tracer.Start(ctx, "agent.Chat")
	defer span.End()

	messages := make([]reasoner.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, reasoner.Message{
		Role:    reasoner.RoleUser,
		Content: userInput,
	})

	req := reasoner.Request{
		System: s.options.SystemPrompt,
		Tools:  s.catalog.ListSpecs(),
	}

	for i := 0; i < s.options.MaxIterations; i++ {
		req.Messages = messages

		decision, err := s.reasoner.Reason(ctx, req)
		if err != nil {
			return "", fmt.Errorf("reasoning failed: %w", err)
		}

		if decision.ToolCall == nil {
			span.SetAttributes(attribute.Int("agent.iterations", i+1))
			return decision.Content, nil
		}

		call := decision.ToolCall
		output := s.dispatch(ctx, call)

		messages = append(messages,
			reasoner.Message{
				Role:     reasoner.RoleAssistant,
				ToolCall: call,
			},
			reasoner.Message{
				Role:       reasoner.RoleTool,
				Content:    output,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			},
		)
	}

	slog.WarnContext(ctx, "iteration budget exhausted", "budget", s.options.MaxIterations)
	span.SetAttributes(attribute.Bool("agent.budget_exhausted", true))

	return exhaustedReply, nil
}

// dispatch runs one tool call and always returns text: tool failures are
// reported back to the reasoner as observations rather than aborting the
// conversation.
func (s *Service) dispatch(ctx context.Context, call *reasoner.ToolCall) string {
	ctx, span := tracer.Start(ctx, "agent.dispatch")
	defer span.End()

	span.SetAttributes(attribute.String("tool.name", call.Name))

	th, spec, ok := s.catalog.Get(call.Name)
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q.", call.Name)
	}

	args := map[string]any{}
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return fmt.Sprintf("Error: tool arguments are not valid JSON: %v.", err)
		}
	}

	if err := toolhandler.ValidateArguments(spec.InputSchema, args); err != nil {
		return fmt.Sprintf("Error: invalid arguments for %s: %v.", spec.Name, err)
	}

	rsp, err := th.Invoke(ctx, toolhandler.ToolRequest{Arguments: args})
	if err != nil {
		slog.WarnContext(ctx, "tool invocation failed", "tool", spec.Name, "error", err)
		return fmt.Sprintf("Error: %s failed: %v.", spec.Name, err)
	}

	return rsp.Content
}

func New(r reasoner.Reasoner, catalog *toolhandler.Catalog, opts ...Option) *Service {
	options := NewOptions(opts...)

	if options.MaxIterations <= 0 {
		options.MaxIterations = 8
	}

	if len(strings.TrimSpace(options.SystemPrompt)) == 0 {
		options.SystemPrompt = systemPrompt(time.Now())
	}

	return &Service{
		options:  options,
		reasoner: r,
		catalog:  catalog,
	}
}
