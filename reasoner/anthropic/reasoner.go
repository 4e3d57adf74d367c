package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/filmflow/filmflow/reasoner"
	toolhandler "github.com/filmflow/filmflow/tool_handler"
)

type anthropicReasoner struct {
	options reasoner.Options
	client  *anthropic.Client
}

func (r *anthropicReasoner) Reason(ctx context.Context, req reasoner.Request) (*reasoner.Decision, error) {
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, toMessageParam(msg))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(r.options.Model),
		MaxTokens: int64(r.options.MaxTokens),
		Messages:  messages,
		Tools:     toToolParams(req.Tools),
	}
	if len(req.System) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	rsp, err := r.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, content := range rsp.Content {
		switch block := content.AsAny().(type) {
		case anthropic.TextBlock:
			b.WriteString(block.Text)
		case anthropic.ToolUseBlock:
			return &reasoner.Decision{
				ToolCall: &reasoner.ToolCall{
					ID:        block.ID,
					Name:      block.Name,
					Arguments: json.RawMessage(block.JSON.Input.Raw()),
				},
			}, nil
		}
	}

	result := b.String()
	if len(result) == 0 {
		return nil, errors.New("no response from Anthropic")
	}

	return &reasoner.Decision{Content: result}, nil
}

func toToolParams(specs []toolhandler.ToolSpec) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(specs))

	for _, spec := range specs {
		properties, _ := spec.InputSchema["properties"].(map[string]any)
		required, _ := spec.InputSchema["required"].([]string)
		tool := anthropic.ToolParam{
			Name:        spec.Name,
			Description: anthropic.String(spec.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: properties,
				Required:   required,
			},
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &tool})
	}

	return tools
}

func toMessageParam(msg reasoner.Message) anthropic.MessageParam {
	switch msg.Role {
	case reasoner.RoleTool:
		// Tool results travel back as user-role content blocks.
		return anthropic.NewUserMessage(
			anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, false),
		)
	case reasoner.RoleAssistant:
		if msg.ToolCall != nil {
			return anthropic.NewAssistantMessage(
				anthropic.NewToolUseBlock(msg.ToolCall.ID, msg.ToolCall.Arguments, msg.ToolCall.Name),
			)
		}
		return anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content))
	default:
		return anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content))
	}
}

func NewReasoner(opts ...reasoner.Option) reasoner.Reasoner {
	options := reasoner.NewOptions(opts...)

	r := &anthropicReasoner{
		options: options,
	}

	client := anthropic.NewClient(
		anthropicopt.WithAPIKey(options.ApiKey),
	)

	r.client = &client

	return r
}
