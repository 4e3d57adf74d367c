package openai

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/filmflow/filmflow/reasoner"
	"github.com/sashabaranov/go-openai"
)

type openAIReasoner struct {
	options reasoner.Options
	client  *openai.Client
}

func (r *openAIReasoner) Reason(ctx context.Context, req reasoner.Request) (*reasoner.Decision, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)

	if len(req.System) > 0 {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, msg := range req.Messages {
		messages = append(messages, toChatMessage(msg))
	}

	tools := make([]openai.Tool, 0, len(req.Tools))
	for _, spec := range req.Tools {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.InputSchema,
			},
		})
	}

	rsp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.options.Model,
		Messages:    messages,
		Tools:       tools,
		MaxTokens:   r.options.MaxTokens,
		Temperature: r.options.Temperature,
	})
	if err != nil {
		return nil, err
	}

	if len(rsp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	choice := rsp.Choices[0].Message

	if len(choice.ToolCalls) > 0 {
		// Tools are invoked strictly one at a time; any extra calls are
		// ignored and the model re-decides after seeing the result.
		call := choice.ToolCalls[0]
		return &reasoner.Decision{
			ToolCall: &reasoner.ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: json.RawMessage(call.Function.Arguments),
			},
		}, nil
	}

	return &reasoner.Decision{Content: choice.Content}, nil
}

func toChatMessage(msg reasoner.Message) openai.ChatCompletionMessage {
	switch msg.Role {
	case reasoner.RoleTool:
		return openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
	case reasoner.RoleAssistant:
		out := openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: msg.Content,
		}
		if msg.ToolCall != nil {
			out.ToolCalls = []openai.ToolCall{
				{
					ID:   msg.ToolCall.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      msg.ToolCall.Name,
						Arguments: string(msg.ToolCall.Arguments),
					},
				},
			}
		}
		return out
	default:
		return openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: msg.Content,
		}
	}
}

func NewReasoner(opts ...reasoner.Option) reasoner.Reasoner {
	options := reasoner.NewOptions(opts...)

	r := &openAIReasoner{
		options: options,
	}

	cfg := openai.DefaultConfig(options.ApiKey)
	if len(options.BaseURL) > 0 {
		cfg.BaseURL = options.BaseURL
	}

	r.client = openai.NewClientWithConfig(cfg)

	return r
}
