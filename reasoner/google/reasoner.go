package google

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/filmflow/filmflow/reasoner"
	"github.com/google/generative-ai-go/genai"
	genaiopt "google.golang.org/api/option"
)

type googleReasoner struct {
	options reasoner.Options
	client  *genai.Client
}

func (r *googleReasoner) Reason(ctx context.Context, req reasoner.Request) (*reasoner.Decision, error) {
	model := r.client.GenerativeModel(r.options.Model)

	if len(req.System) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	declarations := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
	for _, spec := range req.Tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  toSchema(spec.InputSchema),
		})
	}
	if len(declarations) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	}

	if len(req.Messages) == 0 {
		return nil, errors.New("no messages to reason over")
	}

	session := model.StartChat()

	for _, msg := range req.Messages[:len(req.Messages)-1] {
		session.History = append(session.History, toContent(msg))
	}

	last := toContent(req.Messages[len(req.Messages)-1])

	rsp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, err
	}

	if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil {
		return nil, errors.New("no response from Google")
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			b.WriteString(string(v))
		case genai.FunctionCall:
			arguments, err := json.Marshal(v.Args)
			if err != nil {
				return nil, err
			}
			return &reasoner.Decision{
				ToolCall: &reasoner.ToolCall{
					Name:      v.Name,
					Arguments: arguments,
				},
			}, nil
		}
	}

	result := b.String()
	if len(result) == 0 {
		return nil, errors.New("no response from Google")
	}

	return &reasoner.Decision{Content: result}, nil
}

func toContent(msg reasoner.Message) *genai.Content {
	switch msg.Role {
	case reasoner.RoleTool:
		return &genai.Content{
			Role: "function",
			Parts: []genai.Part{genai.FunctionResponse{
				Name:     msg.ToolName,
				Response: map[string]any{"content": msg.Content},
			}},
		}
	case reasoner.RoleAssistant:
		if msg.ToolCall != nil {
			var args map[string]any
			_ = json.Unmarshal(msg.ToolCall.Arguments, &args)
			return &genai.Content{
				Role: "model",
				Parts: []genai.Part{genai.FunctionCall{
					Name: msg.ToolCall.Name,
					Args: args,
				}},
			}
		}
		return &genai.Content{
			Role:  "model",
			Parts: []genai.Part{genai.Text(msg.Content)},
		}
	default:
		return &genai.Content{
			Role:  "user",
			Parts: []genai.Part{genai.Text(msg.Content)},
		}
	}
}

func toSchema(inputSchema map[string]any) *genai.Schema {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: map[string]*genai.Schema{},
	}

	properties, _ := inputSchema["properties"].(map[string]any)
	for name, raw := range properties {
		property, _ := raw.(map[string]any)
		schema.Properties[name] = toPropertySchema(property)
	}

	if required, ok := inputSchema["required"].([]string); ok {
		schema.Required = required
	}

	return schema
}

func toPropertySchema(property map[string]any) *genai.Schema {
	description, _ := property["description"].(string)
	propertyType, _ := property["type"].(string)

	switch propertyType {
	case "integer":
		return &genai.Schema{Type: genai.TypeInteger, Description: description}
	case "number":
		return &genai.Schema{Type: genai.TypeNumber, Description: description}
	case "array":
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: description,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	default:
		return &genai.Schema{Type: genai.TypeString, Description: description}
	}
}

func NewReasoner(opts ...reasoner.Option) (reasoner.Reasoner, error) {
	options := reasoner.NewOptions(opts...)

	client, err := genai.NewClient(
		options.Context,
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		return nil, err
	}

	return &googleReasoner{
		options: options,
		client:  client,
	}, nil
}
