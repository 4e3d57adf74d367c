package google

import (
	"context"
	"errors"

	"github.com/filmflow/filmflow/embedder"
	"github.com/google/generative-ai-go/genai"
	genaiopt "google.golang.org/api/option"
)

type googleEmbedder struct {
	options embedder.Options
	client  *genai.Client
}

func (e *googleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) == 0 {
		return []float32{}, nil
	}

	model := e.client.EmbeddingModel(e.options.Model)
	rsp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}

	if rsp == nil || rsp.Embedding == nil || len(rsp.Embedding.Values) == 0 {
		return nil, errors.New("no embedding from Google")
	}

	return rsp.Embedding.Values, nil
}

func NewEmbedder(opts ...embedder.Option) (embedder.Embedder, error) {
	options := embedder.NewOptions(opts...)

	client, err := genai.NewClient(
		options.Context,
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		return nil, err
	}

	return &googleEmbedder{
		options: options,
		client:  client,
	}, nil
}
