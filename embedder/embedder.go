package embedder

import "context"

// Embedder turns free text into a fixed-length vector. Implementations are
// safe for concurrent use. Embedding an empty string yields an empty vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
