package embedding

import "context"

// EmbeddingProvider turns texts into vectors, one per input in input order.
// Providers return raw vectors; normalization is the Gateway's job.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
