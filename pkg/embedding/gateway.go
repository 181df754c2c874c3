package embedding

import (
	"context"
	"fmt"
	"math"
	"time"

	"hr-helpdesk-be/internal/pkg/logger"
)

const (
	DefaultBatchSize = 100
	DefaultDelay     = 100 * time.Millisecond
)

// Gateway batches calls to a provider and returns unit-length vectors.
type Gateway struct {
	provider  EmbeddingProvider
	batchSize int
	delay     time.Duration
	logger    logger.ILogger
}

func NewGateway(provider EmbeddingProvider, batchSize int, delay time.Duration, log logger.ILogger) *Gateway {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Gateway{
		provider:  provider,
		batchSize: batchSize,
		delay:     delay,
		logger:    log,
	}
}

// Embed returns one normalized vector per text, in input order. Any failure
// discards every batch already embedded.
func (g *Gateway) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += g.batchSize {
		if start > 0 && g.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, ctx.Err())
			case <-time.After(g.delay):
			}
		}

		end := start + g.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := g.provider.EmbedTexts(ctx, texts[start:end])
		if err != nil {
			g.logger.Error("embedding", "Batch failed", map[string]interface{}{
				"batch_start": start,
				"batch_size":  end - start,
				"error":       err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("%w: provider returned %d vectors for %d texts",
				ErrEmbeddingUnavailable, len(vectors), end-start)
		}

		for _, v := range vectors {
			if len(v) == 0 {
				return nil, fmt.Errorf("%w: empty vector", ErrEmbeddingUnavailable)
			}
			if m := magnitude(v); m == 0 || math.IsNaN(m) || math.IsInf(m, 0) {
				return nil, fmt.Errorf("%w: vector has no direction", ErrEmbeddingUnavailable)
			}
			out = append(out, NormalizeVector(v))
		}
	}

	return out, nil
}

// EmbedOne embeds a single text.
func (g *Gateway) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := g.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// NormalizeVector normalizes a vector to unit length (magnitude = 1).
// Inner product over unit vectors equals cosine similarity.
func NormalizeVector(vec []float32) []float32 {
	m := magnitude(vec)

	// Avoid division by zero
	if m == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / m)
	}
	return normalized
}

func magnitude(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
