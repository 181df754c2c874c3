// Package mock provides a deterministic embedding provider for tests.
package mock

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"unicode"
)

// Provider embeds text as a bag of hashed lowercase words, so texts sharing
// words land close together and identical texts get identical vectors.
type Provider struct {
	Dim int

	// EmbedTextsFunc overrides the default behavior when set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	mu    sync.Mutex
	calls [][]string
}

func NewProvider(dim int) *Provider {
	if dim <= 0 {
		dim = 64
	}
	return &Provider{Dim: dim}
}

func (p *Provider) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	p.calls = append(p.calls, append([]string(nil), texts...))
	p.mu.Unlock()

	if p.EmbedTextsFunc != nil {
		return p.EmbedTextsFunc(ctx, texts)
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = Vector(text, p.Dim)
	}
	return out, nil
}

// Calls returns the batches received so far.
func (p *Provider) Calls() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]string(nil), p.calls...)
}

// Vector is the raw, unnormalized vector the provider returns for text.
func Vector(text string, dim int) []float32 {
	vec := make([]float32, dim)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(dim)]++
	}
	if len(words) == 0 {
		vec[0] = 1
	}
	return vec
}
