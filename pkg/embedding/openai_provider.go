package embedding

import (
	"context"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIProvider embeds through any OpenAI-compatible embeddings API.
type OpenAIProvider struct {
	embedder embeddings.Embedder
}

// NewOpenAIProvider builds a provider for model. An empty baseURL targets the
// public OpenAI API; an empty token is replaced by "none" for local servers
// that skip authentication.
func NewOpenAIProvider(token, baseURL, model string) (*OpenAIProvider, error) {
	if token == "" {
		token = "none"
	}
	if model == "" {
		model = "text-embedding-3-small"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithEmbeddingModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}
	return &OpenAIProvider{embedder: embedder}, nil
}

func (p *OpenAIProvider) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return p.embedder.EmbedDocuments(ctx, texts)
}
