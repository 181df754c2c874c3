// Package rag answers questions from the indexed corpus: retrieve, prompt,
// generate. Confidence is the top retrieval score, a measure of how relevant
// the context was rather than how correct the answer is.
package rag

import (
	"context"
	"errors"
	"fmt"

	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/pkg/i18n"
	"hr-helpdesk-be/pkg/llm"
	"hr-helpdesk-be/pkg/rag/prompt"
	"hr-helpdesk-be/pkg/store"
	"hr-helpdesk-be/pkg/vectorindex"
)

const (
	DefaultTopK        = 6
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 512
)

// QueryEmbedder embeds one query into a unit vector.
type QueryEmbedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// IndexSource hands out the initialized index.
type IndexSource interface {
	Get(ctx context.Context) (vectorindex.Index, error)
}

// Retriever finds the chunks closest to a query.
type Retriever struct {
	embedder QueryEmbedder
	indexes  IndexSource
	topK     int
}

func NewRetriever(embedder QueryEmbedder, indexes IndexSource, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{embedder: embedder, indexes: indexes, topK: topK}
}

func (r *Retriever) Retrieve(ctx context.Context, query string) ([]store.Hit, error) {
	vec, err := r.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, err
	}
	idx, err := r.indexes.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("index unavailable: %w", err)
	}
	return idx.Search(ctx, vec, r.topK)
}

// Result is the outcome of one answering attempt.
type Result struct {
	Answer     string
	Hits       []store.Hit
	Confidence float64

	// Generated is true when Answer came from the model.
	Generated bool

	// Err holds the recovered failure, if any. Answer then carries a
	// localized fallback and Confidence is zero.
	Err error
}

// Failed reports whether the result is a recovered failure.
func (r Result) Failed() bool { return r.Err != nil }

type Generator struct {
	retriever   *Retriever
	llm         llm.LLMProvider
	builder     *prompt.Builder
	catalog     *i18n.Catalog
	temperature float64
	maxTokens   int
	logger      logger.ILogger
}

type GeneratorOption func(*Generator)

func WithTemperature(t float64) GeneratorOption {
	return func(g *Generator) { g.temperature = t }
}

func WithMaxTokens(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

func WithLogger(log logger.ILogger) GeneratorOption {
	return func(g *Generator) {
		if log != nil {
			g.logger = log
		}
	}
}

func NewGenerator(retriever *Retriever, provider llm.LLMProvider, builder *prompt.Builder, catalog *i18n.Catalog, opts ...GeneratorOption) *Generator {
	g := &Generator{
		retriever:   retriever,
		llm:         provider,
		builder:     builder,
		catalog:     catalog,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		logger:      logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Answer never returns an error: embedding and generation failures are
// folded into a zero-confidence Result with a fallback text in lang.
func (g *Generator) Answer(ctx context.Context, query, lang string) Result {
	hits, err := g.retriever.Retrieve(ctx, query)
	if err != nil {
		g.logger.Error("rag", "Retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
		return Result{
			Answer: g.catalog.Text("rag.technical_difficulty", lang),
			Err:    err,
		}
	}

	if len(hits) == 0 {
		return Result{Answer: g.catalog.Text("rag.no_information", lang)}
	}

	text, err := g.llm.Generate(ctx, g.builder.Build(query, hits),
		llm.WithTemperature(g.temperature),
		llm.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		g.logger.Error("rag", "Generation failed", map[string]interface{}{
			"error":     err.Error(),
			"top_score": hits[0].Score,
		})
		return Result{
			Answer: g.catalog.Text("rag.technical_difficulty", lang),
			Hits:   hits,
			Err:    errors.Join(ErrGenerationFailure, err),
		}
	}

	return Result{
		Answer:     text,
		Hits:       hits,
		Confidence: hits[0].Score,
		Generated:  true,
	}
}
