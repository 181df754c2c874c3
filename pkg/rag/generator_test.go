package rag

import (
	"context"
	"errors"
	"testing"

	"hr-helpdesk-be/pkg/embedding"
	"hr-helpdesk-be/pkg/embedding/mock"
	"hr-helpdesk-be/pkg/i18n"
	"hr-helpdesk-be/pkg/llm"
	"hr-helpdesk-be/pkg/rag/prompt"
	"hr-helpdesk-be/pkg/store"
	"hr-helpdesk-be/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	prompts []string
	options *llm.Options
	reply   string
	err     error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (f *fakeLLM) Generate(_ context.Context, p string, opts ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, p)
	f.options = llm.Apply(opts...)
	return f.reply, f.err
}

type staticIndex struct{ idx vectorindex.Index }

func (s staticIndex) Get(context.Context) (vectorindex.Index, error) { return s.idx, nil }

const sourceURL = "https://example.com/labour-law"

func newIndex(t *testing.T, gw *embedding.Gateway, texts ...string) vectorindex.Index {
	t.Helper()
	idx := vectorindex.NewFlatIndex(t.TempDir())
	if len(texts) == 0 {
		return idx
	}
	vectors, err := gw.Embed(context.Background(), texts)
	require.NoError(t, err)
	chunks := make([]store.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = store.Chunk{SourceURL: sourceURL, Section: "Leave", ChunkIndex: i, Text: text}
	}
	require.NoError(t, idx.Build(context.Background(), vectors, chunks))
	return idx
}

func newGenerator(t *testing.T, provider *mock.Provider, model llm.LLMProvider, texts ...string) *Generator {
	gw := embedding.NewGateway(provider, 100, 0, nil)
	retriever := NewRetriever(gw, staticIndex{newIndex(t, embedding.NewGateway(mock.NewProvider(provider.Dim), 100, 0, nil), texts...)}, 6)
	return NewGenerator(retriever, model, prompt.NewBuilder(8000, ""), i18n.Default())
}

func TestGeneratorAnswer(t *testing.T) {
	ctx := context.Background()
	catalog := i18n.Default()

	t.Run("grounded answer", func(t *testing.T) {
		model := &fakeLLM{reply: "Workers get 21 days (Source: " + sourceURL + ")"}
		g := newGenerator(t, mock.NewProvider(64), model,
			"Annual leave is twenty one days for every worker",
			"Overtime is paid at a higher hourly rate")

		res := g.Answer(ctx, "annual leave days", i18n.LangEnglish)
		require.False(t, res.Failed())
		assert.True(t, res.Generated)
		assert.Equal(t, model.reply, res.Answer)
		require.Len(t, res.Hits, 2)
		assert.Equal(t, res.Hits[0].Score, res.Confidence)
		assert.Contains(t, res.Hits[0].Chunk.Text, "Annual leave")

		require.Len(t, model.prompts, 1)
		assert.Contains(t, model.prompts[0], "[Source: "+sourceURL+" | Section: Leave] Score=")
		assert.Contains(t, model.prompts[0], "Question:\nannual leave days")
		assert.Equal(t, DefaultTemperature, model.options.Temperature)
		assert.Equal(t, DefaultMaxTokens, model.options.MaxTokens)
	})

	t.Run("no hits skips generation", func(t *testing.T) {
		model := &fakeLLM{reply: "should not be used"}
		g := newGenerator(t, mock.NewProvider(64), model)

		res := g.Answer(ctx, "anything", i18n.LangArabic)
		assert.Empty(t, model.prompts)
		assert.Zero(t, res.Confidence)
		assert.Empty(t, res.Hits)
		assert.Equal(t, catalog.Text("rag.no_information", i18n.LangArabic), res.Answer)
	})

	t.Run("generation failure is recovered", func(t *testing.T) {
		model := &fakeLLM{err: errors.New("503 from upstream")}
		g := newGenerator(t, mock.NewProvider(64), model, "Annual leave is twenty one days for every worker")

		res := g.Answer(ctx, "annual leave", i18n.LangEnglish)
		assert.ErrorIs(t, res.Err, ErrGenerationFailure)
		assert.Zero(t, res.Confidence)
		assert.False(t, res.Generated)
		assert.Equal(t, catalog.Text("rag.technical_difficulty", i18n.LangEnglish), res.Answer)
	})

	t.Run("embedding failure is recovered", func(t *testing.T) {
		provider := mock.NewProvider(64)
		provider.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return nil, errors.New("connection refused")
		}
		model := &fakeLLM{reply: "unused"}
		g := newGenerator(t, provider, model, "Annual leave is twenty one days for every worker")

		res := g.Answer(ctx, "annual leave", i18n.LangEnglish)
		assert.ErrorIs(t, res.Err, embedding.ErrEmbeddingUnavailable)
		assert.Zero(t, res.Confidence)
		assert.Empty(t, model.prompts)
	})
}
