package openai

import (
	"context"
	"errors"
	"testing"

	"hr-helpdesk-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	messages []llms.MessageContent
	options  llms.CallOptions
	reply    string
	err      error
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.options)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestProviderChat(t *testing.T) {
	model := &fakeModel{reply: "Employees get 21 days (Source: https://example.com)"}
	p := NewProviderWithModel(model)

	out, err := p.Chat(context.Background(),
		[]llm.Message{{Role: "system", Content: "ground"}, {Role: "user", Content: "leave?"}},
		llm.WithTemperature(0.2), llm.WithMaxTokens(512))
	require.NoError(t, err)

	assert.Equal(t, "Employees get 21 days (Source: https://example.com)", out)
	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, 0.2, model.options.Temperature)
	assert.Equal(t, 512, model.options.MaxTokens)
}

func TestProviderFailures(t *testing.T) {
	_, err := NewProviderWithModel(&fakeModel{err: errors.New("quota")}).Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "quota")

	_, err = NewProviderWithModel(&fakeModel{reply: "  "}).Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}
