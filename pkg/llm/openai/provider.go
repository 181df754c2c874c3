// Package openai adapts any OpenAI-compatible chat API to llm.LLMProvider.
package openai

import (
	"context"
	"fmt"
	"strings"

	"hr-helpdesk-be/pkg/llm"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

type Provider struct {
	client llms.Model
}

var _ llm.LLMProvider = &Provider{}

// NewProvider creates a chat client for model. An empty token is sent as
// "none" for local OpenAI-compatible servers.
func NewProvider(token, baseURL, model string) (*Provider, error) {
	if token == "" {
		token = "none"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	opts := []lcopenai.Option{
		lcopenai.WithToken(token),
		lcopenai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(baseURL))
	}

	client, err := lcopenai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Provider{client: client}, nil
}

// NewProviderWithModel wraps an existing langchaingo model.
func NewProviderWithModel(model llms.Model) *Provider {
	return &Provider{client: model}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(opts...)

	content := make([]llms.MessageContent, 0, len(history))
	for _, msg := range history {
		content = append(content, llms.TextParts(roleOf(msg.Role), msg.Content))
	}

	callOpts := []llms.CallOption{llms.WithTemperature(options.Temperature)}
	if options.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(options.MaxTokens))
	}
	if options.Model != "" {
		callOpts = append(callOpts, llms.WithModel(options.Model))
	}

	response, err := p.client.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", llm.ErrEmptyResponse
	}

	text := strings.TrimSpace(response.Choices[0].Content)
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func roleOf(role string) llms.ChatMessageType {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem
	case "assistant", "model":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
