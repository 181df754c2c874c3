package factory

import (
	"fmt"

	"hr-helpdesk-be/pkg/llm"
	"hr-helpdesk-be/pkg/llm/ollama"
	"hr-helpdesk-be/pkg/llm/openai"
)

// Settings selects and configures an LLM backend.
type Settings struct {
	Provider string // "openai" or "ollama"
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "openai", "":
		return openai.NewProvider(s.APIKey, s.BaseURL, s.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
