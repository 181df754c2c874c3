package language

import (
	"context"
	"fmt"

	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/pkg/i18n"
	"hr-helpdesk-be/pkg/llm"
)

// Translator converts text into the target language. Implementations are
// best effort: on failure they return the input unchanged.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) string
}

// NoopTranslator returns its input.
type NoopTranslator struct{}

func (NoopTranslator) Translate(_ context.Context, text, _ string) string { return text }

// LLMTranslator asks a chat model for a plain translation.
type LLMTranslator struct {
	llm    llm.LLMProvider
	logger logger.ILogger
}

func NewLLMTranslator(provider llm.LLMProvider, log logger.ILogger) *LLMTranslator {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &LLMTranslator{llm: provider, logger: log}
}

func (t *LLMTranslator) Translate(ctx context.Context, text, targetLang string) string {
	if text == "" || Detect(text) == Normalize(targetLang) {
		return text
	}

	target := "English"
	if Normalize(targetLang) == i18n.LangArabic {
		target = "Arabic"
	}

	out, err := t.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: fmt.Sprintf(
			"Translate the user's message to %s. Keep URLs, numbers and names unchanged. Reply with the translation only.", target)},
		{Role: "user", Content: text},
	}, llm.WithTemperature(0))
	if err != nil {
		t.logger.Warn("language", "Translation failed, keeping original text", map[string]interface{}{
			"target": targetLang,
			"error":  err.Error(),
		})
		return text
	}
	return out
}
