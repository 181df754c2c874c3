package language

import (
	"context"
	"errors"
	"testing"

	"hr-helpdesk-be/pkg/i18n"
	"hr-helpdesk-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type stubLLM struct {
	calls int
	reply string
	err   error
}

func (s *stubLLM) Chat(context.Context, []llm.Message, ...llm.Option) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, nil, opts...)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"How many vacation days do I have?", i18n.LangEnglish},
		{"كم لي من إجازات متبقية؟", i18n.LangArabic},
		{"HR policy إجازة", i18n.LangArabic},
		{"Employee 101 asked about إ", i18n.LangEnglish},
		{"", i18n.LangEnglish},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestLLMTranslator(t *testing.T) {
	ctx := context.Background()

	t.Run("translates across languages", func(t *testing.T) {
		model := &stubLLM{reply: "How many vacation days?"}
		out := NewLLMTranslator(model, nil).Translate(ctx, "كم يوم إجازة؟", i18n.LangEnglish)
		assert.Equal(t, "How many vacation days?", out)
		assert.Equal(t, 1, model.calls)
	})

	t.Run("same language is untouched", func(t *testing.T) {
		model := &stubLLM{reply: "unused"}
		out := NewLLMTranslator(model, nil).Translate(ctx, "Annual leave", i18n.LangEnglish)
		assert.Equal(t, "Annual leave", out)
		assert.Zero(t, model.calls)
	})

	t.Run("failure returns input", func(t *testing.T) {
		model := &stubLLM{err: errors.New("timeout")}
		out := NewLLMTranslator(model, nil).Translate(ctx, "Annual leave", i18n.LangArabic)
		assert.Equal(t, "Annual leave", out)
	})
}
