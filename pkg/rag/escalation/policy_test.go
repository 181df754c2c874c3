package escalation

import (
	"errors"
	"testing"

	"hr-helpdesk-be/pkg/i18n"
	"hr-helpdesk-be/pkg/rag"
	"hr-helpdesk-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestPolicyDecide(t *testing.T) {
	catalog := i18n.Default()
	policy := NewPolicy(DefaultThreshold, catalog)
	hits := []store.Hit{{Score: 0.05}}

	tests := []struct {
		name       string
		result     rag.Result
		lang       string
		wantStatus string
		wantAnswer string
		wantConf   float64
	}{
		{
			name:       "low confidence discards generated text",
			result:     rag.Result{Answer: "generated text", Hits: hits, Confidence: 0.05, Generated: true},
			lang:       i18n.LangEnglish,
			wantStatus: StatusPending,
			wantAnswer: catalog.Text("rag.apology", i18n.LangEnglish),
			wantConf:   0.05,
		},
		{
			name:       "no hits",
			result:     rag.Result{Answer: "no info"},
			lang:       i18n.LangArabic,
			wantStatus: StatusPending,
			wantAnswer: catalog.Text("rag.apology", i18n.LangArabic),
			wantConf:   0,
		},
		{
			name:       "threshold is inclusive",
			result:     rag.Result{Answer: "generated text", Hits: hits, Confidence: 0.3, Generated: true},
			lang:       i18n.LangEnglish,
			wantStatus: StatusAnswered,
			wantAnswer: "generated text",
			wantConf:   0.3,
		},
		{
			name:       "confident answer",
			result:     rag.Result{Answer: "generated text", Hits: hits, Confidence: 0.82, Generated: true},
			lang:       i18n.LangEnglish,
			wantStatus: StatusAnswered,
			wantAnswer: "generated text",
			wantConf:   0.82,
		},
		{
			name:       "recovered failure keeps its fallback",
			result:     rag.Result{Answer: "technical", Hits: hits, Err: errors.New("boom")},
			lang:       i18n.LangEnglish,
			wantStatus: StatusPending,
			wantAnswer: "technical",
			wantConf:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Decide(tt.result, tt.lang)
			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Equal(t, tt.wantAnswer, d.Answer)
			assert.Equal(t, tt.wantConf, d.Confidence)
		})
	}
}
