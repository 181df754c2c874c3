// Package escalation gates answers on retrieval confidence. Anything below
// the threshold goes to the human review queue as pending.
package escalation

import (
	"hr-helpdesk-be/pkg/i18n"
	"hr-helpdesk-be/pkg/rag"
)

const (
	StatusAnswered = "answered"
	StatusPending  = "pending"

	DefaultThreshold = 0.3
)

type Decision struct {
	Status     string
	Answer     string
	Confidence float64
}

// Answered reports whether Answer is the generated text.
func (d Decision) Answered() bool { return d.Status == StatusAnswered }

type Policy struct {
	Threshold float64
	catalog   *i18n.Catalog
}

func NewPolicy(threshold float64, catalog *i18n.Catalog) *Policy {
	return &Policy{Threshold: threshold, catalog: catalog}
}

// Decide maps a generator result to a status and the text to return.
// A recovered failure keeps its technical-difficulty text; a weak or empty
// retrieval is replaced by the apology whatever the model produced.
func (p *Policy) Decide(res rag.Result, lang string) Decision {
	switch {
	case res.Failed():
		return Decision{Status: StatusPending, Answer: res.Answer, Confidence: 0}
	case len(res.Hits) == 0:
		return Decision{Status: StatusPending, Answer: p.catalog.Text("rag.apology", lang), Confidence: 0}
	case res.Confidence < p.Threshold:
		return Decision{Status: StatusPending, Answer: p.catalog.Text("rag.apology", lang), Confidence: res.Confidence}
	default:
		return Decision{Status: StatusAnswered, Answer: res.Answer, Confidence: res.Confidence}
	}
}
