package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const TypeQuestionPending = "question.pending"

// QuestionPendingEvent announces a question routed to the human review queue.
type QuestionPendingEvent struct {
	QuestionID *int64    `json:"question_id"`
	SessionID  string    `json:"session_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Confidence float64   `json:"confidence"`
	Language   string    `json:"language"`
	OccurredAt time.Time `json:"occurred_at"`
}

var _ Event = QuestionPendingEvent{}

func (e QuestionPendingEvent) EventType() string { return TypeQuestionPending }

func (e QuestionPendingEvent) Timestamp() time.Time { return e.OccurredAt }

func (e QuestionPendingEvent) Payload() map[string]interface{} {
	p := map[string]interface{}{
		"session_id":  e.SessionID,
		"question":    e.Question,
		"answer":      e.Answer,
		"confidence":  e.Confidence,
		"language":    e.Language,
		"occurred_at": e.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	if e.QuestionID != nil {
		p["question_id"] = *e.QuestionID
	} else {
		p["question_id"] = nil
	}
	return p
}

// DecodeQuestionPending rebuilds the event from a JSON payload as written by
// Payload.
func DecodeQuestionPending(data []byte) (QuestionPendingEvent, error) {
	var e QuestionPendingEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return QuestionPendingEvent{}, fmt.Errorf("decode %s event: %w", TypeQuestionPending, err)
	}
	return e, nil
}

// QuestionPendingFrom converts a generic event, such as one received from
// NATS, back into its typed form.
func QuestionPendingFrom(ev Event) (QuestionPendingEvent, error) {
	if e, ok := ev.(QuestionPendingEvent); ok {
		return e, nil
	}
	data, err := json.Marshal(ev.Payload())
	if err != nil {
		return QuestionPendingEvent{}, fmt.Errorf("encode %s payload: %w", TypeQuestionPending, err)
	}
	return DecodeQuestionPending(data)
}
