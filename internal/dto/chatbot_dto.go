package dto

import "time"

type AskRequest struct {
	Question         string `json:"question" validate:"required,notblank,max=4000"`
	Language         string `json:"language" validate:"omitempty,oneof=ar en"`
	SessionId        string `json:"session_id" validate:"max=128"`
	IsCommonQuestion bool   `json:"is_common_question"`
}

type RagSource struct {
	URL     string  `json:"url"`
	Section string  `json:"section"`
	Score   float64 `json:"score"`
}

type AskResponse struct {
	Answers          []string    `json:"answers"`
	ConfidenceScores []float64   `json:"confidence_scores"`
	QuestionId       *int64      `json:"question_id"`
	Status           string      `json:"status"`
	SessionId        string      `json:"session_id"`
	RagSources       []RagSource `json:"rag_sources,omitempty"`
}

type FeedbackRequest struct {
	QuestionId *int64 `json:"question_id" validate:"required"`
	IsGood     *bool  `json:"is_good" validate:"required"`
}

type CommonQuestion struct {
	Id   string `json:"id"`
	Text string `json:"text"`
}

type CommonQuestionsResponse struct {
	Questions []CommonQuestion `json:"questions"`
}

type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "unhealthy"
	Database  string    `json:"database"`
	Index     string    `json:"index"`
	Timestamp time.Time `json:"timestamp"`
}

// Healthy reports whether every dependency is up.
func (h *HealthResponse) Healthy() bool {
	return h.Status == "healthy"
}
