package mapper

import (
	"hr-helpdesk-be/internal/entity"
	"hr-helpdesk-be/internal/model"
)

type QuestionMapper struct{}

func NewQuestionMapper() *QuestionMapper {
	return &QuestionMapper{}
}

func (m *QuestionMapper) ToEntity(q *model.Question) *entity.Question {
	if q == nil {
		return nil
	}
	return &entity.Question{
		Id:         q.QuestionId,
		Text:       q.QuestionText,
		Answer:     q.AnswerText,
		Status:     q.Status,
		Confidence: q.ConfidenceScore,
		CreatedAt:  q.CreatedAt,
	}
}

func (m *QuestionMapper) ToModel(q *entity.Question) *model.Question {
	if q == nil {
		return nil
	}
	return &model.Question{
		QuestionId:      q.Id,
		QuestionText:    q.Text,
		AnswerText:      q.Answer,
		Status:          q.Status,
		ConfidenceScore: q.Confidence,
		CreatedAt:       q.CreatedAt,
	}
}

func (m *QuestionMapper) FeedbackToEntity(f *model.Feedback) *entity.Feedback {
	if f == nil {
		return nil
	}
	return &entity.Feedback{
		Id:         f.FeedId,
		QuestionId: f.QuestionId,
		IsGood:     f.IsGood,
		CreatedAt:  f.CreatedAt,
	}
}

func (m *QuestionMapper) FeedbackToModel(f *entity.Feedback) *model.Feedback {
	if f == nil {
		return nil
	}
	return &model.Feedback{
		FeedId:     f.Id,
		QuestionId: f.QuestionId,
		IsGood:     f.IsGood,
		CreatedAt:  f.CreatedAt,
	}
}
