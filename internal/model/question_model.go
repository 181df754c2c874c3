package model

import "time"

// Question is one persisted RAG turn. Guided dialog turns never land here.
type Question struct {
	QuestionId      int64      `gorm:"column:question_id;primaryKey;autoIncrement"`
	QuestionText    string     `gorm:"column:question_text;type:text;not null"`
	AnswerText      string     `gorm:"column:answer_text;type:text"`
	Status          string     `gorm:"column:status;type:varchar(20);default:'pending';index"`
	ConfidenceScore float64    `gorm:"column:confidence_score;default:0"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	Feedback        []Feedback `gorm:"foreignKey:QuestionId;references:QuestionId;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string {
	return "questions"
}
