package entity

import "time"

type Question struct {
	Id         int64
	Text       string
	Answer     string
	Status     string // "answered" or "pending"
	Confidence float64
	CreatedAt  time.Time
}

type Feedback struct {
	Id         int64
	QuestionId int64
	IsGood     bool
	CreatedAt  time.Time
}
