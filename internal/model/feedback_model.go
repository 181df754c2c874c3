package model

import "time"

type Feedback struct {
	FeedId     int64     `gorm:"column:feed_id;primaryKey;autoIncrement"`
	QuestionId int64     `gorm:"column:question_id;not null;index"`
	IsGood     bool      `gorm:"column:is_good;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Feedback) TableName() string {
	return "feedback"
}
