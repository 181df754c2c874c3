package specification

import "gorm.io/gorm"

type ByQuestionID struct {
	ID int64
}

func (s ByQuestionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("question_id = ?", s.ID)
}
