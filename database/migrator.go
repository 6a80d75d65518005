package database

import (
	"github.com/chaaaaae/TTOBA/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Question{},
		&entity.PracticeSet{},
		&entity.InterviewSession{},
		&entity.AnswerRecord{},
		&entity.SessionFeedbackCache{},
	)
	return err
}
