package repository

import (
	"time"

	"github.com/chaaaaae/TTOBA/internal/entity"
	"gorm.io/gorm"
)

type (
	InterviewRepository interface {
		// Question catalog
		CreateQuestion(db *gorm.DB, question *entity.Question) error
		FindAllQuestions(db *gorm.DB) ([]entity.Question, error)
		FindQuestionByQuestionID(db *gorm.DB, questionID string) (*entity.Question, error)
		CountQuestions(db *gorm.DB) (int64, error)

		// Practice sets
		CreatePracticeSet(db *gorm.DB, set *entity.PracticeSet) error
		FindPracticeSetBySetID(db *gorm.DB, setID string) (*entity.PracticeSet, error)
		FindAllPracticeSets(db *gorm.DB) ([]entity.PracticeSet, error)

		// Sessions
		CreateSession(db *gorm.DB, session *entity.InterviewSession) error
		FindSessionBySessionID(db *gorm.DB, sessionID string) (*entity.InterviewSession, error)
		EndSession(db *gorm.DB, sessionID string, endedAt time.Time) error

		// Answer records
		CreateAnswerRecord(db *gorm.DB, record *entity.AnswerRecord) error
		FindAnswerRecord(db *gorm.DB, sessionID string, questionNumber int) (*entity.AnswerRecord, error)
		FindAnswerRecordsBySessionID(db *gorm.DB, sessionID string) ([]entity.AnswerRecord, error)
		UpdateAnswerText(db *gorm.DB, sessionID string, questionNumber int, text string) error
		UpdateAnswerArtifact(db *gorm.DB, sessionID string, questionNumber int, videoURL string, durationSeconds float64) error
		UpdateAnswerAnalysis(db *gorm.DB, record *entity.AnswerRecord) error

		// Session feedback cache
		UpsertFeedbackCache(db *gorm.DB, cache *entity.SessionFeedbackCache) error
		FindFeedbackCacheBySessionID(db *gorm.DB, sessionID string) (*entity.SessionFeedbackCache, error)
	}

	interviewRepository struct {
		db *gorm.DB
	}
)

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

// Question catalog
func (r *interviewRepository) CreateQuestion(db *gorm.DB, question *entity.Question) error {
	if db == nil {
		db = r.db
	}
	return db.Create(question).Error
}

func (r *interviewRepository) FindAllQuestions(db *gorm.DB) ([]entity.Question, error) {
	if db == nil {
		db = r.db
	}
	var questions []entity.Question
	err := db.Order("position ASC").Find(&questions).Error
	return questions, err
}

func (r *interviewRepository) FindQuestionByQuestionID(db *gorm.DB, questionID string) (*entity.Question, error) {
	if db == nil {
		db = r.db
	}
	var question entity.Question
	err := db.Where("question_id = ?", questionID).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *interviewRepository) CountQuestions(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	err := db.Model(&entity.Question{}).Count(&count).Error
	return count, err
}

// Practice sets
func (r *interviewRepository) CreatePracticeSet(db *gorm.DB, set *entity.PracticeSet) error {
	if db == nil {
		db = r.db
	}
	return db.Create(set).Error
}

func (r *interviewRepository) FindPracticeSetBySetID(db *gorm.DB, setID string) (*entity.PracticeSet, error) {
	if db == nil {
		db = r.db
	}
	var set entity.PracticeSet
	err := db.Where("set_id = ?", setID).First(&set).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *interviewRepository) FindAllPracticeSets(db *gorm.DB) ([]entity.PracticeSet, error) {
	if db == nil {
		db = r.db
	}
	var sets []entity.PracticeSet
	err := db.Order("set_id ASC").Find(&sets).Error
	return sets, err
}

// Sessions
func (r *interviewRepository) CreateSession(db *gorm.DB, session *entity.InterviewSession) error {
	if db == nil {
		db = r.db
	}
	return db.Create(session).Error
}

func (r *interviewRepository) FindSessionBySessionID(db *gorm.DB, sessionID string) (*entity.InterviewSession, error) {
	if db == nil {
		db = r.db
	}
	var session entity.InterviewSession
	err := db.Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *interviewRepository) EndSession(db *gorm.DB, sessionID string, endedAt time.Time) error {
	if db == nil {
		db = r.db
	}
	return db.Model(&entity.InterviewSession{}).
		Where("session_id = ?", sessionID).
		UpdateColumn("ended_at", endedAt).Error
}

// Answer records
func (r *interviewRepository) CreateAnswerRecord(db *gorm.DB, record *entity.AnswerRecord) error {
	if db == nil {
		db = r.db
	}
	return db.Create(record).Error
}

func (r *interviewRepository) FindAnswerRecord(db *gorm.DB, sessionID string, questionNumber int) (*entity.AnswerRecord, error) {
	if db == nil {
		db = r.db
	}
	var record entity.AnswerRecord
	err := db.Where("session_id = ? AND question_number = ?", sessionID, questionNumber).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *interviewRepository) FindAnswerRecordsBySessionID(db *gorm.DB, sessionID string) ([]entity.AnswerRecord, error) {
	if db == nil {
		db = r.db
	}
	var records []entity.AnswerRecord
	err := db.Where("session_id = ?", sessionID).Order("question_number ASC").Find(&records).Error
	return records, err
}

func (r *interviewRepository) UpdateAnswerText(db *gorm.DB, sessionID string, questionNumber int, text string) error {
	if db == nil {
		db = r.db
	}
	return db.Model(&entity.AnswerRecord{}).
		Where("session_id = ? AND question_number = ?", sessionID, questionNumber).
		UpdateColumn("answer_text", text).Error
}

func (r *interviewRepository) UpdateAnswerArtifact(db *gorm.DB, sessionID string, questionNumber int, videoURL string, durationSeconds float64) error {
	if db == nil {
		db = r.db
	}
	return db.Model(&entity.AnswerRecord{}).
		Where("session_id = ? AND question_number = ?", sessionID, questionNumber).
		UpdateColumns(map[string]interface{}{
			"video_url":        videoURL,
			"duration_seconds": durationSeconds,
		}).Error
}

// UpdateAnswerAnalysis overwrites exactly the enrichment columns in one
// statement, so a record is never observable mid-merge.
func (r *interviewRepository) UpdateAnswerAnalysis(db *gorm.DB, record *entity.AnswerRecord) error {
	if db == nil {
		db = r.db
	}
	return db.Model(&entity.AnswerRecord{}).
		Where("session_id = ? AND question_number = ?", record.SessionID, record.QuestionNumber).
		Select("ai_score", "ai_answer_summary", "ai_strengths", "ai_improvements",
			"ai_suggestions", "ai_rewritten_answer", "ai_structure", "ai_recommended_structure", "analyzed_at").
		Updates(record).Error
}

// Session feedback cache
func (r *interviewRepository) UpsertFeedbackCache(db *gorm.DB, cache *entity.SessionFeedbackCache) error {
	if db == nil {
		db = r.db
	}
	return db.Where("session_id = ?", cache.SessionID).Assign(cache).FirstOrCreate(cache).Error
}

func (r *interviewRepository) FindFeedbackCacheBySessionID(db *gorm.DB, sessionID string) (*entity.SessionFeedbackCache, error) {
	if db == nil {
		db = r.db
	}
	var cache entity.SessionFeedbackCache
	err := db.Where("session_id = ?", sessionID).First(&cache).Error
	if err != nil {
		return nil, err
	}
	return &cache, nil
}
