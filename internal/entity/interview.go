package entity

import (
	"time"

	"gorm.io/gorm"
)

// Question - one catalog entry of the interview question bank
type Question struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuestionID string         `gorm:"uniqueIndex;size:50;not null" json:"question_id"` // e.g. "self_intro-1"
	CategoryID string         `gorm:"size:30;not null;index" json:"category_id"`
	Text       string         `gorm:"type:text;not null" json:"text"`
	Difficulty string         `gorm:"size:20;not null;index" json:"difficulty"` // easy, medium, hard
	Position   int            `gorm:"not null;index" json:"position"`           // catalog order
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// PracticeSet - a named ordered subset of the catalog used to seed a session
type PracticeSet struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	SetID       string         `gorm:"uniqueIndex;size:50;not null" json:"set_id"`
	Title       string         `gorm:"size:100;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Difficulty  string         `gorm:"size:20" json:"difficulty"`
	QuestionIDs string         `gorm:"type:text;not null" json:"question_ids"` // JSON array of question ids, in asking order
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PracticeSet) TableName() string {
	return "practice_sets"
}

// InterviewSession - one mock-interview run
type InterviewSession struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	SessionID     string         `gorm:"uniqueIndex;size:100;not null" json:"session_id"`
	PracticeSetID string         `gorm:"size:50;index" json:"practice_set_id"` // empty = full bank
	StartedAt     time.Time      `gorm:"autoCreateTime" json:"started_at"`
	EndedAt       *time.Time     `json:"ended_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// AnswerRecord - the durable per-question record of a session. The raw
// columns are written by the answer flow and the recording tracker, the ai_*
// columns only by the per-answer analyzer; the two groups never overlap.
// (session_id, question_number) is the sole correlation key.
type AnswerRecord struct {
	ID              uint    `gorm:"primarykey" json:"id"`
	SessionID       string  `gorm:"size:100;not null;uniqueIndex:idx_session_question" json:"session_id"`
	QuestionNumber  int     `gorm:"not null;uniqueIndex:idx_session_question" json:"question_number"` // 1-based position in session
	QuestionID      string  `gorm:"size:50" json:"question_id"`
	QuestionText    string  `gorm:"type:text" json:"question_text"` // denormalized, display only
	AnswerText      string  `gorm:"type:text" json:"answer_text"`
	DurationSeconds float64 `gorm:"default:0" json:"duration_seconds"`
	VideoURL        string  `gorm:"size:255" json:"video_url"`

	AIScore                *float64       `json:"ai_score,omitempty"`
	AIAnswerSummary        string         `gorm:"type:text" json:"ai_answer_summary"`
	AIStrengths            string         `gorm:"type:text" json:"ai_strengths"`    // JSON array
	AIImprovements         string         `gorm:"type:text" json:"ai_improvements"` // JSON array
	AISuggestions          string         `gorm:"type:text" json:"ai_suggestions"`  // JSON array
	AIRewrittenAnswer      string         `gorm:"type:text" json:"ai_rewritten_answer"`
	AIStructure            string         `gorm:"type:text" json:"ai_structure"`             // JSON object
	AIRecommendedStructure string         `gorm:"type:text" json:"ai_recommended_structure"` // JSON object
	AnalyzedAt             *time.Time     `json:"analyzed_at,omitempty"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AnswerRecord) TableName() string {
	return "answer_records"
}

// SessionFeedbackCache - the aggregate analysis for one session, keyed by a
// hash of the qualifying inputs so a changed input set forces recomputation.
type SessionFeedbackCache struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	SessionID       string         `gorm:"uniqueIndex;size:100;not null" json:"session_id"`
	InputHash       string         `gorm:"size:64;not null" json:"input_hash"`
	Strengths       string         `gorm:"type:text" json:"strengths"`       // JSON array
	Weaknesses      string         `gorm:"type:text" json:"weaknesses"`      // JSON array
	Recommendations string         `gorm:"type:text" json:"recommendations"` // JSON array
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SessionFeedbackCache) TableName() string {
	return "session_feedback_cache"
}
