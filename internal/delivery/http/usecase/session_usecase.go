package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	httpEntity "github.com/chaaaaae/TTOBA/internal/delivery/http/entity"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/repository"
	dbEntity "github.com/chaaaaae/TTOBA/internal/entity"
	"github.com/chaaaaae/TTOBA/internal/pkg/mapper"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrQuestionNumberOutOfRange means the number does not address any question
// of the session's catalog.
var ErrQuestionNumberOutOfRange = errors.New("question number outside session catalog")

type SessionUsecase interface {
	StartSession(ctx context.Context, request *httpEntity.StartSessionRequest) (*httpEntity.SessionView, error)
	SubmitAnswer(ctx context.Context, sessionID string, request *httpEntity.SubmitAnswerRequest) error
	EndSession(ctx context.Context, sessionID string) error
	ListPracticeSets(ctx context.Context) ([]httpEntity.PracticeSet, error)
}

type SessionConfig struct {
	DB         *gorm.DB
	Repository repository.InterviewRepository
	Log        *logrus.Logger
}

type sessionUsecase struct {
	cfg SessionConfig
}

func NewSessionUsecase(cfg SessionConfig) SessionUsecase {
	return &sessionUsecase{cfg: cfg}
}

// StartSession opens a session over a practice set, or over the full question
// bank when no set is named, and returns the ordered catalog the client will
// walk through. Question numbers are 1-based positions in that catalog.
func (u *sessionUsecase) StartSession(ctx context.Context, request *httpEntity.StartSessionRequest) (*httpEntity.SessionView, error) {
	session := &dbEntity.InterviewSession{
		SessionID:     uuid.NewString(),
		PracticeSetID: request.PracticeSetID,
		StartedAt:     time.Now(),
	}

	questions, err := resolveSessionQuestions(u.cfg.DB, u.cfg.Repository, session)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, errors.New("no questions available for session")
	}

	if err := u.cfg.Repository.CreateSession(u.cfg.DB, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	view := &httpEntity.SessionView{
		SessionID: session.SessionID,
		Questions: make([]httpEntity.Question, 0, len(questions)),
	}
	for i := range questions {
		view.Questions = append(view.Questions, mapper.ToQuestion(&questions[i]))
	}
	return view, nil
}

// SubmitAnswer stores transcript text against a question. Repeated submits
// for the same question append, so partial transcripts accumulate into one
// answer. The record is created on first contact.
func (u *sessionUsecase) SubmitAnswer(ctx context.Context, sessionID string, request *httpEntity.SubmitAnswerRequest) error {
	session, err := u.cfg.Repository.FindSessionBySessionID(u.cfg.DB, sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	questions, err := resolveSessionQuestions(u.cfg.DB, u.cfg.Repository, session)
	if err != nil {
		return err
	}
	if request.QuestionNumber < 1 || request.QuestionNumber > len(questions) {
		return ErrQuestionNumberOutOfRange
	}

	if err := ensureAnswerRecord(u.cfg.DB, u.cfg.Repository, session, request.QuestionNumber); err != nil {
		return err
	}

	record, err := u.cfg.Repository.FindAnswerRecord(u.cfg.DB, sessionID, request.QuestionNumber)
	if err != nil {
		return fmt.Errorf("failed to load answer record: %w", err)
	}

	text := strings.TrimSpace(request.Text)
	if record.AnswerText != "" {
		text = record.AnswerText + "\n" + text
	}
	if err := u.cfg.Repository.UpdateAnswerText(u.cfg.DB, sessionID, request.QuestionNumber, text); err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

func (u *sessionUsecase) EndSession(ctx context.Context, sessionID string) error {
	if _, err := u.cfg.Repository.FindSessionBySessionID(u.cfg.DB, sessionID); err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	return u.cfg.Repository.EndSession(u.cfg.DB, sessionID, time.Now())
}

func (u *sessionUsecase) ListPracticeSets(ctx context.Context) ([]httpEntity.PracticeSet, error) {
	sets, err := u.cfg.Repository.FindAllPracticeSets(u.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to load practice sets: %w", err)
	}

	views := make([]httpEntity.PracticeSet, 0, len(sets))
	for i := range sets {
		var questionIDs []string
		if sets[i].QuestionIDs != "" {
			if err := json.Unmarshal([]byte(sets[i].QuestionIDs), &questionIDs); err != nil {
				u.cfg.Log.Warnf("practice set %s has malformed question list: %v", sets[i].SetID, err)
				continue
			}
		}
		views = append(views, httpEntity.PracticeSet{
			ID:            sets[i].SetID,
			Title:         sets[i].Title,
			Description:   sets[i].Description,
			Difficulty:    httpEntity.Difficulty(sets[i].Difficulty),
			QuestionCount: len(questionIDs),
		})
	}
	return views, nil
}

// resolveSessionQuestions returns the session's catalog in presentation
// order. A session without a practice set walks the full bank ordered by
// position; a practice set fixes both membership and order.
func resolveSessionQuestions(db *gorm.DB, repo repository.InterviewRepository, session *dbEntity.InterviewSession) ([]dbEntity.Question, error) {
	all, err := repo.FindAllQuestions(db)
	if err != nil {
		return nil, fmt.Errorf("failed to load question catalog: %w", err)
	}

	if session.PracticeSetID == "" {
		return all, nil
	}

	set, err := repo.FindPracticeSetBySetID(db, session.PracticeSetID)
	if err != nil {
		return nil, fmt.Errorf("practice set not found: %w", err)
	}

	var ids []string
	if set.QuestionIDs != "" {
		if err := json.Unmarshal([]byte(set.QuestionIDs), &ids); err != nil {
			return nil, fmt.Errorf("practice set %s has malformed question list: %w", set.SetID, err)
		}
	}

	byID := make(map[string]dbEntity.Question, len(all))
	for _, q := range all {
		byID[q.QuestionID] = q
	}

	questions := make([]dbEntity.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("practice set %s references unknown question %s", set.SetID, id)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// ensureAnswerRecord creates the (session, question number) row if it does
// not exist yet, so answer text and recording artifacts can arrive in either
// order.
func ensureAnswerRecord(db *gorm.DB, repo repository.InterviewRepository, session *dbEntity.InterviewSession, questionNumber int) error {
	if _, err := repo.FindAnswerRecord(db, session.SessionID, questionNumber); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load answer record: %w", err)
	}

	questions, err := resolveSessionQuestions(db, repo, session)
	if err != nil {
		return err
	}
	if questionNumber < 1 || questionNumber > len(questions) {
		return ErrQuestionNumberOutOfRange
	}
	question := questions[questionNumber-1]

	record := &dbEntity.AnswerRecord{
		SessionID:      session.SessionID,
		QuestionNumber: questionNumber,
		QuestionID:     question.QuestionID,
		QuestionText:   question.Text,
	}
	if err := repo.CreateAnswerRecord(db, record); err != nil {
		return fmt.Errorf("failed to create answer record: %w", err)
	}
	return nil
}
