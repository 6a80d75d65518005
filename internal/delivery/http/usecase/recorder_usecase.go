package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	httpEntity "github.com/chaaaaae/TTOBA/internal/delivery/http/entity"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/repository"
	"github.com/chaaaaae/TTOBA/internal/pkg/media"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNoActiveRecording means a stop arrived with no recording in flight for
// the session. Stops are then acknowledged without touching any record.
var ErrNoActiveRecording = errors.New("no active recording for session")

// ArtifactStore persists one recording blob and returns where it landed.
type ArtifactStore interface {
	Save(sessionID string, questionNumber int, data []byte) (media.Artifact, error)
}

type RecorderUsecase interface {
	StartForQuestion(ctx context.Context, sessionID string, questionNumber int) error
	StopCurrent(ctx context.Context, sessionID string, data []byte) (*httpEntity.RecordingResult, error)
	ActiveQuestion(sessionID string) (int, bool)
}

type RecorderConfig struct {
	DB         *gorm.DB
	Repository repository.InterviewRepository
	Store      ArtifactStore
	Log        *logrus.Logger
	// ProbeDuration extracts playback length from a stored blob. Defaults
	// to the WebM probe; a failed probe stores the artifact with zero
	// duration instead of rejecting it.
	ProbeDuration func(data []byte) (time.Duration, error)
}

// recorderUsecase tracks which question each session is currently recording.
// The map holds only the marker; all storage and database IO happens outside
// the lock.
type recorderUsecase struct {
	cfg    RecorderConfig
	mu     sync.Mutex
	active map[string]int
}

func NewRecorderUsecase(cfg RecorderConfig) RecorderUsecase {
	if cfg.ProbeDuration == nil {
		cfg.ProbeDuration = media.ProbeDuration
	}
	return &recorderUsecase{cfg: cfg, active: make(map[string]int)}
}

// StartForQuestion marks questionNumber as the session's recording target. A
// recording already in flight for another question is silently discarded,
// never stored against the wrong question.
func (u *recorderUsecase) StartForQuestion(ctx context.Context, sessionID string, questionNumber int) error {
	session, err := u.cfg.Repository.FindSessionBySessionID(u.cfg.DB, sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	questions, err := resolveSessionQuestions(u.cfg.DB, u.cfg.Repository, session)
	if err != nil {
		return err
	}
	if questionNumber < 1 || questionNumber > len(questions) {
		return ErrQuestionNumberOutOfRange
	}

	u.mu.Lock()
	if prev, ok := u.active[sessionID]; ok && prev != questionNumber {
		u.cfg.Log.Warnf("discarding recording marker for question %d of session %s", prev, sessionID)
	}
	u.active[sessionID] = questionNumber
	u.mu.Unlock()

	return nil
}

// StopCurrent closes the session's active recording. An empty blob is a
// force-stop: the marker clears and nothing is stored. Otherwise the blob is
// probed for duration, written to the artifact store and linked onto the
// answer record, creating the record if the answer text has not arrived yet.
func (u *recorderUsecase) StopCurrent(ctx context.Context, sessionID string, data []byte) (*httpEntity.RecordingResult, error) {
	u.mu.Lock()
	questionNumber, ok := u.active[sessionID]
	if ok {
		delete(u.active, sessionID)
	}
	u.mu.Unlock()

	if !ok {
		return nil, ErrNoActiveRecording
	}
	if len(data) == 0 {
		return &httpEntity.RecordingResult{QuestionNumber: questionNumber}, nil
	}

	var durationSeconds float64
	if d, err := u.cfg.ProbeDuration(data); err != nil {
		u.cfg.Log.Warnf("could not probe recording duration for question %d of session %s: %v", questionNumber, sessionID, err)
	} else {
		durationSeconds = d.Seconds()
	}

	artifact, err := u.cfg.Store.Save(sessionID, questionNumber, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store recording: %w", err)
	}

	session, err := u.cfg.Repository.FindSessionBySessionID(u.cfg.DB, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if err := ensureAnswerRecord(u.cfg.DB, u.cfg.Repository, session, questionNumber); err != nil {
		return nil, err
	}
	if err := u.cfg.Repository.UpdateAnswerArtifact(u.cfg.DB, sessionID, questionNumber, artifact.URL, durationSeconds); err != nil {
		return nil, fmt.Errorf("failed to link recording: %w", err)
	}

	return &httpEntity.RecordingResult{
		QuestionNumber:  questionNumber,
		VideoURL:        artifact.URL,
		DurationSeconds: durationSeconds,
	}, nil
}

// ActiveQuestion reports which question the session is recording, if any.
func (u *recorderUsecase) ActiveQuestion(sessionID string) (int, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	n, ok := u.active[sessionID]
	return n, ok
}
