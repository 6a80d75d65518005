package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	httpEntity "github.com/chaaaaae/TTOBA/internal/delivery/http/entity"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/repository"
	"github.com/chaaaaae/TTOBA/internal/pkg/mapper"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ReportUsecase interface {
	AssembleReport(ctx context.Context, sessionID string) (*httpEntity.Report, error)
}

type ReportConfig struct {
	DB         *gorm.DB
	Repository repository.InterviewRepository
	Analysis   AnalysisUsecase
	Log        *logrus.Logger
}

type reportUsecase struct {
	cfg ReportConfig
}

func NewReportUsecase(cfg ReportConfig) ReportUsecase {
	return &reportUsecase{cfg: cfg}
}

// AssembleReport builds the session report from stored records. A failing
// aggregate pass degrades the overall section only; the per-answer content
// always ships.
func (u *reportUsecase) AssembleReport(ctx context.Context, sessionID string) (*httpEntity.Report, error) {
	if _, err := u.cfg.Repository.FindSessionBySessionID(u.cfg.DB, sessionID); err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	records, err := u.cfg.Repository.FindAnswerRecordsBySessionID(u.cfg.DB, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer records: %w", err)
	}

	answers := make([]httpEntity.AnswerItem, 0, len(records))
	for i := range records {
		item, err := mapper.ToAnswerItem(&records[i])
		if err != nil {
			u.cfg.Log.Errorf("answer record %d of session %s has corrupt analysis columns: %v", records[i].QuestionNumber, sessionID, err)
		}
		answers = append(answers, item)
	}

	overall, overallErr := u.cfg.Analysis.SessionFeedback(ctx, sessionID)
	if overallErr != nil && !errors.Is(overallErr, ErrNoAggregatableAnswers) {
		u.cfg.Log.Warnf("overall feedback for session %s unavailable: %v", sessionID, overallErr)
	}

	return buildReport(sessionID, answers, overall, overallErr), nil
}

// buildReport derives the report scalars from the answer views. The overall
// score is the mean of present scores rounded half away from zero; records
// without a score do not dilute it.
func buildReport(sessionID string, answers []httpEntity.AnswerItem, overall *httpEntity.SessionFeedback, overallErr error) *httpEntity.Report {
	var totalDuration float64
	var scoreSum float64
	var scored int
	for _, a := range answers {
		totalDuration += a.DurationSeconds
		if a.AIScore != nil {
			scoreSum += *a.AIScore
			scored++
		}
	}

	overallScore := 0
	if scored > 0 {
		overallScore = int(math.Round(scoreSum / float64(scored)))
	}

	status := httpEntity.OverallReady
	if overallErr != nil {
		if errors.Is(overallErr, ErrNoAggregatableAnswers) {
			status = httpEntity.OverallInsufficientData
		} else {
			status = httpEntity.OverallFailed
		}
	}

	return &httpEntity.Report{
		SessionID:            sessionID,
		TotalDurationSeconds: totalDuration,
		QuestionCount:        len(answers),
		OverallScore:         overallScore,
		Answers:              answers,
		Overall:              overall,
		OverallStatus:        status,
	}
}
